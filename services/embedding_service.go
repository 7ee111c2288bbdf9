package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"sprout/config"
	"sprout/logger"
)

type embeddingRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	EncodingFormat string `json:"encoding_format"`
}

type embeddingResp struct {
	Model string `json:"model"`
	Data  []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// SiliconFlowEmbedder 通过 SiliconFlow embeddings 接口向量化查询
type SiliconFlowEmbedder struct {
	cfg    *config.Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[]float32]
}

// NewSiliconFlowEmbedder 创建向量化客户端
func NewSiliconFlowEmbedder(cfg *config.Config) *SiliconFlowEmbedder {
	return &SiliconFlowEmbedder{
		cfg:    cfg,
		client: newHTTPClient(cfg),
		cb:     newBreaker[[]float32]("siliconflow-embeddings"),
	}
}

// Embed 返回文本向量，熔断打开时直接失败
func (e *SiliconFlowEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if resolveAPIKey(e.cfg.SiliconFlow.APIKey) == "" || e.cfg.SiliconFlow.EmbeddingModel == "" {
		return nil, errSemanticUnavailable
	}

	return executeWithBreaker(e.cb, func() ([]float32, error) {
		body, err := postSiliconFlow(ctx, e.cfg, e.client, "/v1/embeddings", embeddingRequest{
			Model:          e.cfg.SiliconFlow.EmbeddingModel,
			Input:          text,
			EncodingFormat: "float",
		})
		if err != nil {
			return nil, err
		}

		var er embeddingResp
		if err := json.Unmarshal(body, &er); err != nil {
			return nil, fmt.Errorf("解析向量响应失败: %w", err)
		}
		if len(er.Data) == 0 || len(er.Data[0].Embedding) == 0 {
			return nil, fmt.Errorf("向量响应中没有数据")
		}

		logger.Debug("向量化完成", "model", er.Model, "dims", len(er.Data[0].Embedding), "tokens", er.Usage.TotalTokens)
		return er.Data[0].Embedding, nil
	})
}
