package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"sprout/config"
	"sprout/logger"
	"sprout/utils"
)

// 定义SiliconFlow API请求和响应结构
type siliconFlowRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type siliconFlowResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// resolveAPIKey 如果配置中的API Key是环境变量引用，则从环境变量中获取
func resolveAPIKey(apiKey string) string {
	if strings.HasPrefix(apiKey, "${") && strings.HasSuffix(apiKey, "}") {
		return os.Getenv(apiKey[2 : len(apiKey)-1])
	}
	return apiKey
}

// newHTTPClient 使用配置的超时时间
func newHTTPClient(cfg *config.Config) *http.Client {
	timeout := time.Duration(cfg.SiliconFlow.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second // 默认超时
	}
	return &http.Client{Timeout: timeout}
}

// postSiliconFlow 发送 JSON 请求并返回响应体，非 200 视为失败
func postSiliconFlow(ctx context.Context, cfg *config.Config, client *http.Client, path string, payload any) ([]byte, error) {
	reqJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	url := strings.TrimRight(cfg.SiliconFlow.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+resolveAPIKey(cfg.SiliconFlow.APIKey))

	startTime := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logger.Error("发送请求失败", "url", url, "error", err, "duration_ms", time.Since(startTime).Milliseconds())
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}
	logger.Debug("SiliconFlow响应",
		"url", url,
		"status_code", resp.StatusCode,
		"response_size", len(body),
		"duration_ms", time.Since(startTime).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		logger.Error("API请求失败", "status", resp.StatusCode, "response", utils.Preview(string(body), 500))
		return nil, fmt.Errorf("API请求失败: %d - %s", resp.StatusCode, utils.Preview(string(body), 200))
	}
	return body, nil
}

// chatCompletion 调用 chat completions 接口并返回第一条回复
func chatCompletion(ctx context.Context, cfg *config.Config, client *http.Client, prompt string, maxTokens int) (string, error) {
	reqBody := siliconFlowRequest{
		Model:       cfg.SiliconFlow.Model,
		Messages:    []message{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	body, err := postSiliconFlow(ctx, cfg, client, "/v1/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var sfResp siliconFlowResponse
	if err := json.Unmarshal(body, &sfResp); err != nil {
		logger.Error("解析响应失败", "error", err, "response_body_preview", utils.Preview(string(body), 200))
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if len(sfResp.Choices) == 0 {
		return "", fmt.Errorf("API响应中没有内容")
	}

	logger.Debug("成功获取LLM响应",
		"tokens_prompt", sfResp.Usage.PromptTokens,
		"tokens_completion", sfResp.Usage.CompletionTokens,
		"finish_reason", sfResp.Choices[0].FinishReason)
	return sfResp.Choices[0].Message.Content, nil
}

// SiliconFlowTitleGenerator 通过 SiliconFlow LLM 概括主题标题
type SiliconFlowTitleGenerator struct {
	cfg    *config.Config
	client *http.Client
	cb     *gobreaker.CircuitBreaker[string]
}

// NewSiliconFlowTitleGenerator 创建标题生成器
func NewSiliconFlowTitleGenerator(cfg *config.Config) *SiliconFlowTitleGenerator {
	return &SiliconFlowTitleGenerator{
		cfg:    cfg,
		client: newHTTPClient(cfg),
		cb:     newBreaker[string]("siliconflow-chat"),
	}
}

// GenerateTitle 概括成员标题；未配置、熔断、调用失败或结果为空时返回兜底标题
func (g *SiliconFlowTitleGenerator) GenerateTitle(ctx context.Context, topicName string, memberTitles []string) TitleResult {
	if resolveAPIKey(g.cfg.SiliconFlow.APIKey) == "" || g.cfg.SiliconFlow.Model == "" {
		return fallbackTitleResult(topicName, fmt.Errorf("title model not configured"))
	}

	prompt := buildThemeTitlePrompt(topicName, memberTitles)
	raw, err := executeWithBreaker(g.cb, func() (string, error) {
		return chatCompletion(ctx, g.cfg, g.client, prompt, themeTitleMaxTokens)
	})
	if err != nil {
		return fallbackTitleResult(topicName, err)
	}

	title := utils.CleanGeneratedTitle(raw)
	if title == "" {
		return fallbackTitleResult(topicName, fmt.Errorf("empty title from model: %q", utils.Preview(raw, 100)))
	}
	if r := []rune(title); len(r) > maxThemeTitleRunes {
		title = strings.TrimSpace(string(r[:maxThemeTitleRunes]))
	}
	return TitleResult{Title: title}
}
