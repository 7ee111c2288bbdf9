package services

import (
	"context"
)

// TitleGenerator 主题标题生成协作方
type TitleGenerator interface {
	// 将成员标题概括为一个短语；失败时返回带兜底标题的结果，不返回错误
	GenerateTitle(ctx context.Context, topicName string, memberTitles []string) TitleResult
}

// Embedder 文本向量化协作方
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TitleResult 标题生成结果，Fallback 为 true 时 Title 是兜底标题
type TitleResult struct {
	Title    string
	Fallback bool
	Err      error // 仅用于日志
}

// FallbackTitle 标题生成失败时使用的通用标题
func FallbackTitle(topicName string) string {
	return "Trending in " + topicName
}

// fallbackTitleResult 构造兜底结果
func fallbackTitleResult(topicName string, err error) TitleResult {
	return TitleResult{Title: FallbackTitle(topicName), Fallback: true, Err: err}
}
