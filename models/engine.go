package models

import "time"

// ScoredItem 带个性化得分的内容，保留三个分量便于排查
type ScoredItem struct {
	Content      Content `json:"content"`
	Score        float64 `json:"score"`
	BaseScore    float64 `json:"base_score"`
	TopicMatch   float64 `json:"topic_match"`
	RecencyBoost float64 `json:"recency_boost"`
}

// ThemeCandidate 聚类得到的候选主题，尚未持久化
type ThemeCandidate struct {
	TopicID       int64   `json:"topic_id"`
	Title         string  `json:"title"`
	ContentIDs    []int64 `json:"content_ids"`
	SourceCount   int     `json:"source_count"`
	TitleFallback bool    `json:"title_fallback"`
}

// ThemeRunReport 一次主题检测批处理的统计
type ThemeRunReport struct {
	Topics         int `json:"topics"`
	Candidates     int `json:"candidates"`
	Stored         int `json:"stored"`
	TitleFallbacks int `json:"title_fallbacks"`
	Failures       int `json:"failures"`
}

// DigestResult 单个用户的摘要生成结果
type DigestResult struct {
	UserID     string  `json:"user_id"`
	Date       string  `json:"date"`
	ContentIDs []int64 `json:"content_ids"`
	Skipped    bool    `json:"skipped"` // 当天已存在摘要
	Stored     bool    `json:"stored"`
}

// DigestRunReport 一次摘要批处理的统计
type DigestRunReport struct {
	Users     int `json:"users"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Empty     int `json:"empty"`
	Failed    int `json:"failed"`
}

// SearchHit 检索命中的内容，不含内部排序分
type SearchHit struct {
	ContentID   int64     `json:"content_id"`
	SourceID    int64     `json:"source_id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}
