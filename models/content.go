package models

import "time"

// 内容类型
const (
	ContentTypePodcast    = "podcast"
	ContentTypeNewsletter = "newsletter"
	ContentTypeVideo      = "video"
	ContentTypeBlog       = "blog"
)

// Content 已入库的内容条目，embedding 由外部入库流程写入
type Content struct {
	ID          int64     `db:"id" json:"id"`
	SourceID    int64     `db:"source_id" json:"source_id"`
	Title       string    `db:"title" json:"title"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	ContentType string    `db:"content_type" json:"content_type"`
	RawText     string    `db:"raw_text" json:"raw_text,omitempty"`
	Embedding   []float32 `db:"embedding" json:"-"`
}

// HasEmbedding 是否已写入向量
func (c *Content) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// Source 内容来源（播客、邮件通讯、频道、博客）
type Source struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Type         string `db:"type" json:"type"`
	QualityScore *int   `db:"quality_score" json:"quality_score,omitempty"` // 0-100，可能缺失
}

// Topic 系统定义的话题节点
type Topic struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SourceTopic 来源与话题的带权关联，relevance 取值 [0,1]
type SourceTopic struct {
	SourceID  int64   `db:"source_id" json:"source_id"`
	TopicID   int64   `db:"topic_id" json:"topic_id"`
	Relevance float64 `db:"relevance" json:"relevance"`
}

// UserTopic 用户对话题的兴趣权重，取值 [MinTopicWeight, MaxTopicWeight]
type UserTopic struct {
	UserID    string    `db:"user_id" json:"user_id"`
	TopicID   int64     `db:"topic_id" json:"topic_id"`
	Weight    float64   `db:"weight" json:"weight"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// 权重边界
const (
	DefaultTopicWeight = 1.0
	MinTopicWeight     = 0.1
	MaxTopicWeight     = 5.0
)

// Theme 跨来源的热点主题，写入后不再修改
type Theme struct {
	ID         string    `db:"id" json:"id"`
	TopicID    int64     `db:"topic_id" json:"topic_id"`
	Title      string    `db:"title" json:"title"`
	ContentIDs []int64   `db:"content_ids" json:"content_ids"`
	DetectedAt time.Time `db:"detected_at" json:"detected_at"`
	ExpiresAt  time.Time `db:"expires_at" json:"expires_at"`
}

// Digest 用户每日摘要，每个 (user_id, date) 只有一条
type Digest struct {
	ID         string     `db:"id" json:"id"`
	UserID     string     `db:"user_id" json:"user_id"`
	Date       string     `db:"digest_date" json:"date"` // YYYY-MM-DD (UTC)
	ContentIDs []int64    `db:"content_ids" json:"content_ids"`
	SentAt     time.Time  `db:"sent_at" json:"sent_at"`
	OpenedAt   *time.Time `db:"opened_at" json:"opened_at,omitempty"`
}

// DigestDateLayout 摘要日期格式
const DigestDateLayout = "2006-01-02"
