package models

// InteractionRequest 交互事件请求体
type InteractionRequest struct {
	UserID    string `json:"user_id" validate:"required" example:"u_1024"`
	ContentID int64  `json:"content_id" validate:"required,gt=0" example:"42"`
	Kind      string `json:"kind" validate:"required,oneof=read save dismiss" example:"save"`
}

// APIResponse 通用API响应
type APIResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// FeedResponse 个性化信息流响应
type FeedResponse struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message" example:"success"`
	Data    []ScoredItem `json:"data"`
}

// DigestResponse 每日摘要响应
type DigestResponse struct {
	Code    int    `json:"code" example:"0"`
	Message string `json:"message" example:"success"`
	Data    Digest `json:"data"`
}

// SearchResponse 检索响应
type SearchResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    []SearchHit `json:"data"`
}
