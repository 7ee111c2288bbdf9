package models

// 响应码定义
const (
	// 成功
	CodeSuccess = 0

	// 客户端错误 (1000-1999)
	CodeInvalidParams  = 1000 // 无效的参数
	CodeMissingParams  = 1001 // 缺少必要参数
	CodeNoFollowTopics = 1003 // 用户没有关注的话题
	CodeNoDigestData   = 1004 // 没有摘要数据
	CodeNoThemeData    = 1005 // 没有主题数据

	// 服务端错误 (2000-2999)
	CodeServerError        = 2000 // 服务器内部错误
	CodeDatabaseError      = 2001 // 数据库错误
	CodeThemeDetectError   = 2002 // 主题检测错误
	CodeDigestGenError     = 2003 // 摘要生成错误
	CodeSearchError        = 2004 // 检索错误
	CodeThirdPartyAPIError = 2005 // 第三方API错误
)

// 错误码对应的消息
var CodeMessages = map[int]string{
	CodeSuccess:            "success",
	CodeInvalidParams:      "invalid params",
	CodeMissingParams:      "missing params",
	CodeNoFollowTopics:     "user follows no topics",
	CodeNoDigestData:       "no digest",
	CodeNoThemeData:        "no themes",
	CodeServerError:        "internal server error",
	CodeDatabaseError:      "database error",
	CodeThemeDetectError:   "theme detection failed",
	CodeDigestGenError:     "digest generation failed",
	CodeSearchError:        "search failed",
	CodeThirdPartyAPIError: "third party api error",
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Code:    CodeSuccess,
		Message: CodeMessages[CodeSuccess],
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, data interface{}) APIResponse {
	message, exists := CodeMessages[code]
	if !exists {
		message = "unknown error"
	}
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewCustomErrorResponse 创建自定义错误消息的响应
func NewCustomErrorResponse(code int, message string, data interface{}) APIResponse {
	return APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}
