package utils

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"sprout/models"
)

var validate = validator.New()

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// WriteFormattedJSON 格式化JSON输出，使其更易读
func WriteFormattedJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ") // 使用4个空格缩进
	encoder.Encode(data)
}

// WriteSuccessResponse 写入成功响应
func WriteSuccessResponse(w http.ResponseWriter, data interface{}) {
	WriteFormattedJSON(w, http.StatusOK, models.NewSuccessResponse(data))
}

// WriteAcceptedResponse 写入已受理响应
func WriteAcceptedResponse(w http.ResponseWriter, data interface{}) {
	WriteFormattedJSON(w, http.StatusAccepted, models.NewSuccessResponse(data))
}

// WriteErrorResponse 写入错误响应
func WriteErrorResponse(w http.ResponseWriter, code int, data interface{}) {
	WriteFormattedJSON(w, httpStatus(code), models.NewErrorResponse(code, data))
}

// WriteCustomErrorResponse 写入自定义错误消息的响应
func WriteCustomErrorResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	WriteFormattedJSON(w, httpStatus(code), models.NewCustomErrorResponse(code, message, data))
}

// httpStatus 业务码映射到 HTTP 状态码
func httpStatus(code int) int {
	switch {
	case code == models.CodeSuccess:
		return http.StatusOK
	case code == models.CodeNoDigestData, code == models.CodeNoThemeData:
		return http.StatusNotFound
	case code >= 1000 && code < 2000:
		return http.StatusBadRequest
	case code == models.CodeThirdPartyAPIError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleServiceError 处理服务层错误的通用函数
func HandleServiceError(w http.ResponseWriter, err error, noDataCode int) {
	if IsSQLNoRowsError(err) {
		WriteErrorResponse(w, noDataCode, map[string]interface{}{})
	} else {
		WriteCustomErrorResponse(w, models.CodeServerError, err.Error(), map[string]interface{}{})
	}
}

// ValidateUserID 验证用户ID参数
func ValidateUserID(w http.ResponseWriter, userID string) bool {
	if userID == "" {
		WriteErrorResponse(w, models.CodeMissingParams, map[string]interface{}{
			"param": "uid",
		})
		return false
	}
	return true
}

// ParseIntParam 解析整数参数，为空时返回默认值
func ParseIntParam(w http.ResponseWriter, name, raw string, def int64) (int64, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		WriteCustomErrorResponse(w, models.CodeInvalidParams, fmt.Sprintf("invalid %s: %q", name, raw), map[string]interface{}{
			"param": name,
		})
		return 0, false
	}
	return v, true
}

// DecodeAndValidate 解析JSON请求体并按 validate 标签校验
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		WriteCustomErrorResponse(w, models.CodeInvalidParams, "读取请求体失败: "+err.Error(), map[string]interface{}{})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		WriteCustomErrorResponse(w, models.CodeInvalidParams, "解析请求体失败: "+err.Error(), map[string]interface{}{})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		WriteCustomErrorResponse(w, models.CodeInvalidParams, err.Error(), map[string]interface{}{})
		return false
	}
	return true
}
