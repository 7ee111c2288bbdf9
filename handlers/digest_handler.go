package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sprout/models"
	"sprout/services"
	"sprout/utils"
)

// GenerateAllDigestsHandler godoc
// @Summary 为所有用户生成当天摘要
// @Tags 摘要
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/digest/generate [post]
func (a *API) GenerateAllDigestsHandler(w http.ResponseWriter, r *http.Request) {
	report, err := services.GenerateDigestsForAllUsers(r.Context(), a.cfg)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDigestGenError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, report)
}

// GenerateUserDigestHandler godoc
// @Summary 为指定用户生成当天摘要
// @Description 同一用户同一天只生成一次，重复调用返回已有摘要
// @Tags 摘要
// @Produce json
// @Param uid path string true "用户ID"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/digest/generate/{uid} [post]
func (a *API) GenerateUserDigestHandler(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if !utils.ValidateUserID(w, uid) {
		return
	}
	res, err := services.GenerateDigestForUser(r.Context(), a.cfg, uid)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDigestGenError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, res)
}

// GetDigestHandler godoc
// @Summary 获取用户摘要
// @Tags 摘要
// @Produce json
// @Param uid path string true "用户ID"
// @Param date query string false "日期 YYYY-MM-DD（UTC），缺省为当天"
// @Success 200 {object} models.DigestResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 404 {object} models.APIResponse "没有摘要"
// @Router /api/digest/{uid} [get]
func (a *API) GetDigestHandler(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if !utils.ValidateUserID(w, uid) {
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = services.DigestDate(a.now())
	} else if _, err := time.Parse(models.DigestDateLayout, date); err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeInvalidParams, "invalid date: "+date, map[string]interface{}{
			"param": "date",
		})
		return
	}

	d, err := services.GetDigest(r.Context(), uid, date)
	if err != nil {
		utils.HandleServiceError(w, err, models.CodeNoDigestData)
		return
	}
	utils.WriteSuccessResponse(w, d)
}

// DigestOpenedHandler godoc
// @Summary 标记当天摘要已打开
// @Tags 摘要
// @Produce json
// @Param uid path string true "用户ID"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 404 {object} models.APIResponse "没有摘要"
// @Router /api/digest/{uid}/opened [post]
func (a *API) DigestOpenedHandler(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if !utils.ValidateUserID(w, uid) {
		return
	}
	now := a.now()
	updated, err := services.MarkDigestOpened(r.Context(), uid, now)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, err.Error(), map[string]interface{}{})
		return
	}
	if !updated {
		// 区分已打开与不存在
		if _, err := services.GetDigest(r.Context(), uid, services.DigestDate(now)); err != nil {
			utils.HandleServiceError(w, err, models.CodeNoDigestData)
			return
		}
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"user_id": uid,
		"date":    services.DigestDate(now),
		"updated": updated,
	})
}
