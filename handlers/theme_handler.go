package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sprout/models"
	"sprout/services"
	"sprout/utils"
)

// DetectAllThemesHandler godoc
// @Summary 为所有话题检测热点主题
// @Tags 主题
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/themes/detect [post]
func (a *API) DetectAllThemesHandler(w http.ResponseWriter, r *http.Request) {
	report, err := services.DetectThemesForAllTopics(r.Context(), a.cfg, a.titles)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeThemeDetectError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, report)
}

// DetectTopicThemesHandler godoc
// @Summary 为指定话题检测热点主题
// @Tags 主题
// @Produce json
// @Param topic_id path int true "话题ID"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/themes/detect/{topic_id} [post]
func (a *API) DetectTopicThemesHandler(w http.ResponseWriter, r *http.Request) {
	topicID, ok := utils.ParseIntParam(w, "topic_id", chi.URLParam(r, "topic_id"), 0)
	if !ok {
		return
	}
	topic, err := services.GetTopic(r.Context(), topicID)
	if err != nil {
		utils.HandleServiceError(w, err, models.CodeInvalidParams)
		return
	}

	report, err := services.RunThemeDetectionForTopic(r.Context(), a.cfg, a.titles, *topic)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeThemeDetectError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, report)
}

// ListThemesHandler godoc
// @Summary 获取未过期的热点主题
// @Tags 主题
// @Produce json
// @Param topic_id query int false "话题ID，缺省返回全部"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/themes [get]
func (a *API) ListThemesHandler(w http.ResponseWriter, r *http.Request) {
	topicID, ok := utils.ParseIntParam(w, "topic_id", r.URL.Query().Get("topic_id"), 0)
	if !ok {
		return
	}
	themes, err := services.ListActiveThemes(r.Context(), topicID, a.now())
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, err.Error(), map[string]interface{}{})
		return
	}
	if themes == nil {
		themes = []models.Theme{}
	}
	utils.WriteSuccessResponse(w, themes)
}
