package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sprout/logger"
	"sprout/models"
	"sprout/services"
	"sprout/utils"
)

// maxPageLimit 单次返回条数上限
const maxPageLimit = 200

// parseLimit 解析 limit 参数，0 或缺省使用默认值
func parseLimit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	v, ok := utils.ParseIntParam(w, "limit", r.URL.Query().Get("limit"), int64(def))
	if !ok {
		return 0, false
	}
	if v == 0 {
		v = int64(def)
	}
	return int(min(v, maxPageLimit)), true
}

// FeedHandler godoc
// @Summary 获取个性化信息流
// @Description 按来源质量、话题兴趣和新鲜度为用户排序近期内容
// @Tags 信息流
// @Produce json
// @Param uid path string true "用户ID"
// @Param limit query int false "返回条数"
// @Success 200 {object} models.FeedResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/feed/{uid} [get]
func (a *API) FeedHandler(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if !utils.ValidateUserID(w, uid) {
		return
	}
	limit, ok := parseLimit(w, r, a.cfg.Engine.FeedLimit)
	if !ok {
		return
	}

	items, err := services.GetPersonalizedFeed(r.Context(), a.cfg, uid, limit, a.now())
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, err.Error(), map[string]interface{}{})
		return
	}
	if items == nil {
		items = []models.ScoredItem{}
	}
	utils.WriteSuccessResponse(w, items)
}

// InteractionHandler godoc
// @Summary 上报用户交互
// @Description 记录一次 read / save / dismiss 交互，异步调整用户话题权重
// @Tags 信息流
// @Accept json
// @Produce json
// @Param body body models.InteractionRequest true "交互事件"
// @Success 202 {object} models.APIResponse "已受理"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/interactions [post]
func (a *API) InteractionHandler(w http.ResponseWriter, r *http.Request) {
	var req models.InteractionRequest
	if !utils.DecodeAndValidate(w, r, &req) {
		return
	}
	kind, err := models.ParseInteractionKind(req.Kind)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeInvalidParams, err.Error(), map[string]interface{}{})
		return
	}

	ev := models.InteractionEvent{
		UserID:     req.UserID,
		ContentID:  req.ContentID,
		Kind:       kind,
		OccurredAt: a.now(),
	}
	if err := a.events.PublishInteraction(ev); err != nil {
		logger.Error("发布交互事件失败", "user_id", req.UserID, "error", err)
		utils.WriteCustomErrorResponse(w, models.CodeServerError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteAcceptedResponse(w, map[string]interface{}{
		"user_id":    ev.UserID,
		"content_id": ev.ContentID,
		"kind":       kind.String(),
	})
}

// TopicWeightsHandler godoc
// @Summary 获取用户话题权重
// @Tags 信息流
// @Produce json
// @Param uid path string true "用户ID"
// @Success 200 {object} models.APIResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/topics/{uid}/weights [get]
func (a *API) TopicWeightsHandler(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if !utils.ValidateUserID(w, uid) {
		return
	}
	topics, err := services.GetUserTopicWeights(r.Context(), uid)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, err.Error(), map[string]interface{}{})
		return
	}
	if topics == nil {
		topics = []models.UserTopic{}
	}
	utils.WriteSuccessResponse(w, topics)
}
