package handlers

import (
	"net/http"
	"strings"

	"sprout/models"
	"sprout/services"
	"sprout/utils"
)

// SearchHandler godoc
// @Summary 内容检索
// @Description 关键词与语义检索合并排序，语义检索不可用时只返回关键词结果
// @Tags 检索
// @Produce json
// @Param q query string true "检索词"
// @Param limit query int false "返回条数"
// @Success 200 {object} models.SearchResponse "成功"
// @Failure 400 {object} models.APIResponse "参数错误"
// @Failure 500 {object} models.APIResponse "服务器错误"
// @Router /api/search [get]
func (a *API) SearchHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		utils.WriteErrorResponse(w, models.CodeMissingParams, map[string]interface{}{
			"param": "q",
		})
		return
	}
	limit, ok := parseLimit(w, r, a.cfg.Engine.SearchLimit)
	if !ok {
		return
	}

	hits, err := services.Search(r.Context(), a.cfg, a.embedder, q, limit)
	if err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeSearchError, err.Error(), map[string]interface{}{})
		return
	}
	if hits == nil {
		hits = []models.SearchHit{}
	}
	utils.WriteSuccessResponse(w, hits)
}
