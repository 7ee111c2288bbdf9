package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"sprout/config"
	"sprout/db"
	_ "sprout/docs" // 导入 swagger 文档
	"sprout/metrics"
	"sprout/models"
	"sprout/scheduler"
	"sprout/services"
	"sprout/utils"
)

// InteractionPublisher 交互事件的发布端
type InteractionPublisher interface {
	PublishInteraction(ev models.InteractionEvent) error
}

// TaskStatusProvider 调度器任务状态
type TaskStatusProvider interface {
	Status() map[string]scheduler.TaskStatus
}

// API HTTP 处理器依赖
type API struct {
	cfg      *config.Config
	titles   services.TitleGenerator
	embedder services.Embedder
	events   InteractionPublisher
	tasks    TaskStatusProvider
	now      func() time.Time
}

// NewAPI 创建处理器集合，tasks 可以为 nil
func NewAPI(cfg *config.Config, titles services.TitleGenerator, embedder services.Embedder, events InteractionPublisher, tasks TaskStatusProvider) *API {
	return &API{
		cfg:      cfg,
		titles:   titles,
		embedder: embedder,
		events:   events,
		tasks:    tasks,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewRouter 创建带中间件的路由
func NewRouter(api *API) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: api.cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	if api.cfg.HTTP.RateLimitPerMin > 0 {
		r.Use(httprate.LimitByIP(api.cfg.HTTP.RateLimitPerMin, time.Minute))
	}
	r.Use(metricsMiddleware)

	RegisterRoutes(r, api)
	return r
}

// RegisterRoutes 注册全部路由
func RegisterRoutes(r chi.Router, api *API) {
	// Swagger 文档
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Swagger JSON 的 URL
	))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", api.HealthHandler)

	r.Get("/api/feed/{uid}", api.FeedHandler)
	r.Post("/api/interactions", api.InteractionHandler)
	r.Get("/api/topics/{uid}/weights", api.TopicWeightsHandler)

	r.Post("/api/themes/detect", api.DetectAllThemesHandler)
	r.Post("/api/themes/detect/{topic_id}", api.DetectTopicThemesHandler)
	r.Get("/api/themes", api.ListThemesHandler)

	r.Post("/api/digest/generate", api.GenerateAllDigestsHandler)
	r.Post("/api/digest/generate/{uid}", api.GenerateUserDigestHandler)
	r.Get("/api/digest/{uid}", api.GetDigestHandler)
	r.Post("/api/digest/{uid}/opened", api.DigestOpenedHandler)

	r.Get("/api/search", api.SearchHandler)

	r.Get("/api/scheduler/status", api.SchedulerStatusHandler)
}

// metricsMiddleware 按路由模板统计请求数与耗时
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.APIRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// HealthHandler godoc
// @Summary 健康检查
// @Tags 运维
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Failure 500 {object} models.APIResponse "数据库不可用"
// @Router /healthz [get]
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if db.DB == nil {
		utils.WriteErrorResponse(w, models.CodeDatabaseError, map[string]interface{}{})
		return
	}
	if err := db.DB.PingContext(r.Context()); err != nil {
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, err.Error(), map[string]interface{}{})
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"status": "ok",
		"driver": db.Driver,
	})
}

// SchedulerStatusHandler godoc
// @Summary 定时任务状态
// @Description 各定时任务的上次运行、下次运行时间和是否正在运行
// @Tags 运维
// @Produce json
// @Success 200 {object} models.APIResponse "成功"
// @Router /api/scheduler/status [get]
func (a *API) SchedulerStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]scheduler.TaskStatus{}
	if a.tasks != nil {
		status = a.tasks.Status()
	}
	utils.WriteSuccessResponse(w, status)
}
