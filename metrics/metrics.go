// Package metrics 定义引擎的 Prometheus 指标，通过 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 主题检测
	ThemeCandidates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sprout_theme_candidates_total",
			Help: "Theme candidates produced by clustering",
		},
	)

	ThemesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sprout_themes_stored_total",
			Help: "Themes persisted",
		},
	)

	ThemeTitleFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sprout_theme_title_fallbacks_total",
			Help: "Theme titles that fell back to the generic title",
		},
	)

	ThemeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprout_theme_failures_total",
			Help: "Theme detection failures by stage",
		},
		[]string{"stage"}, // load, persist
	)

	ThemesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sprout_themes_expired_total",
			Help: "Expired themes removed by the sweep",
		},
	)

	// 权重学习
	WeightUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprout_weight_updates_total",
			Help: "Topic weight updates by interaction kind and result",
		},
		[]string{"kind", "result"}, // applied, noop, failed
	)

	// 摘要
	Digests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprout_digests_total",
			Help: "Digest assembly outcomes",
		},
		[]string{"result"}, // stored, skipped, empty, failed
	)

	DigestSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sprout_digest_items",
			Help:    "Number of items in stored digests",
			Buckets: []float64{1, 2, 4, 6, 8, 10},
		},
	)

	// 检索
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprout_search_requests_total",
			Help: "Search requests by mode",
		},
		[]string{"mode"}, // merged, keyword_only
	)

	// 批处理
	BatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sprout_batch_duration_seconds",
			Help:    "Duration of batch jobs; task_* series cover a whole scheduler task",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"job"},
	)

	// 交互事件
	EventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sprout_interaction_events_published_total",
			Help: "Interaction events published to the bus",
		},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprout_interaction_events_consumed_total",
			Help: "Interaction events consumed from the bus",
		},
		[]string{"result"}, // ok, malformed
	)

	// 熔断器
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sprout_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprout_circuit_breaker_requests_total",
			Help: "Requests through circuit breakers by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	// HTTP
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprout_api_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sprout_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
