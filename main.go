package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sprout/config"
	"sprout/db"
	"sprout/events"
	"sprout/handlers"
	"sprout/logger"
	"sprout/models"
	"sprout/scheduler"
	"sprout/services"
	"sprout/supervisor"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// 初始化日志系统
	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Info("日志系统初始化成功", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	if err := db.InitWithConfig(cfg); err != nil {
		logger.Error("初始化数据库失败", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("数据库连接成功",
		"driver", db.Driver,
		"max_open_conns", cfg.DB.MaxOpenConns,
		"max_idle_conns", cfg.DB.MaxIdleConns,
		"conn_max_lifetime", cfg.DB.ConnMaxLifetime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.EnsureSchema(ctx); err != nil {
		logger.Error("初始化表结构失败", "error", err)
		os.Exit(1)
	}

	titles := services.NewSiliconFlowTitleGenerator(cfg)
	embedder := services.NewSiliconFlowEmbedder(cfg)

	bus := events.NewBus(cfg)
	defer bus.Close()
	consumer := events.NewInteractionConsumer(bus, func(ctx context.Context, ev models.InteractionEvent) {
		services.UpdateWeights(ctx, ev.UserID, ev.ContentID, ev.Kind)
	})

	sched := scheduler.NewScheduler(cfg, titles)
	router := handlers.NewRouter(handlers.NewAPI(cfg, titles, embedder, bus, sched))
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logger.Logger, supervisor.DefaultTreeConfig())
	tree.AddJobService(consumer)
	tree.AddJobService(sched)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))

	logger.Info("服务器启动", "address", serverAddr)
	logger.Info("Swagger文档可访问", "url", fmt.Sprintf("http://%s/swagger/index.html", serverAddr))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("监督树异常退出", "error", err)
	}
	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logger.Warn("部分服务未能按时停止", "count", len(report))
	}
	logger.Info("服务已停止")
}
