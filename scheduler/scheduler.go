package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sprout/config"
	"sprout/logger"
	"sprout/metrics"
	"sprout/services"
)

// 将秒数转换为时间间隔
func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// 验证小时和分钟是否有效
func validateHourMinute(cfg *config.Config, hour, minute int) (int, int) {
	defaultHour := cfg.Scheduler.DefaultHour
	defaultMinute := cfg.Scheduler.DefaultMinute

	if hour < 0 || hour > 23 {
		logger.Warn("无效的小时值", "hour", hour, "default", defaultHour)
		hour = defaultHour
	}
	if minute < 0 || minute > 59 {
		logger.Warn("无效的分钟值", "minute", minute, "default", defaultMinute)
		minute = defaultMinute
	}
	return hour, minute
}

// 计算下一个指定时间点（UTC），严格晚于 now
func getNextTimePoint(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// TaskType 任务类型
type TaskType int

const (
	TaskThemeDetection TaskType = iota
	TaskDigest
	TaskThemeSweep
)

func (t TaskType) String() string {
	switch t {
	case TaskThemeDetection:
		return "theme_detection"
	case TaskDigest:
		return "digest"
	case TaskThemeSweep:
		return "theme_sweep"
	default:
		return "unknown"
	}
}

// TaskStatus 任务状态
type TaskStatus struct {
	LastRun     time.Time `json:"last_run"`
	NextRun     time.Time `json:"next_run"`
	IsRunning   bool      `json:"is_running"`
	Description string    `json:"description"`
}

// Scheduler 任务调度器，实现 suture.Service
type Scheduler struct {
	cfg         *config.Config
	concurrency int
	titles      services.TitleGenerator
	tasks       map[TaskType]*TaskStatus
	mutex       sync.Mutex
	wg          sync.WaitGroup

	// execute 实际执行任务，测试中可替换
	execute func(ctx context.Context, taskType TaskType, now time.Time)
}

// NewScheduler 创建新的调度器
func NewScheduler(cfg *config.Config, titles services.TitleGenerator) *Scheduler {
	concurrency := cfg.Cron.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}

	s := &Scheduler{
		cfg:         cfg,
		concurrency: concurrency,
		titles:      titles,
		tasks:       make(map[TaskType]*TaskStatus),
	}
	s.execute = s.runJob
	s.initTasks(time.Now().UTC())
	return s
}

// 初始化任务
func (s *Scheduler) initTasks(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, taskType := range []TaskType{TaskThemeDetection, TaskDigest, TaskThemeSweep} {
		s.tasks[taskType] = &TaskStatus{
			NextRun:     s.nextRun(taskType, now),
			Description: s.describe(taskType),
		}
	}

	if s.cfg.Debug.Enabled {
		logger.Info("Debug模式已启用", "frequency_seconds", s.debugFreq())
	}
	logger.Info("定时任务初始化完成", "task_count", len(s.tasks))
}

func (s *Scheduler) debugFreq() int {
	if s.cfg.Debug.TaskFreq <= 0 {
		return 1800
	}
	return s.cfg.Debug.TaskFreq
}

// nextRun 计算任务的下次运行时间
func (s *Scheduler) nextRun(taskType TaskType, now time.Time) time.Time {
	if s.cfg.Debug.Enabled {
		return now.Add(secondsToDuration(s.debugFreq()))
	}

	switch taskType {
	case TaskThemeDetection:
		return now.Add(time.Duration(s.cfg.Cron.ThemeEveryH) * time.Hour)
	case TaskDigest:
		hour, minute := validateHourMinute(s.cfg, s.cfg.Cron.DigestHour, s.cfg.Cron.DigestMin)
		return getNextTimePoint(now, hour, minute)
	case TaskThemeSweep:
		return now.Add(time.Duration(s.cfg.Cron.SweepEveryM) * time.Minute)
	default:
		return time.Time{}
	}
}

func (s *Scheduler) describe(taskType TaskType) string {
	if s.cfg.Debug.Enabled {
		return fmt.Sprintf("%s (Debug模式: 每%d秒)", taskType, s.debugFreq())
	}
	switch taskType {
	case TaskThemeDetection:
		return fmt.Sprintf("主题检测 (每%d小时)", s.cfg.Cron.ThemeEveryH)
	case TaskDigest:
		hour, minute := validateHourMinute(s.cfg, s.cfg.Cron.DigestHour, s.cfg.Cron.DigestMin)
		return fmt.Sprintf("每日摘要 (%02d:%02d UTC)", hour, minute)
	case TaskThemeSweep:
		return fmt.Sprintf("过期主题清理 (每%d分钟)", s.cfg.Cron.SweepEveryM)
	default:
		return taskType.String()
	}
}

// Serve 主循环，ctx 结束后等待正在执行的任务退出
func (s *Scheduler) Serve(ctx context.Context) error {
	checkInterval := s.cfg.Scheduler.CheckIntervalSec
	if checkInterval <= 0 {
		checkInterval = 60 // 默认值
	}
	if s.cfg.Debug.Enabled && s.debugFreq() < checkInterval {
		checkInterval = s.debugFreq()
	}
	ticker := time.NewTicker(secondsToDuration(checkInterval))
	defer ticker.Stop()
	logger.Info("调度器已启动", "check_interval_sec", checkInterval)

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("调度器已停止")
			return ctx.Err()
		case now := <-ticker.C:
			s.checkTasks(ctx, now.UTC())
		}
	}
}

func (s *Scheduler) String() string {
	return "scheduler"
}

// Status 返回任务状态快照
func (s *Scheduler) Status() map[string]TaskStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make(map[string]TaskStatus, len(s.tasks))
	for taskType, status := range s.tasks {
		out[taskType.String()] = *status
	}
	return out
}

// 检查任务
func (s *Scheduler) checkTasks(ctx context.Context, now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for taskType, status := range s.tasks {
		// 如果任务正在运行，跳过
		if status.IsRunning || status.NextRun.IsZero() {
			continue
		}

		if !now.Before(status.NextRun) {
			status.IsRunning = true
			s.wg.Add(1)
			go s.runTask(ctx, taskType, now)
		}
	}
}

// 运行任务
func (s *Scheduler) runTask(ctx context.Context, taskType TaskType, now time.Time) {
	defer s.wg.Done()
	defer func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		status := s.tasks[taskType]
		status.IsRunning = false
		status.LastRun = now
		status.NextRun = s.nextRun(taskType, now)

		logger.Info("任务执行完成", "task", status.Description, "next_run", status.NextRun.Format(time.DateTime))
	}()

	logger.Info("开始执行任务", "task", taskType.String())
	start := time.Now()
	s.execute(ctx, taskType, now)
	metrics.BatchDuration.WithLabelValues("task_" + taskType.String()).Observe(time.Since(start).Seconds())
}

// runJob 执行具体批处理
func (s *Scheduler) runJob(ctx context.Context, taskType TaskType, now time.Time) {
	switch taskType {
	case TaskThemeDetection:
		report, err := services.DetectThemesForAllTopics(ctx, s.cfg, s.titles)
		if err != nil {
			logger.Error("主题检测任务执行错误", "error", err)
			return
		}
		logger.Info("主题检测任务完成", "topics", report.Topics, "stored", report.Stored, "failures", report.Failures)
	case TaskDigest:
		report, err := services.GenerateDigestsForAllUsers(ctx, s.cfg)
		if err != nil {
			logger.Error("摘要生成任务执行错误", "error", err)
			return
		}
		logger.Info("摘要生成任务完成", "users", report.Users, "generated", report.Generated, "skipped", report.Skipped, "failed", report.Failed)
	case TaskThemeSweep:
		if _, err := services.SweepExpiredThemes(ctx, now); err != nil {
			logger.Error("过期主题清理失败", "error", err)
		}
	}
}
