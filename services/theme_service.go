package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sprout/config"
	"sprout/logger"
	"sprout/metrics"
	"sprout/models"
	"sprout/repository"
)

// 窗口内带向量的内容少于该数量时不做聚类
const minThemeItems = 3

// ThemeParams 聚类参数
type ThemeParams struct {
	Similarity  float64 // 与种子的相似度必须严格大于该值
	MinSources  int     // 簇内最少不同来源数
	MaxClusters int     // 最多保留的簇数
}

// themeParamsFromConfig 从配置读取聚类参数
func themeParamsFromConfig(cfg *config.Config) ThemeParams {
	return ThemeParams{
		Similarity:  cfg.Engine.ThemeSimilarity,
		MinSources:  cfg.Engine.ThemeMinSources,
		MaxClusters: cfg.Engine.ThemeMaxClusters,
	}
}

// ThemeCluster 一个通过来源多样性过滤的簇
type ThemeCluster struct {
	Members     []models.Content
	SourceCount int
}

// ContentIDs 成员内容 ID，种子在前
func (c ThemeCluster) ContentIDs() []int64 {
	ids := make([]int64, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ID
	}
	return ids
}

// Titles 成员标题
func (c ThemeCluster) Titles() []string {
	titles := make([]string, len(c.Members))
	for i, m := range c.Members {
		titles[i] = m.Title
	}
	return titles
}

// ClusterThemes 贪心单种子聚类
//
// 按输入顺序遍历，未分配的条目作为种子开新簇，吸收所有与种子相似度大于阈值的未分配条目。
// 只和种子比较，不做传递。成员少于 2 或来源少于 MinSources 的簇被丢弃，
// 结果按来源数降序（同数保持种子顺序），最多 MaxClusters 个。
func ClusterThemes(items []models.Content, p ThemeParams) []ThemeCluster {
	embedded := make([]models.Content, 0, len(items))
	for _, it := range items {
		if it.HasEmbedding() {
			embedded = append(embedded, it)
		}
	}
	if len(embedded) < minThemeItems {
		return nil
	}

	assigned := make([]bool, len(embedded))
	clusters := make([]ThemeCluster, 0)
	for i := range embedded {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		seed := embedded[i]
		members := []models.Content{seed}

		// i 之前的条目都已分配
		for j := i + 1; j < len(embedded); j++ {
			if assigned[j] {
				continue
			}
			if CosineSimilarity(seed.Embedding, embedded[j].Embedding) > p.Similarity {
				assigned[j] = true
				members = append(members, embedded[j])
			}
		}

		if len(members) < 2 {
			continue
		}
		sources := countSources(members)
		if sources < p.MinSources {
			continue
		}
		clusters = append(clusters, ThemeCluster{Members: members, SourceCount: sources})
	}

	sort.SliceStable(clusters, func(a, b int) bool {
		return clusters[a].SourceCount > clusters[b].SourceCount
	})
	if p.MaxClusters > 0 && len(clusters) > p.MaxClusters {
		clusters = clusters[:p.MaxClusters]
	}
	return clusters
}

func countSources(members []models.Content) int {
	seen := make(map[int64]struct{}, len(members))
	for _, m := range members {
		seen[m.SourceID] = struct{}{}
	}
	return len(seen)
}

// BuildThemeCandidates 为每个簇生成标题，生成失败时使用兜底标题
func BuildThemeCandidates(ctx context.Context, titles TitleGenerator, topic models.Topic, clusters []ThemeCluster) []models.ThemeCandidate {
	candidates := make([]models.ThemeCandidate, 0, len(clusters))
	for _, c := range clusters {
		res := fallbackTitleResult(topic.Name, nil)
		if titles != nil {
			res = titles.GenerateTitle(ctx, topic.Name, c.Titles())
		}
		if res.Fallback {
			logger.Warn("Theme title generation fell back", "topic_id", topic.ID, "error", res.Err)
			metrics.ThemeTitleFallbacks.Inc()
		}
		candidates = append(candidates, models.ThemeCandidate{
			TopicID:       topic.ID,
			Title:         res.Title,
			ContentIDs:    c.ContentIDs(),
			SourceCount:   c.SourceCount,
			TitleFallback: res.Fallback,
		})
	}
	metrics.ThemeCandidates.Add(float64(len(candidates)))
	return candidates
}

// DetectThemes 检测话题在时间窗口内的候选主题，不做持久化
func DetectThemes(ctx context.Context, cfg *config.Config, titles TitleGenerator, topic models.Topic, now time.Time) ([]models.ThemeCandidate, error) {
	since := now.AddDate(0, 0, -cfg.Engine.ThemeWindowDays)
	items, err := repository.ListTopicContent(ctx, topic.ID, since)
	if err != nil {
		return nil, err
	}

	clusters := ClusterThemes(items, themeParamsFromConfig(cfg))
	logger.Debug("Clustered topic content", "topic_id", topic.ID, "items", len(items), "clusters", len(clusters))
	if len(clusters) == 0 {
		return []models.ThemeCandidate{}, nil
	}
	return BuildThemeCandidates(ctx, titles, topic, clusters), nil
}

// StoreThemes 持久化候选主题，单个失败不影响其他候选
func StoreThemes(ctx context.Context, cfg *config.Config, candidates []models.ThemeCandidate, now time.Time) (stored, failed int) {
	for _, c := range candidates {
		theme := &models.Theme{
			ID:         uuid.NewString(),
			TopicID:    c.TopicID,
			Title:      c.Title,
			ContentIDs: c.ContentIDs,
			DetectedAt: now,
			ExpiresAt:  now.AddDate(0, 0, cfg.Engine.ThemeTTLDays),
		}
		if err := repository.InsertTheme(ctx, theme); err != nil {
			failed++
			metrics.ThemeFailures.WithLabelValues("persist").Inc()
			logger.Error("Failed to store theme", "topic_id", c.TopicID, "title", c.Title, "error", err)
			continue
		}
		stored++
		metrics.ThemesStored.Inc()
	}
	return stored, failed
}

// RunThemeDetectionForTopic 检测并持久化单个话题的主题
func RunThemeDetectionForTopic(ctx context.Context, cfg *config.Config, titles TitleGenerator, topic models.Topic) (models.ThemeRunReport, error) {
	now := time.Now().UTC()
	report := models.ThemeRunReport{Topics: 1}

	candidates, err := DetectThemes(ctx, cfg, titles, topic, now)
	if err != nil {
		metrics.ThemeFailures.WithLabelValues("load").Inc()
		report.Failures++
		return report, fmt.Errorf("detecting themes for topic %d: %w", topic.ID, err)
	}

	report.Candidates = len(candidates)
	for _, c := range candidates {
		if c.TitleFallback {
			report.TitleFallbacks++
		}
	}
	stored, failed := StoreThemes(ctx, cfg, candidates, now)
	report.Stored = stored
	report.Failures += failed

	logger.Info("Theme detection finished for topic",
		"topic_id", topic.ID,
		"candidates", report.Candidates,
		"stored", report.Stored,
		"failures", report.Failures)
	return report, nil
}

// DetectThemesForAllTopics 并发检测所有话题
func DetectThemesForAllTopics(ctx context.Context, cfg *config.Config, titles TitleGenerator) (models.ThemeRunReport, error) {
	logger.Info("Starting theme detection for all topics")

	topics, err := repository.ListTopics(ctx)
	if err != nil {
		return models.ThemeRunReport{}, err
	}
	logger.Info("Topics found", "count", len(topics))

	return DetectThemesWithConcurrency(ctx, cfg, titles, topics, cfg.Cron.Concurrency), nil
}

// DetectThemesWithConcurrency 并发检测主题，单个话题失败只计数
func DetectThemesWithConcurrency(ctx context.Context, cfg *config.Config, titles TitleGenerator, topics []models.Topic, concurrency int) models.ThemeRunReport {
	if concurrency <= 0 {
		concurrency = 1
	}
	start := time.Now()

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	var mu sync.Mutex
	var total models.ThemeRunReport

	for _, topic := range topics {
		wg.Add(1)
		semaphore <- struct{}{} // acquire semaphore

		go func(t models.Topic) {
			defer wg.Done()
			defer func() { <-semaphore }() // release semaphore

			report, err := RunThemeDetectionForTopic(ctx, cfg, titles, t)
			mu.Lock()
			defer mu.Unlock()
			total.Topics += report.Topics
			total.Candidates += report.Candidates
			total.Stored += report.Stored
			total.TitleFallbacks += report.TitleFallbacks
			total.Failures += report.Failures
			if err != nil {
				logger.Error("主题检测失败", "topic_id", t.ID, "error", err)
			}
		}(topic)
	}

	wg.Wait()
	metrics.BatchDuration.WithLabelValues("theme_detection").Observe(time.Since(start).Seconds())
	logger.Info("所有话题主题检测完成",
		"topics", total.Topics,
		"candidates", total.Candidates,
		"stored", total.Stored,
		"title_fallbacks", total.TitleFallbacks,
		"failures", total.Failures,
	)
	return total
}

// SweepExpiredThemes 清理过期主题
func SweepExpiredThemes(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := repository.DeleteExpiredThemes(ctx, now)
	if err != nil {
		return 0, err
	}
	metrics.ThemesExpired.Add(float64(deleted))
	if deleted > 0 {
		logger.Info("Expired themes removed", "count", deleted)
	}
	return deleted, nil
}

// ListActiveThemes 未过期的主题，topicID 为 0 时返回全部话题
func ListActiveThemes(ctx context.Context, topicID int64, now time.Time) ([]models.Theme, error) {
	return repository.ListActiveThemes(ctx, topicID, now)
}

// GetTopic 读取话题，不存在时返回 sql.ErrNoRows
func GetTopic(ctx context.Context, topicID int64) (*models.Topic, error) {
	return repository.GetTopic(ctx, topicID)
}
