package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"sprout/config"
	"sprout/logger"
	"sprout/metrics"
	"sprout/models"
	"sprout/repository"
)

// SelectDigestItems 按得分降序贪心选取，每个来源最多 maxPerSource 条，总数最多 maxItems 条
func SelectDigestItems(scored []models.ScoredItem, maxItems, maxPerSource int) []int64 {
	ranked := make([]models.ScoredItem, len(scored))
	copy(ranked, scored)
	sortScored(ranked)

	selected := make([]int64, 0, min(maxItems, len(ranked)))
	perSource := make(map[int64]int)
	for _, item := range ranked {
		if len(selected) >= maxItems {
			break
		}
		if perSource[item.Content.SourceID] >= maxPerSource {
			continue
		}
		perSource[item.Content.SourceID]++
		selected = append(selected, item.Content.ID)
	}
	return selected
}

// DigestDate 摘要日期（UTC）
func DigestDate(now time.Time) string {
	return now.UTC().Format(models.DigestDateLayout)
}

// AssembleDigest 为用户生成当天摘要
//
// 当天已有摘要时直接返回已有内容（Skipped）；候选为空时不写入任何记录。
func AssembleDigest(ctx context.Context, cfg *config.Config, userID string, now time.Time) (models.DigestResult, error) {
	date := DigestDate(now)
	result := models.DigestResult{UserID: userID, Date: date, ContentIDs: []int64{}}

	existing, err := repository.GetDigest(ctx, userID, date)
	switch {
	case err == nil:
		result.ContentIDs = existing.ContentIDs
		result.Skipped = true
		return result, nil
	case !errors.Is(err, sql.ErrNoRows):
		return result, fmt.Errorf("checking digest for user %s: %w", userID, err)
	}

	userTopics, err := repository.GetUserTopics(ctx, userID)
	if err != nil {
		return result, err
	}
	if len(userTopics) == 0 {
		return result, nil
	}

	since := now.Add(-time.Duration(cfg.Engine.DigestWindowHours) * time.Hour)
	pool, err := repository.ListContentForTopics(ctx, topicIDs(userTopics), since)
	if err != nil {
		return result, err
	}
	if len(pool) == 0 {
		return result, nil
	}

	sources, err := repository.GetSources(ctx, repository.SourceIDs(pool))
	if err != nil {
		return result, err
	}

	// 候选已按话题过滤，只用质量分和时效分
	scored := make([]models.ScoredItem, 0, len(pool))
	for _, item := range pool {
		scored = append(scored, ScoreContent(item, sources[item.SourceID].QualityScore, nil, nil, now))
	}
	ids := SelectDigestItems(scored, cfg.Engine.DigestMaxItems, cfg.Engine.DigestMaxPerSource)
	if len(ids) == 0 {
		return result, nil
	}

	digest := &models.Digest{
		ID:         uuid.NewString(),
		UserID:     userID,
		Date:       date,
		ContentIDs: ids,
		SentAt:     now,
	}
	inserted, err := repository.InsertDigest(ctx, digest)
	if err != nil {
		return result, err
	}
	if !inserted {
		// 并发生成时另一方先写入
		existing, err := repository.GetDigest(ctx, userID, date)
		if err != nil {
			return result, fmt.Errorf("reading concurrent digest for user %s: %w", userID, err)
		}
		result.ContentIDs = existing.ContentIDs
		result.Skipped = true
		return result, nil
	}

	metrics.DigestSize.Observe(float64(len(ids)))
	result.ContentIDs = ids
	result.Stored = true
	return result, nil
}

// GenerateDigestForUser 立即为单个用户生成当天摘要
func GenerateDigestForUser(ctx context.Context, cfg *config.Config, userID string) (models.DigestResult, error) {
	res, err := AssembleDigest(ctx, cfg, userID, time.Now().UTC())
	observeDigest(userID, res, err)
	return res, err
}

// observeDigest 记录摘要生成结果并返回结果类别
func observeDigest(userID string, res models.DigestResult, err error) string {
	outcome := "empty"
	switch {
	case err != nil:
		outcome = "failed"
		logger.Error("生成用户摘要失败", "user_id", userID, "error", err)
	case res.Skipped:
		outcome = "skipped"
	case res.Stored:
		outcome = "stored"
		logger.Info("成功生成用户摘要", "user_id", userID, "items", len(res.ContentIDs))
	}
	metrics.Digests.WithLabelValues(outcome).Inc()
	return outcome
}

// GetDigest 读取用户某天的摘要
func GetDigest(ctx context.Context, userID, date string) (*models.Digest, error) {
	return repository.GetDigest(ctx, userID, date)
}

// MarkDigestOpened 记录摘要被打开
func MarkDigestOpened(ctx context.Context, userID string, now time.Time) (bool, error) {
	return repository.MarkDigestOpened(ctx, userID, DigestDate(now), now)
}

// GenerateDigestsForAllUsers 为所有关注了话题的用户生成摘要
func GenerateDigestsForAllUsers(ctx context.Context, cfg *config.Config) (models.DigestRunReport, error) {
	logger.Info("Starting digest generation for all users")

	users, err := repository.ListUsersWithTopics(ctx)
	if err != nil {
		return models.DigestRunReport{}, err
	}
	logger.Info("Users with topics found", "count", len(users))

	return GenerateDigestsWithConcurrency(ctx, cfg, users, cfg.Cron.Concurrency), nil
}

// GenerateDigestsWithConcurrency 并发生成用户摘要
func GenerateDigestsWithConcurrency(ctx context.Context, cfg *config.Config, userIDs []string, concurrency int) models.DigestRunReport {
	if concurrency <= 0 {
		concurrency = 1
	}
	start := time.Now()
	now := start.UTC()

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	var mu sync.Mutex
	report := models.DigestRunReport{}

	for _, userID := range userIDs {
		wg.Add(1)
		semaphore <- struct{}{} // acquire semaphore

		go func(uid string) {
			defer wg.Done()
			defer func() { <-semaphore }() // release semaphore

			res, err := AssembleDigest(ctx, cfg, uid, now)
			outcome := observeDigest(uid, res, err)
			mu.Lock()
			defer mu.Unlock()
			report.Users++
			switch outcome {
			case "failed":
				report.Failed++
			case "skipped":
				report.Skipped++
			case "stored":
				report.Generated++
			default:
				report.Empty++
			}
		}(userID)
	}

	wg.Wait()
	metrics.BatchDuration.WithLabelValues("digest").Observe(time.Since(start).Seconds())
	logger.Info("所有用户摘要生成完成",
		"users", report.Users,
		"generated", report.Generated,
		"skipped", report.Skipped,
		"empty", report.Empty,
		"failed", report.Failed,
	)
	return report
}
