package services

import (
	"context"
	"sort"
	"time"

	"sprout/config"
	"sprout/logger"
	"sprout/models"
	"sprout/repository"
)

const (
	defaultQualityScore = 50
	maxTopicMatch       = 50.0

	freshBoost  = 20.0 // 发布不足 24 小时
	recentBoost = 10.0 // 发布不足 7 天
)

// BaseScore 来源质量分，缺失时为 50
func BaseScore(quality *int) float64 {
	if quality == nil {
		return defaultQualityScore
	}
	return float64(*quality)
}

// RecencyBoost 按发布时长的阶梯加分
func RecencyBoost(publishedAt, now time.Time) float64 {
	age := now.Sub(publishedAt)
	switch {
	case age < 24*time.Hour:
		return freshBoost
	case age < 7*24*time.Hour:
		return recentBoost
	default:
		return 0
	}
}

// TopicMatch 来源话题与用户权重的匹配分，取值 [0, 50]
//
// 对共同话题累加 relevance*weight 与 relevance，结果为 min(50, 加权和/相关度和*50)。
func TopicMatch(sourceTopics []models.SourceTopic, weights map[int64]float64) float64 {
	if len(sourceTopics) == 0 || len(weights) == 0 {
		return 0
	}

	var weightedSum, totalRelevance float64
	for _, st := range sourceTopics {
		w, ok := weights[st.TopicID]
		if !ok {
			continue
		}
		weightedSum += st.Relevance * w
		totalRelevance += st.Relevance
	}
	if totalRelevance <= 0 {
		return 0
	}
	return max(0, min(maxTopicMatch, weightedSum/totalRelevance*maxTopicMatch))
}

// ScoreContent 计算内容对用户的个性化得分
func ScoreContent(item models.Content, quality *int, sourceTopics []models.SourceTopic, weights map[int64]float64, now time.Time) models.ScoredItem {
	base := BaseScore(quality)
	match := TopicMatch(sourceTopics, weights)
	recency := RecencyBoost(item.PublishedAt, now)
	return models.ScoredItem{
		Content:      item,
		Score:        base + match + recency,
		BaseScore:    base,
		TopicMatch:   match,
		RecencyBoost: recency,
	}
}

// WeightMap 用户话题权重按话题索引
func WeightMap(topics []models.UserTopic) map[int64]float64 {
	weights := make(map[int64]float64, len(topics))
	for _, ut := range topics {
		weights[ut.TopicID] = ut.Weight
	}
	return weights
}

func topicIDs(topics []models.UserTopic) []int64 {
	ids := make([]int64, len(topics))
	for i, ut := range topics {
		ids[i] = ut.TopicID
	}
	return ids
}

// sortScored 得分降序，同分时较新的在前
func sortScored(items []models.ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Content.PublishedAt.After(items[j].Content.PublishedAt)
	})
}

// GetPersonalizedFeed 用户个性化信息流
// 未关注任何话题时按最新内容打分，topic_match 为 0
func GetPersonalizedFeed(ctx context.Context, cfg *config.Config, userID string, limit int, now time.Time) ([]models.ScoredItem, error) {
	if limit <= 0 {
		limit = cfg.Engine.FeedLimit
	}
	since := now.AddDate(0, 0, -cfg.Engine.FeedWindowDays)

	userTopics, err := repository.GetUserTopics(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pool []models.Content
	if len(userTopics) > 0 {
		pool, err = repository.ListContentForTopics(ctx, topicIDs(userTopics), since)
	} else {
		pool, err = repository.ListRecentContent(ctx, since, limit)
	}
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return []models.ScoredItem{}, nil
	}

	sourceIDs := repository.SourceIDs(pool)
	sources, err := repository.GetSources(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}
	sourceTopics, err := repository.ListSourceTopics(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}

	weights := WeightMap(userTopics)
	scored := make([]models.ScoredItem, 0, len(pool))
	for _, item := range pool {
		scored = append(scored, ScoreContent(item, sources[item.SourceID].QualityScore, sourceTopics[item.SourceID], weights, now))
	}
	sortScored(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}

	logger.Debug("Feed scored", "user_id", userID, "pool", len(pool), "returned", len(scored))
	return scored, nil
}
