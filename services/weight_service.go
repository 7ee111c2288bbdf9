package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"sprout/logger"
	"sprout/metrics"
	"sprout/models"
	"sprout/repository"
)

// WeightUpdate 一次权重学习的结果
type WeightUpdate struct {
	Topics  []int64 // 受影响的话题
	Applied bool
}

// UpdateWeights 根据一次交互调整用户对内容来源所属全部话题的权重
//
// 尽力而为：存储失败只记录日志和指标，返回值仅供观测，调用方无需处理。
func UpdateWeights(ctx context.Context, userID string, contentID int64, kind models.InteractionKind) WeightUpdate {
	adj := kind.Adjustment()
	if adj == 0 || userID == "" {
		logger.Warn("Ignoring interaction", "user_id", userID, "content_id", contentID, "kind", int(kind))
		metrics.WeightUpdates.WithLabelValues(kind.String(), "noop").Inc()
		return WeightUpdate{}
	}

	sourceID, err := repository.GetContentSource(ctx, contentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug("Interaction on unknown content", "content_id", contentID)
			metrics.WeightUpdates.WithLabelValues(kind.String(), "noop").Inc()
		} else {
			logger.Error("Failed to resolve content source", "content_id", contentID, "error", err)
			metrics.WeightUpdates.WithLabelValues(kind.String(), "failed").Inc()
		}
		return WeightUpdate{}
	}

	topics, err := repository.ListTopicsForSource(ctx, sourceID)
	if err != nil {
		logger.Error("Failed to resolve source topics", "source_id", sourceID, "error", err)
		metrics.WeightUpdates.WithLabelValues(kind.String(), "failed").Inc()
		return WeightUpdate{}
	}
	if len(topics) == 0 {
		metrics.WeightUpdates.WithLabelValues(kind.String(), "noop").Inc()
		return WeightUpdate{}
	}

	// 正向调整时缺失的行以默认权重为基准创建，负向调整只更新已有行
	if _, err := repository.ApplyTopicWeightDelta(ctx, userID, topics, adj, models.DefaultTopicWeight, time.Now()); err != nil {
		logger.Error("Failed to apply topic weights",
			"user_id", userID,
			"content_id", contentID,
			"kind", kind.String(),
			"topics", len(topics),
			"error", err)
		metrics.WeightUpdates.WithLabelValues(kind.String(), "failed").Inc()
		return WeightUpdate{Topics: topics}
	}

	metrics.WeightUpdates.WithLabelValues(kind.String(), "applied").Inc()
	logger.Debug("Topic weights updated", "user_id", userID, "kind", kind.String(), "topics", len(topics))
	return WeightUpdate{Topics: topics, Applied: true}
}

// GetUserTopicWeights 用户当前的话题权重
func GetUserTopicWeights(ctx context.Context, userID string) ([]models.UserTopic, error) {
	return repository.GetUserTopics(ctx, userID)
}
