package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sprout/db"
	"sprout/models"
)

// =====================
// 话题
// =====================

func GetTopic(ctx context.Context, topicID int64) (*models.Topic, error) {
	t := &models.Topic{}
	if err := queryRow(ctx, `SELECT id, name FROM topics WHERE id = ?`, topicID).Scan(&t.ID, &t.Name); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTopics 全部话题，按 ID 排序
func ListTopics(ctx context.Context) ([]models.Topic, error) {
	rows, err := queryRows(ctx, `SELECT id, name FROM topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// ListTopicsForSource 来源映射到的全部话题
func ListTopicsForSource(ctx context.Context, sourceID int64) ([]int64, error) {
	ids, err := queryIDs(ctx, `SELECT topic_id FROM source_topics WHERE source_id = ? ORDER BY topic_id`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("listing topics for source %d: %w", sourceID, err)
	}
	return ids, nil
}

// ListSourceTopics 按来源分组的话题关联
func ListSourceTopics(ctx context.Context, sourceIDs []int64) (map[int64][]models.SourceTopic, error) {
	result := make(map[int64][]models.SourceTopic, len(sourceIDs))
	if len(sourceIDs) == 0 {
		return result, nil
	}
	rows, err := queryRows(ctx, `
		SELECT source_id, topic_id, relevance FROM source_topics
		WHERE source_id IN (`+placeholders(len(sourceIDs))+`)
		ORDER BY source_id, topic_id`, int64Args(sourceIDs)...)
	if err != nil {
		return nil, fmt.Errorf("listing source topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st models.SourceTopic
		if err := rows.Scan(&st.SourceID, &st.TopicID, &st.Relevance); err != nil {
			return nil, fmt.Errorf("scanning source topic: %w", err)
		}
		result[st.SourceID] = append(result[st.SourceID], st)
	}
	return result, rows.Err()
}

// =====================
// 用户话题权重
// =====================

// GetUserTopics 用户关注的话题及权重
func GetUserTopics(ctx context.Context, userID string) ([]models.UserTopic, error) {
	rows, err := queryRows(ctx, `
		SELECT user_id, topic_id, weight, updated_at FROM user_topics
		WHERE user_id = ?
		ORDER BY topic_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing topics of user %s: %w", userID, err)
	}
	defer rows.Close()

	topics := make([]models.UserTopic, 0)
	for rows.Next() {
		var ut models.UserTopic
		if err := rows.Scan(&ut.UserID, &ut.TopicID, &ut.Weight, &ut.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user topic: %w", err)
		}
		topics = append(topics, ut)
	}
	return topics, rows.Err()
}

// ListUsersWithTopics 至少关注一个话题的用户
func ListUsersWithTopics(ctx context.Context) ([]string, error) {
	users, err := queryStrings(ctx, `SELECT DISTINCT user_id FROM user_topics ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// ApplyTopicWeightDelta 在服务端原子地调整权重并截断到 [MinTopicWeight, MaxTopicWeight]
//
// delta > 0 时缺失的行以 initial+delta 创建；delta < 0 时只更新已有行。
// 返回受影响的行数（MySQL 的 upsert 对更新行计 2）。
func ApplyTopicWeightDelta(ctx context.Context, userID string, topicIDs []int64, delta, initial float64, now time.Time) (int64, error) {
	if len(topicIDs) == 0 || delta == 0 {
		return 0, nil
	}
	now = dbTime(now)
	clamped := clampExpr("weight + ?", models.MinTopicWeight, models.MaxTopicWeight)

	var (
		query string
		args  []any
	)
	if delta > 0 {
		created := clampWeight(initial + delta)
		values := make([]string, 0, len(topicIDs))
		for _, topicID := range topicIDs {
			values = append(values, "(?, ?, ?, ?)")
			args = append(args, userID, topicID, created, now)
		}
		query = `INSERT INTO user_topics (user_id, topic_id, weight, updated_at) VALUES ` +
			strings.Join(values, ", ") + weightUpsertClause(db.IsSQLite(), clamped)
		args = append(args, delta)
	} else {
		query = `UPDATE user_topics SET weight = ` + clamped + `, updated_at = ?
			WHERE user_id = ? AND topic_id IN (` + placeholders(len(topicIDs)) + `)`
		args = append(args, delta, now, userID)
		args = append(args, int64Args(topicIDs)...)
	}

	res, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("applying weight delta for user %s: %w", userID, err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// weightUpsertClause 主键冲突时在已有权重上累加
func weightUpsertClause(sqlite bool, clamped string) string {
	if sqlite {
		return ` ON CONFLICT(user_id, topic_id) DO UPDATE SET weight = ` + clamped + `, updated_at = excluded.updated_at`
	}
	// 行别名写法需要 MySQL 8.0.19+，VALUES() 引用自 8.0.20 起废弃
	return ` AS new ON DUPLICATE KEY UPDATE weight = ` + clamped + `, updated_at = new.updated_at`
}

func clampWeight(w float64) float64 {
	return min(models.MaxTopicWeight, max(models.MinTopicWeight, w))
}
