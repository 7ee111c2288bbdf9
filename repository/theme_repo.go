package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sprout/db"
	"sprout/models"
)

// InsertTheme 写入主题，主题写入后不再修改
func InsertTheme(ctx context.Context, t *models.Theme) error {
	ids, err := encodeIDs(t.ContentIDs)
	if err != nil {
		return err
	}
	_, err = db.DB.ExecContext(ctx, `
		INSERT INTO themes (id, topic_id, title, content_ids, detected_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.TopicID, t.Title, ids, dbTime(t.DetectedAt), dbTime(t.ExpiresAt))
	if err != nil {
		return fmt.Errorf("inserting theme for topic %d: %w", t.TopicID, err)
	}
	return nil
}

// ListActiveThemes 未过期的主题，topicID 为 0 时返回全部话题
func ListActiveThemes(ctx context.Context, topicID int64, now time.Time) ([]models.Theme, error) {
	query := `SELECT id, topic_id, title, content_ids, detected_at, expires_at FROM themes WHERE expires_at > ?`
	args := []any{dbTime(now)}
	if topicID > 0 {
		query += ` AND topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY detected_at DESC, id ASC`

	rows, err := queryRows(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing themes: %w", err)
	}
	defer rows.Close()

	themes := make([]models.Theme, 0)
	for rows.Next() {
		var (
			t   models.Theme
			raw sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.TopicID, &t.Title, &raw, &t.DetectedAt, &t.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scanning theme: %w", err)
		}
		if t.ContentIDs, err = decodeIDs(raw.String); err != nil {
			return nil, fmt.Errorf("theme %s: %w", t.ID, err)
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

// DeleteExpiredThemes 清理已过期的主题，返回删除条数
func DeleteExpiredThemes(ctx context.Context, now time.Time) (int64, error) {
	res, err := db.DB.ExecContext(ctx, `DELETE FROM themes WHERE expires_at <= ?`, dbTime(now))
	if err != nil {
		return 0, fmt.Errorf("deleting expired themes: %w", err)
	}
	return res.RowsAffected()
}
