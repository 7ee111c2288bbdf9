package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sprout/db"
	"sprout/models"
)

// InsertDigest 写入摘要，(user_id, digest_date) 已存在时不写入并返回 false
func InsertDigest(ctx context.Context, d *models.Digest) (bool, error) {
	ids, err := encodeIDs(d.ContentIDs)
	if err != nil {
		return false, err
	}
	res, err := db.DB.ExecContext(ctx, insertIgnore()+` INTO digests (id, user_id, digest_date, content_ids, sent_at)
		VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.Date, ids, dbTime(d.SentAt))
	if err != nil {
		return false, fmt.Errorf("inserting digest for user %s: %w", d.UserID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetDigest 读取用户某天的摘要，不存在时返回 sql.ErrNoRows
func GetDigest(ctx context.Context, userID, date string) (*models.Digest, error) {
	var (
		d        models.Digest
		raw      sql.NullString
		openedAt sql.NullTime
	)
	err := queryRow(ctx, `
		SELECT id, user_id, digest_date, content_ids, sent_at, opened_at
		FROM digests WHERE user_id = ? AND digest_date = ?`, userID, date).
		Scan(&d.ID, &d.UserID, &d.Date, &raw, &d.SentAt, &openedAt)
	if err != nil {
		return nil, err
	}
	if d.ContentIDs, err = decodeIDs(raw.String); err != nil {
		return nil, fmt.Errorf("digest %s: %w", d.ID, err)
	}
	if openedAt.Valid {
		t := openedAt.Time
		d.OpenedAt = &t
	}
	return &d, nil
}

// MarkDigestOpened 记录首次打开时间，返回是否有更新
func MarkDigestOpened(ctx context.Context, userID, date string, at time.Time) (bool, error) {
	res, err := db.DB.ExecContext(ctx, `
		UPDATE digests SET opened_at = ?
		WHERE user_id = ? AND digest_date = ? AND opened_at IS NULL`, dbTime(at), userID, date)
	if err != nil {
		return false, fmt.Errorf("marking digest opened for user %s: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
