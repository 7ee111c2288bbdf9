package db

import (
	"context"
	"fmt"
)

// sqliteSchema 本地开发与测试使用的表结构，生产 MySQL 表由外部维护
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		quality_score INTEGER NULL
	)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS source_topics (
		source_id INTEGER NOT NULL,
		topic_id INTEGER NOT NULL,
		relevance REAL NOT NULL DEFAULT 1.0,
		PRIMARY KEY (source_id, topic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS content (
		id INTEGER PRIMARY KEY,
		source_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		published_at DATETIME NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		raw_text TEXT NULL,
		embedding TEXT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_published ON content (published_at)`,
	`CREATE TABLE IF NOT EXISTS user_topics (
		user_id TEXT NOT NULL,
		topic_id INTEGER NOT NULL,
		weight REAL NOT NULL DEFAULT 1.0,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, topic_id)
	)`,
	`CREATE TABLE IF NOT EXISTS themes (
		id TEXT PRIMARY KEY,
		topic_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		content_ids TEXT NOT NULL,
		detected_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_themes_expires ON themes (expires_at)`,
	`CREATE TABLE IF NOT EXISTS digests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		digest_date CHAR(10) NOT NULL,
		content_ids TEXT NOT NULL,
		sent_at DATETIME NOT NULL,
		opened_at DATETIME NULL,
		UNIQUE (user_id, digest_date)
	)`,
}

// EnsureSchema 在 sqlite 上创建缺失的表；MySQL 不做任何处理
func EnsureSchema(ctx context.Context) error {
	if !IsSQLite() {
		return nil
	}
	for _, stmt := range sqliteSchema {
		if _, err := DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
