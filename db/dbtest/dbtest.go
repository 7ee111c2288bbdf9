// Package dbtest opens throwaway SQLite databases and seeds fixtures for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"sprout/db"
)

// Open 打开临时 sqlite 库并替换全局连接，测试结束后恢复
func Open(t testing.TB) *sql.DB {
	t.Helper()

	prevDB, prevDriver := db.DB, db.Driver
	path := filepath.Join(t.TempDir(), "sprout_test.db")
	require.NoError(t, db.Open(db.DriverSQLite, path))
	require.NoError(t, db.EnsureSchema(context.Background()))

	conn := db.DB
	t.Cleanup(func() {
		conn.Close()
		db.DB, db.Driver = prevDB, prevDriver
	})
	return conn
}

// Source 写入来源，quality 为 nil 时表示缺失
func Source(t testing.TB, id int64, name string, quality *int) {
	t.Helper()
	var q any
	if quality != nil {
		q = *quality
	}
	_, err := db.DB.Exec(`INSERT INTO sources (id, name, type, quality_score) VALUES (?, ?, 'blog', ?)`, id, name, q)
	require.NoError(t, err)
}

func Topic(t testing.TB, id int64, name string) {
	t.Helper()
	_, err := db.DB.Exec(`INSERT INTO topics (id, name) VALUES (?, ?)`, id, name)
	require.NoError(t, err)
}

func Link(t testing.TB, sourceID, topicID int64, relevance float64) {
	t.Helper()
	_, err := db.DB.Exec(`INSERT INTO source_topics (source_id, topic_id, relevance) VALUES (?, ?, ?)`, sourceID, topicID, relevance)
	require.NoError(t, err)
}

// Content 写入内容，embedding 为 nil 时存 NULL
func Content(t testing.TB, id, sourceID int64, title string, publishedAt time.Time, embedding []float32) {
	t.Helper()
	var emb any
	if embedding != nil {
		b, err := json.Marshal(embedding)
		require.NoError(t, err)
		emb = string(b)
	}
	_, err := db.DB.Exec(`
		INSERT INTO content (id, source_id, title, published_at, content_type, raw_text, embedding)
		VALUES (?, ?, ?, ?, 'blog', ?, ?)`,
		id, sourceID, title, publishedAt.UTC().Truncate(time.Second), title, emb)
	require.NoError(t, err)
}

// UserTopic 直接写入用户话题权重
func UserTopic(t testing.TB, userID string, topicID int64, weight float64) {
	t.Helper()
	_, err := db.DB.Exec(`INSERT INTO user_topics (user_id, topic_id, weight, updated_at) VALUES (?, ?, ?, ?)`,
		userID, topicID, weight, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, err)
}

// Weight 读取用户话题权重，不存在时 ok 为 false
func Weight(t testing.TB, userID string, topicID int64) (float64, bool) {
	t.Helper()
	var w float64
	err := db.DB.QueryRow(`SELECT weight FROM user_topics WHERE user_id = ? AND topic_id = ?`, userID, topicID).Scan(&w)
	if err == sql.ErrNoRows {
		return 0, false
	}
	require.NoError(t, err)
	return w, true
}

// Count 统计表行数
func Count(t testing.TB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.DB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

// Exec 执行任意语句，用于构造存储故障（删表、触发器）
func Exec(t testing.TB, stmt string) {
	t.Helper()
	_, err := db.DB.Exec(stmt)
	require.NoError(t, err)
}

// FailInserts 在 table 上创建触发器，满足 when 条件的插入以错误中止
func FailInserts(t testing.TB, table, when string) {
	t.Helper()
	Exec(t, `CREATE TRIGGER fail_`+table+`_insert BEFORE INSERT ON `+table+`
		WHEN `+when+`
		BEGIN SELECT RAISE(ABORT, 'injected failure'); END`)
}

// Int 返回整数指针
func Int(v int) *int {
	return &v
}
