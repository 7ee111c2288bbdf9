package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"sprout/db"
)

// =====================
// 通用工具函数
// =====================

func queryRows(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, query, args...)
}

func queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

// queryStrings 执行查询并返回字符串结果列表
func queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]string, 0)
	for rows.Next() {
		var val sql.NullString
		if err := rows.Scan(&val); err == nil && val.Valid {
			s := strings.TrimSpace(val.String)
			if s != "" {
				results = append(results, s)
			}
		}
	}
	return results, rows.Err()
}

// queryIDs 执行查询并返回整数 ID 列表
func queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// placeholders 生成 IN 子句的占位符
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// dbTime 统一为 UTC 秒级精度，sqlite 下时间按字符串比较
//
// 存储的时间都是整秒，窗口查询使用 published_at > dbTime(since)，
// 与 now.Sub(published_at) < window 等价。
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func encodeIDs(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encoding content ids: %w", err)
	}
	return string(b), nil
}

func decodeIDs(raw string) ([]int64, error) {
	ids := make([]int64, 0)
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decoding content ids: %w", err)
	}
	return ids, nil
}

// decodeEmbedding 解析 JSON 向量，无法解析时视为没有向量
func decodeEmbedding(raw sql.NullString) []float32 {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw.String), &vec); err != nil {
		return nil
	}
	return vec
}

// EncodeEmbedding 向量序列化为存储格式
func EncodeEmbedding(vec []float32) (string, error) {
	b, err := json.Marshal(vec)
	if err != nil {
		return "", fmt.Errorf("encoding embedding: %w", err)
	}
	return string(b), nil
}

// clampExpr 生成服务端截断表达式
func clampExpr(expr string, lo, hi float64) string {
	if db.IsSQLite() {
		return fmt.Sprintf("MIN(%g, MAX(%g, %s))", hi, lo, expr)
	}
	return fmt.Sprintf("LEAST(%g, GREATEST(%g, %s))", hi, lo, expr)
}

// insertIgnore 主键冲突时忽略插入
func insertIgnore() string {
	if db.IsSQLite() {
		return "INSERT OR IGNORE"
	}
	return "INSERT IGNORE"
}
