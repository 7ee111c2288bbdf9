package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sprout/models"
)

const contentColumns = `c.id, c.source_id, c.title, c.published_at, c.content_type, c.raw_text, c.embedding`

func scanContent(rows *sql.Rows) (models.Content, error) {
	var (
		c         models.Content
		rawText   sql.NullString
		embedding sql.NullString
	)
	if err := rows.Scan(&c.ID, &c.SourceID, &c.Title, &c.PublishedAt, &c.ContentType, &rawText, &embedding); err != nil {
		return c, err
	}
	c.RawText = rawText.String
	c.Embedding = decodeEmbedding(embedding)
	return c, nil
}

func queryContent(ctx context.Context, query string, args ...any) ([]models.Content, error) {
	rows, err := queryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning content: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ListTopicContent 话题下时间窗口内带向量的内容，按发布时间倒序
// 向量无法解析的行会被剔除
func ListTopicContent(ctx context.Context, topicID int64, since time.Time) ([]models.Content, error) {
	items, err := queryContent(ctx, `
		SELECT `+contentColumns+`
		FROM content c
		JOIN source_topics st ON st.source_id = c.source_id
		WHERE st.topic_id = ?
		  AND c.published_at > ?
		  AND c.embedding IS NOT NULL
		ORDER BY c.published_at DESC, c.id ASC`, topicID, dbTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing content for topic %d: %w", topicID, err)
	}

	embedded := items[:0]
	for _, c := range items {
		if c.HasEmbedding() {
			embedded = append(embedded, c)
		}
	}
	return embedded, nil
}

// ListContentForTopics 映射到任一话题的来源在时间窗口内发布的内容
func ListContentForTopics(ctx context.Context, topicIDs []int64, since time.Time) ([]models.Content, error) {
	if len(topicIDs) == 0 {
		return []models.Content{}, nil
	}
	args := append(int64Args(topicIDs), dbTime(since))
	items, err := queryContent(ctx, `
		SELECT `+contentColumns+`
		FROM content c
		WHERE c.source_id IN (
			SELECT DISTINCT source_id FROM source_topics WHERE topic_id IN (`+placeholders(len(topicIDs))+`)
		)
		  AND c.published_at > ?
		ORDER BY c.published_at DESC, c.id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing content for topics: %w", err)
	}
	return items, nil
}

// ListEmbeddedContent 时间窗口内带向量的内容，供语义检索扫描
func ListEmbeddedContent(ctx context.Context, since time.Time, limit int) ([]models.Content, error) {
	items, err := queryContent(ctx, `
		SELECT `+contentColumns+`
		FROM content c
		WHERE c.published_at > ?
		  AND c.embedding IS NOT NULL
		ORDER BY c.published_at DESC, c.id ASC
		LIMIT ?`, dbTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("listing embedded content: %w", err)
	}
	return items, nil
}

// GetContentSource 返回内容所属来源，不存在时返回 sql.ErrNoRows
func GetContentSource(ctx context.Context, contentID int64) (int64, error) {
	var sourceID int64
	err := queryRow(ctx, `SELECT source_id FROM content WHERE id = ?`, contentID).Scan(&sourceID)
	if err != nil {
		return 0, err
	}
	return sourceID, nil
}

// escapeLike 转义 LIKE 通配符，转义字符为 '!'
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// SearchContentByKeyword 标题或正文包含关键词的内容，标题命中优先
func SearchContentByKeyword(ctx context.Context, query string, limit int) ([]int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []int64{}, nil
	}
	pattern := "%" + escapeLike(query) + "%"
	ids, err := queryIDs(ctx, `
		SELECT id FROM content
		WHERE title LIKE ? ESCAPE '!' OR raw_text LIKE ? ESCAPE '!'
		ORDER BY CASE WHEN title LIKE ? ESCAPE '!' THEN 0 ELSE 1 END, published_at DESC, id ASC
		LIMIT ?`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return ids, nil
}

// GetSearchHits 按 ID 批量读取检索结果展示字段
func GetSearchHits(ctx context.Context, ids []int64) (map[int64]models.SearchHit, error) {
	hits := make(map[int64]models.SearchHit, len(ids))
	if len(ids) == 0 {
		return hits, nil
	}
	rows, err := queryRows(ctx, `
		SELECT id, source_id, title, published_at FROM content
		WHERE id IN (`+placeholders(len(ids))+`)`, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("loading search hits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h models.SearchHit
		if err := rows.Scan(&h.ContentID, &h.SourceID, &h.Title, &h.PublishedAt); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		hits[h.ContentID] = h
	}
	return hits, rows.Err()
}

// GetSources 按 ID 批量读取来源
func GetSources(ctx context.Context, ids []int64) (map[int64]models.Source, error) {
	sources := make(map[int64]models.Source, len(ids))
	if len(ids) == 0 {
		return sources, nil
	}
	rows, err := queryRows(ctx, `
		SELECT id, name, type, quality_score FROM sources
		WHERE id IN (`+placeholders(len(ids))+`)`, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s       models.Source
			quality sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &quality); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		if quality.Valid {
			q := int(quality.Int64)
			s.QualityScore = &q
		}
		sources[s.ID] = s
	}
	return sources, rows.Err()
}

// SourceIDs 去重后的来源 ID，保持首次出现顺序
func SourceIDs(items []models.Content) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, c := range items {
		if !seen[c.SourceID] {
			seen[c.SourceID] = true
			ids = append(ids, c.SourceID)
		}
	}
	return ids
}

// ListRecentContent 时间窗口内的最新内容，用于未关注任何话题的用户
func ListRecentContent(ctx context.Context, since time.Time, limit int) ([]models.Content, error) {
	items, err := queryContent(ctx, `
		SELECT `+contentColumns+`
		FROM content c
		WHERE c.published_at > ?
		ORDER BY c.published_at DESC, c.id ASC
		LIMIT ?`, dbTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent content: %w", err)
	}
	return items, nil
}
