package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprout/db"
	"sprout/db/dbtest"
)

func TestListTopicContentSkipsMissingAndMalformedEmbeddings(t *testing.T) {
	dbtest.Open(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	dbtest.Link(t, 1, 7, 1)
	dbtest.Content(t, 100, 1, "fresh", now.Add(-time.Hour), []float32{1, 0})
	dbtest.Content(t, 101, 1, "no vector", now.Add(-time.Hour), nil)
	dbtest.Content(t, 102, 1, "too old", now.Add(-10*24*time.Hour), []float32{1, 0})
	dbtest.Content(t, 103, 2, "other source", now.Add(-time.Hour), []float32{1, 0})
	dbtest.Content(t, 104, 1, "broken", now.Add(-2*time.Hour), nil)
	_, err := db.DB.Exec(`UPDATE content SET embedding = 'not json' WHERE id = 104`)
	require.NoError(t, err)

	items, err := ListTopicContent(ctx, 7, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(100), items[0].ID)
	assert.Equal(t, []float32{1, 0}, items[0].Embedding)
}

func TestListContentForTopics(t *testing.T) {
	dbtest.Open(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	dbtest.Link(t, 1, 7, 1)
	dbtest.Link(t, 2, 8, 1)
	dbtest.Link(t, 1, 8, 1)
	dbtest.Content(t, 1, 1, "a", now.Add(-time.Hour), nil)
	dbtest.Content(t, 2, 2, "b", now.Add(-2*time.Hour), nil)
	dbtest.Content(t, 3, 3, "c", now.Add(-time.Hour), nil)

	items, err := ListContentForTopics(ctx, []int64{7, 8}, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)

	empty, err := ListContentForTopics(ctx, nil, now)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchContentByKeyword(t *testing.T) {
	dbtest.Open(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	dbtest.Content(t, 1, 1, "Rust in production", now.Add(-3*time.Hour), nil)
	dbtest.Content(t, 2, 1, "Go generics deep dive", now.Add(-2*time.Hour), nil)
	dbtest.Content(t, 3, 1, "100% uptime", now.Add(-time.Hour), nil)
	_, err := db.DB.Exec(`UPDATE content SET raw_text = 'we also talk about generics' WHERE id = 1`)
	require.NoError(t, err)

	ids, err := SearchContentByKeyword(ctx, "generics", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids)

	ids, err = SearchContentByKeyword(ctx, "100%", 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)

	ids, err = SearchContentByKeyword(ctx, "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetSourcesAndContentSource(t *testing.T) {
	dbtest.Open(t)
	ctx := context.Background()
	dbtest.Source(t, 1, "with quality", dbtest.Int(80))
	dbtest.Source(t, 2, "no quality", nil)
	dbtest.Content(t, 5, 2, "x", time.Now(), nil)

	sources, err := GetSources(ctx, []int64{1, 2})
	require.NoError(t, err)
	require.NotNil(t, sources[1].QualityScore)
	assert.Equal(t, 80, *sources[1].QualityScore)
	assert.Nil(t, sources[2].QualityScore)

	sourceID, err := GetContentSource(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sourceID)

	_, err = GetContentSource(ctx, 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestContentWindowExcludesBoundary(t *testing.T) {
	dbtest.Open(t)
	ctx := context.Background()
	since := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	dbtest.Link(t, 1, 7, 1)
	dbtest.Content(t, 1, 1, "at boundary", since, nil)
	dbtest.Content(t, 2, 1, "one second later", since.Add(time.Second), nil)
	dbtest.Content(t, 3, 1, "before", since.Add(-time.Second), nil)

	items, err := ListContentForTopics(ctx, []int64{7}, since)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)

	// since 带小数秒时，整秒存储的边界内容仍被排除
	items, err = ListContentForTopics(ctx, []int64{7}, since.Add(500*time.Millisecond))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)

	recent, err := ListRecentContent(ctx, since, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(2), recent[0].ID)
}
