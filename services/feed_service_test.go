package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprout/db/dbtest"
	"sprout/models"
)

func TestScoreContentScenario(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	quality := 80
	c := models.Content{ID: 1, SourceID: 1, PublishedAt: now.Add(-2 * time.Hour)}

	got := ScoreContent(c, &quality, []models.SourceTopic{{SourceID: 1, TopicID: 7, Relevance: 1}}, map[int64]float64{7: 2.0}, now)
	assert.InDelta(t, 80, got.BaseScore, 1e-9)
	assert.InDelta(t, 50, got.TopicMatch, 1e-9)
	assert.InDelta(t, 20, got.RecencyBoost, 1e-9)
	assert.InDelta(t, 150, got.Score, 1e-9)
}

func TestBaseScoreDefaultsToFifty(t *testing.T) {
	assert.InDelta(t, 50, BaseScore(nil), 1e-9)
	zero := 0
	assert.InDelta(t, 0, BaseScore(&zero), 1e-9)
}

func TestRecencyBoost(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 20, RecencyBoost(now.Add(-23*time.Hour), now), 1e-9)
	assert.InDelta(t, 10, RecencyBoost(now.Add(-24*time.Hour), now), 1e-9)
	assert.InDelta(t, 10, RecencyBoost(now.Add(-6*24*time.Hour), now), 1e-9)
	assert.InDelta(t, 0, RecencyBoost(now.Add(-7*24*time.Hour), now), 1e-9)
}

func TestTopicMatch(t *testing.T) {
	st := []models.SourceTopic{
		{TopicID: 1, Relevance: 0.5},
		{TopicID: 2, Relevance: 1.0},
		{TopicID: 3, Relevance: 0.8},
	}

	assert.Zero(t, TopicMatch(nil, map[int64]float64{1: 1}))
	assert.Zero(t, TopicMatch(st, nil))
	assert.Zero(t, TopicMatch(st, map[int64]float64{9: 3}), "no shared topics")
	assert.Zero(t, TopicMatch([]models.SourceTopic{{TopicID: 1, Relevance: 0}}, map[int64]float64{1: 5}))

	// (0.5*0.4 + 1.0*0.7) / 1.5 * 50 = 30
	assert.InDelta(t, 30, TopicMatch(st, map[int64]float64{1: 0.4, 2: 0.7}), 1e-9)
	assert.InDelta(t, 50, TopicMatch(st, map[int64]float64{1: 5, 2: 5, 3: 5}), 1e-9)

	for _, w := range []float64{0.1, 0.5, 1, 2.5, 5} {
		m := TopicMatch(st, map[int64]float64{1: w, 3: w})
		assert.GreaterOrEqual(t, m, 0.0)
		assert.LessOrEqual(t, m, 50.0)
	}
}

func TestGetPersonalizedFeedRanksByScore(t *testing.T) {
	dbtest.Open(t)
	cfg := testConfig(t)
	now := time.Now().UTC().Truncate(time.Second)

	dbtest.Source(t, 1, "great", dbtest.Int(90))
	dbtest.Source(t, 2, "ok", dbtest.Int(40))
	dbtest.Source(t, 3, "unrated", nil)
	dbtest.Link(t, 1, 1, 1)
	dbtest.Link(t, 2, 1, 1)
	dbtest.Link(t, 3, 2, 1)
	dbtest.UserTopic(t, "u1", 1, 1.0)
	dbtest.UserTopic(t, "u1", 2, 2.0)

	dbtest.Content(t, 1, 1, "great old", now.Add(-3*24*time.Hour), nil) // 90 + 50 + 10
	dbtest.Content(t, 2, 2, "ok fresh", now.Add(-time.Hour), nil)        // 40 + 50 + 20
	dbtest.Content(t, 3, 3, "unrated fresh", now.Add(-2*time.Hour), nil) // 50 + 50 + 20
	dbtest.Content(t, 4, 1, "stale", now.Add(-10*24*time.Hour), nil)     // outside window

	feed, err := GetPersonalizedFeed(context.Background(), cfg, "u1", 10, now)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, int64(1), feed[0].Content.ID)
	assert.Equal(t, int64(3), feed[1].Content.ID)
	assert.Equal(t, int64(2), feed[2].Content.ID)
	assert.InDelta(t, 150, feed[0].Score, 1e-9)

	feed, err = GetPersonalizedFeed(context.Background(), cfg, "u1", 1, now)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestGetPersonalizedFeedWithoutTopics(t *testing.T) {
	dbtest.Open(t)
	cfg := testConfig(t)
	now := time.Now().UTC()
	dbtest.Content(t, 1, 1, "anything", now.Add(-time.Hour), nil)

	feed, err := GetPersonalizedFeed(context.Background(), cfg, "nobody", 10, now)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Zero(t, feed[0].TopicMatch)
	assert.InDelta(t, 70, feed[0].Score, 1e-9)
}
