package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sprout/db/dbtest"
	"sprout/models"
)

func seedWeightFixtures(t *testing.T) {
	t.Helper()
	dbtest.Link(t, 1, 10, 0.9)
	dbtest.Link(t, 1, 11, 0.4)
	dbtest.Content(t, 100, 1, "two topics", time.Now(), nil)
	dbtest.Content(t, 200, 2, "no topics", time.Now(), nil)
}

func TestUpdateWeightsTouchesEveryTopicOfTheSource(t *testing.T) {
	dbtest.Open(t)
	seedWeightFixtures(t)

	res := UpdateWeights(context.Background(), "u1", 100, models.InteractionSave)
	assert.True(t, res.Applied)
	assert.Equal(t, []int64{10, 11}, res.Topics)

	for _, topic := range []int64{10, 11} {
		w, ok := dbtest.Weight(t, "u1", topic)
		assert.True(t, ok)
		assert.InDelta(t, 1.2, w, 1e-9)
	}

	UpdateWeights(context.Background(), "u1", 100, models.InteractionRead)
	w, _ := dbtest.Weight(t, "u1", 10)
	assert.InDelta(t, 1.3, w, 1e-9)
}

func TestUpdateWeightsDismissNeverCreatesRows(t *testing.T) {
	dbtest.Open(t)
	seedWeightFixtures(t)

	UpdateWeights(context.Background(), "u1", 100, models.InteractionDismiss)
	assert.Zero(t, dbtest.Count(t, "user_topics"))
}

func TestUpdateWeightsStaysInBounds(t *testing.T) {
	dbtest.Open(t)
	seedWeightFixtures(t)
	dbtest.UserTopic(t, "u1", 10, 4.9)
	dbtest.UserTopic(t, "u1", 11, 0.2)

	for range 5 {
		UpdateWeights(context.Background(), "u1", 100, models.InteractionSave)
	}
	w, _ := dbtest.Weight(t, "u1", 10)
	assert.InDelta(t, models.MaxTopicWeight, w, 1e-9)

	for range 60 {
		UpdateWeights(context.Background(), "u1", 100, models.InteractionDismiss)
	}
	w, _ = dbtest.Weight(t, "u1", 11)
	assert.InDelta(t, models.MinTopicWeight, w, 1e-9)
}

func TestUpdateWeightsNoops(t *testing.T) {
	dbtest.Open(t)
	seedWeightFixtures(t)
	ctx := context.Background()

	assert.False(t, UpdateWeights(ctx, "u1", 200, models.InteractionSave).Applied, "source without topics")
	assert.False(t, UpdateWeights(ctx, "u1", 999, models.InteractionSave).Applied, "unknown content")
	assert.False(t, UpdateWeights(ctx, "u1", 100, models.InteractionKind(42)).Applied, "invalid kind")
	assert.False(t, UpdateWeights(ctx, "", 100, models.InteractionRead).Applied, "missing user")
	assert.Zero(t, dbtest.Count(t, "user_topics"))
}

func TestUpdateWeightsSwallowsStorageErrors(t *testing.T) {
	dbtest.Open(t)
	seedWeightFixtures(t)
	dbtest.Exec(t, `DROP TABLE user_topics`)

	var res WeightUpdate
	assert.NotPanics(t, func() {
		res = UpdateWeights(context.Background(), "u1", 100, models.InteractionSave)
	})
	assert.False(t, res.Applied)
	assert.Equal(t, []int64{10, 11}, res.Topics)
}

func TestUpdateWeightsFailsWhenTopicLookupFails(t *testing.T) {
	dbtest.Open(t)
	seedWeightFixtures(t)
	dbtest.Exec(t, `DROP TABLE source_topics`)

	res := UpdateWeights(context.Background(), "u1", 100, models.InteractionRead)
	assert.False(t, res.Applied)
	assert.Empty(t, res.Topics)
}
