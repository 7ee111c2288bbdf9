package services

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"sprout/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	cfg.Cron.Concurrency = 2
	return cfg
}

// unit 返回与 x 轴夹角为 deg 度的单位向量
func unit(deg float64) []float32 {
	rad := deg * math.Pi / 180
	return []float32{float32(math.Cos(rad)), float32(math.Sin(rad))}
}

type stubTitles struct {
	title string
	calls atomic.Int32
}

func (s *stubTitles) GenerateTitle(_ context.Context, topicName string, _ []string) TitleResult {
	s.calls.Add(1)
	if s.title == "" {
		return fallbackTitleResult(topicName, errors.New("generator down"))
	}
	return TitleResult{Title: s.title}
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (s stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return s.vec, s.err
}
