package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprout/config"
)

func siliconFlowConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.SiliconFlow.BaseURL = url
	cfg.SiliconFlow.APIKey = "test-key"
	cfg.SiliconFlow.Model = "test-chat"
	cfg.SiliconFlow.EmbeddingModel = "test-embed"
	cfg.SiliconFlow.TimeoutSec = 5
	return cfg
}

func TestTitleGeneratorCleansModelOutput(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req siliconFlowRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Messages[0].Content

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"\"Chip export curbs widen\"\n"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	gen := NewSiliconFlowTitleGenerator(siliconFlowConfig(t, srv.URL))
	res := gen.GenerateTitle(context.Background(), "Semiconductors", []string{"US widens chip curbs", "New export limits on chips", "US widens chip curbs"})

	assert.False(t, res.Fallback)
	assert.Equal(t, "Chip export curbs widen", res.Title)
	assert.Contains(t, gotPrompt, `"Semiconductors"`)
	assert.Equal(t, 1, strings.Count(gotPrompt, "US widens chip curbs"))
}

func TestTitleGeneratorFallsBack(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gen := NewSiliconFlowTitleGenerator(siliconFlowConfig(t, srv.URL))
	for range breakerFailureThreshold + 3 {
		res := gen.GenerateTitle(context.Background(), "AI", []string{"a", "b"})
		assert.True(t, res.Fallback)
		assert.Equal(t, "Trending in AI", res.Title)
		assert.Error(t, res.Err)
	}
	// 熔断打开后不再请求上游
	assert.Equal(t, int32(breakerFailureThreshold), hits.Load())
}

func TestTitleGeneratorWithoutAPIKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.SiliconFlow.APIKey = ""
	res := NewSiliconFlowTitleGenerator(cfg).GenerateTitle(context.Background(), "Climate", nil)
	assert.True(t, res.Fallback)
	assert.Equal(t, "Trending in Climate", res.Title)
}

func TestTitleGeneratorEmptyReplyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"  \n "}}]}`))
	}))
	defer srv.Close()

	res := NewSiliconFlowTitleGenerator(siliconFlowConfig(t, srv.URL)).GenerateTitle(context.Background(), "AI", []string{"a"})
	assert.True(t, res.Fallback)
}

func TestEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-embed", req.Model)
		assert.Equal(t, "chip curbs", req.Input)
		w.Write([]byte(`{"model":"test-embed","data":[{"index":0,"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	vec, err := NewSiliconFlowEmbedder(siliconFlowConfig(t, srv.URL)).Embed(context.Background(), "chip curbs")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := NewSiliconFlowEmbedder(siliconFlowConfig(t, srv.URL)).Embed(context.Background(), "q")
	assert.Error(t, err)

	cfg := testConfig(t)
	_, err = NewSiliconFlowEmbedder(cfg).Embed(context.Background(), "q")
	assert.ErrorIs(t, err, errSemanticUnavailable)
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("SPROUT_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", resolveAPIKey("${SPROUT_TEST_KEY}"))
	assert.Equal(t, "plain", resolveAPIKey("plain"))
}
