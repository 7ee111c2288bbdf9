package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprout/config"
	"sprout/db/dbtest"
	"sprout/models"
	"sprout/scheduler"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.InteractionEvent
	err    error
}

func (p *recordingPublisher) PublishInteraction(ev models.InteractionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) published() []models.InteractionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.InteractionEvent(nil), p.events...)
}

func (p *recordingPublisher) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type testServer struct {
	srv *httptest.Server
	pub *recordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dbtest.Open(t)
	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	srv := httptest.NewServer(NewRouter(NewAPI(cfg, nil, nil, pub, scheduler.NewScheduler(cfg, nil))))
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, pub: pub}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(data, &env), string(data))
	return env
}

// seedReader 一个来源、一个话题、一条近期内容，用户 u1 关注该话题
func seedReader(t *testing.T) {
	t.Helper()
	dbtest.Source(t, 1, "Daily Cast", dbtest.Int(60))
	dbtest.Topic(t, 10, "ai")
	dbtest.Link(t, 1, 10, 1.0)
	dbtest.Content(t, 100, 1, "Agents in production", time.Now().Add(-time.Hour), nil)
	dbtest.UserTopic(t, "u1", 10, 1.0)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.CodeSuccess, decode[map[string]string](t, body).Code)

	status, body = ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "sprout_api_requests_total")
}

func TestFeedHandler(t *testing.T) {
	ts := newTestServer(t)
	seedReader(t)

	status, body := ts.do(t, http.MethodGet, "/api/feed/u1?limit=5", "")
	require.Equal(t, http.StatusOK, status, string(body))
	env := decode[[]models.ScoredItem](t, body)
	require.Len(t, env.Data, 1)
	assert.Equal(t, int64(100), env.Data[0].Content.ID)
	assert.InDelta(t, 130.0, env.Data[0].Score, 1e-9)

	status, body = ts.do(t, http.MethodGet, "/api/feed/u1?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeInvalidParams, decode[any](t, body).Code)
}

func TestInteractionHandler(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodPost, "/api/interactions", `{"user_id":"u1","content_id":100,"kind":"save"}`)
	require.Equal(t, http.StatusAccepted, status, string(body))
	events := ts.pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, models.InteractionSave, events[0].Kind)
	assert.Equal(t, int64(100), events[0].ContentID)

	for _, bad := range []string{
		`{"user_id":"u1","content_id":100,"kind":"like"}`,
		`{"user_id":"u1","kind":"read"}`,
		`{"content_id":1,"kind":"read"}`,
		`not json`,
	} {
		status, _ := ts.do(t, http.MethodPost, "/api/interactions", bad)
		assert.Equal(t, http.StatusBadRequest, status, bad)
	}
	assert.Len(t, ts.pub.published(), 1)

	ts.pub.fail(errors.New("bus closed"))
	status, _ = ts.do(t, http.MethodPost, "/api/interactions", `{"user_id":"u1","content_id":100,"kind":"read"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestTopicWeightsHandler(t *testing.T) {
	ts := newTestServer(t)
	seedReader(t)

	status, body := ts.do(t, http.MethodGet, "/api/topics/u1/weights", "")
	require.Equal(t, http.StatusOK, status)
	env := decode[[]models.UserTopic](t, body)
	require.Len(t, env.Data, 1)
	assert.Equal(t, int64(10), env.Data[0].TopicID)

	status, body = ts.do(t, http.MethodGet, "/api/topics/nobody/weights", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.UserTopic](t, body).Data)
}

func TestDigestHandlers(t *testing.T) {
	ts := newTestServer(t)
	seedReader(t)

	status, body := ts.do(t, http.MethodGet, "/api/digest/u1", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNoDigestData, decode[any](t, body).Code)

	status, _ = ts.do(t, http.MethodGet, "/api/digest/u1?date=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = ts.do(t, http.MethodPost, "/api/digest/generate/u1", "")
	require.Equal(t, http.StatusOK, status, string(body))
	res := decode[models.DigestResult](t, body).Data
	assert.True(t, res.Stored)
	assert.Equal(t, []int64{100}, res.ContentIDs)

	status, body = ts.do(t, http.MethodGet, "/api/digest/u1", "")
	require.Equal(t, http.StatusOK, status)
	d := decode[models.Digest](t, body).Data
	assert.Equal(t, []int64{100}, d.ContentIDs)
	assert.Nil(t, d.OpenedAt)

	status, body = ts.do(t, http.MethodPost, "/api/digest/u1/opened", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decode[map[string]any](t, body).Data["updated"])

	status, body = ts.do(t, http.MethodPost, "/api/digest/u1/opened", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, decode[map[string]any](t, body).Data["updated"])

	status, _ = ts.do(t, http.MethodPost, "/api/digest/u2/opened", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = ts.do(t, http.MethodPost, "/api/digest/generate", "")
	require.Equal(t, http.StatusOK, status)
	report := decode[models.DigestRunReport](t, body).Data
	assert.Equal(t, 1, report.Users)
	assert.Equal(t, 1, report.Skipped)
}

func TestThemeHandlers(t *testing.T) {
	ts := newTestServer(t)
	seedReader(t)

	status, body := ts.do(t, http.MethodGet, "/api/themes", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.Theme](t, body).Data)

	status, _ = ts.do(t, http.MethodPost, "/api/themes/detect/999", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, http.MethodGet, "/api/themes?topic_id=x", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = ts.do(t, http.MethodPost, "/api/themes/detect/10", "")
	require.Equal(t, http.StatusOK, status, string(body))
	report := decode[models.ThemeRunReport](t, body).Data
	assert.Equal(t, 0, report.Stored)

	status, body = ts.do(t, http.MethodPost, "/api/themes/detect", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decode[models.ThemeRunReport](t, body).Data.Topics)
}

func TestSearchHandler(t *testing.T) {
	ts := newTestServer(t)
	seedReader(t)

	status, body := ts.do(t, http.MethodGet, "/api/search", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.CodeMissingParams, decode[any](t, body).Code)

	// 未配置向量服务时只返回关键词结果
	status, body = ts.do(t, http.MethodGet, "/api/search?q=agents", "")
	require.Equal(t, http.StatusOK, status, string(body))
	hits := decode[[]models.SearchHit](t, body).Data
	require.Len(t, hits, 1)
	assert.Equal(t, int64(100), hits[0].ContentID)
}

func TestSchedulerStatusHandler(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/api/scheduler/status", "")
	require.Equal(t, http.StatusOK, status)
	tasks := decode[map[string]scheduler.TaskStatus](t, body).Data
	require.Len(t, tasks, 3)
	for _, name := range []string{"theme_detection", "digest", "theme_sweep"} {
		task, ok := tasks[name]
		require.True(t, ok, name)
		assert.False(t, task.IsRunning)
		assert.True(t, task.NextRun.After(time.Now().Add(-time.Minute)), name)
	}
}
