package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/handler"
	"tasklist/store"
)

func newServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	now := func() time.Time { return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC) }
	s := store.New(store.WithClock(now))
	h := handler.NewHandler(s, handler.WithLocation(time.UTC), handler.WithClock(now))

	srv := httptest.NewServer(SetupRoutes(h))
	t.Cleanup(srv.Close)
	return srv, s
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes_TaskLifecycle(t *testing.T) {
	srv, s := newServer(t)
	base := srv.URL + "/api/v1/tasks"

	resp := do(t, http.MethodPost, base, `{"text":"A","due_date":"2024-03-10"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, http.MethodPost, base, `{"text":"B","due_date":"2024-03-12"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/1/toggle", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPut, base+"/0", `{"text":"A2","due_date":"2024-03-11"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, base+"?filter=completed", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			Tasks []struct {
				Index int `json:"index"`
				Task  struct {
					Text string `json:"text"`
				} `json:"task"`
			} `json:"tasks"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data.Tasks, 1)
	assert.Equal(t, 1, out.Data.Tasks[0].Index)
	assert.Equal(t, "B", out.Data.Tasks[0].Task.Text)

	resp = do(t, http.MethodDelete, base+"/0", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, s.Len())

	resp = do(t, http.MethodDelete, base+"/5", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, s.Len())
}

func TestRoutes_LegacyAliasAndStats(t *testing.T) {
	srv, s := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/tasks", `{"text":"A","due_date":"2024-03-10"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, s.Len())

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/tasks/stats", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutes_CORSPreflight(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodOptions, srv.URL+"/api/v1/tasks/0", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRoutes_Health(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutes_ActivityWithoutJournal(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/activity", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecoverMiddleware(t *testing.T) {
	h := chain(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}, recoverMiddleware)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
