package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jwulff/campuscast/internal/console"
	"github.com/jwulff/campuscast/internal/logger"
	"github.com/jwulff/campuscast/internal/state"
	"github.com/jwulff/campuscast/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	b := memory.NewHub().Open()
	t.Cleanup(func() { _ = b.Close() })

	store := state.New(b, logger.NewTestLogger())
	svc := console.New(store, nil, console.Config{}, logger.NewTestLogger())
	return NewRouter(svc, logger.NewTestLogger())
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(w.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func login(t *testing.T, r *gin.Engine) {
	t.Helper()
	code, _ := do(t, r, http.MethodPost, "/api/login", map[string]string{"passphrase": console.DefaultPassphrase})
	require.Equal(t, http.StatusOK, code)
}

func TestHealthz(t *testing.T) {
	code, _ := do(t, newTestRouter(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequiresSession(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, http.StatusUnauthorized, env.Code)

	code, _ = do(t, r, http.MethodPost, "/api/notices", map[string]any{"text": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginFlow(t *testing.T) {
	r := newTestRouter(t)

	code, _ := do(t, r, http.MethodPost, "/api/login", map[string]string{"passphrase": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, r, http.MethodPost, "/api/login", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)

	login(t, r)

	code, env := do(t, r, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"isAuthenticated":true,"name":"Campus Admin"}`, string(env.Data))

	code, _ = do(t, r, http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"isAuthenticated":false,"name":""}`, string(env.Data))
}

func TestStats(t *testing.T) {
	r := newTestRouter(t)
	login(t, r)

	code, env := do(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, code)

	var st console.Stats
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, 5, st.Devices)
	assert.Equal(t, 1, st.UrgentNotices)
}

func TestContentEndpoints(t *testing.T) {
	r := newTestRouter(t)
	login(t, r)

	code, env := do(t, r, http.MethodPost, "/api/content", map[string]any{
		"kind":     "TEXT",
		"title":    "Exams",
		"payload":  "Finals start Monday",
		"priority": "URGENT",
	})
	require.Equal(t, http.StatusCreated, code)

	var item struct {
		ID              string `json:"id"`
		DurationSeconds int    `json:"durationSeconds"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 10, item.DurationSeconds)

	code, env = do(t, r, http.MethodGet, "/api/content", nil)
	require.Equal(t, http.StatusOK, code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 4)
	assert.Equal(t, item.ID, items[0]["id"])

	code, _ = do(t, r, http.MethodPost, "/api/content", map[string]any{"title": "no payload"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, http.MethodDelete, "/api/content/"+item.ID, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, http.MethodDelete, "/api/content/"+item.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNoticeEndpoints(t *testing.T) {
	r := newTestRouter(t)
	login(t, r)

	code, _ := do(t, r, http.MethodPost, "/api/notices", map[string]any{"text": ""})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := do(t, r, http.MethodPost, "/api/notices/n-2/toggle", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"id":"n-2","text":"Chess Club meeting in Room 102 at 4 PM.","active":false,"urgent":false}`, string(env.Data))

	code, _ = do(t, r, http.MethodPost, "/api/notices/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, http.MethodDelete, "/api/notices/n-1", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/api/notices", nil)
	require.Equal(t, http.StatusOK, code)
	var notices []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &notices))
	assert.Len(t, notices, 1)
}

func TestDeviceEndpoints(t *testing.T) {
	r := newTestRouter(t)
	login(t, r)

	code, _ := do(t, r, http.MethodPost, "/api/devices", map[string]any{
		"id": "tv-401", "name": "Gym", "location": "Sports Hall", "group": "COMMON_AREA",
	})
	assert.Equal(t, http.StatusCreated, code)

	code, _ = do(t, r, http.MethodPut, "/api/devices/tv-401/group", map[string]any{"group": "OFFICE"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, http.MethodPut, "/api/devices/tv-401/group", map[string]any{"group": "ROOF"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, http.MethodPut, "/api/devices/tv-999/group", map[string]any{"group": "OFFICE"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env := do(t, r, http.MethodGet, "/api/devices", nil)
	require.Equal(t, http.StatusOK, code)
	var devices []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &devices))
	assert.Len(t, devices, 6)
}

func TestAssistFallsBackWithoutAssistant(t *testing.T) {
	r := newTestRouter(t)
	login(t, r)

	code, env := do(t, r, http.MethodPost, "/api/assist/notice", map[string]any{"topic": "fire drill", "tone": "urgent"})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"text":"fire drill"}`, string(env.Data))

	code, env = do(t, r, http.MethodPost, "/api/assist/refine", map[string]any{"text": "hello"})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"text":"hello"}`, string(env.Data))
}
