package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/workforce-api/internal/config"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// testConfig returns a valid configuration with seeding and caching on.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 5,
		},
		Store: config.StoreConfig{Seed: true},
		Cache: config.CacheConfig{
			Enabled:                true,
			TTLSeconds:             30,
			CleanupIntervalSeconds: 60,
		},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*application, *logger.TestLogBuffer) {
	t.Helper()

	log, buf := logger.GetTestLogger(t)
	app, err := newApplication(context.Background(), cfg, log)
	require.NoError(t, err)
	return app, buf
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// taskView is the subset of a task response the tests look at.
type taskView struct {
	ID         int64  `json:"id"`
	Task       string `json:"task"`
	Status     string `json:"status"`
	AssigneeID int64  `json:"assignee_id"`
	Priority   string `json:"priority"`
	Activities []struct {
		Description string `json:"description"`
	} `json:"activities"`
	Comments []struct {
		Comment string `json:"comment"`
	} `json:"comments"`
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}
