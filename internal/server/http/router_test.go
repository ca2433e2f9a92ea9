package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmad2b/cogniserve/internal/runtime/runtimetest"
)

func getJSON(t *testing.T, engine http.Handler, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestHealthEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t, &runtimetest.Runner{})

	var body map[string]any
	code := getJSON(t, engine, "/health", &body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "cogniserve-test", body["service"])
	assert.Equal(t, []any{"assistant"}, body["agents"])
	assert.Equal(t, float64(1), body["total_agents"])
}

func TestAgentDirectory(t *testing.T) {
	engine, _ := newTestRouter(t, &runtimetest.Runner{})

	var body struct {
		Agents []struct {
			Name      string            `json:"name"`
			Endpoints map[string]string `json:"endpoints"`
		} `json:"agents"`
	}
	code := getJSON(t, engine, "/agents", &body)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body.Agents, 1)
	assert.Equal(t, "assistant", body.Agents[0].Name)
	assert.Equal(t, "/assistant/stream", body.Agents[0].Endpoints["stream"])

	// The root route serves the same directory alongside the service name.
	var root map[string]any
	code = getJSON(t, engine, "/", &root)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cogniserve-test", root["service"])
}

func TestMetricsEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t, &runtimetest.Runner{})
	code := getJSON(t, engine, "/metrics", nil)
	assert.Equal(t, http.StatusOK, code)
}
