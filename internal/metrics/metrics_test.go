package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetrics(t *testing.T) {
	logger := zap.NewNop()
	m := New(logger)

	m.RecordHTTPRequest("/api/voices", http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.RecordEngineCall("say", "export", true, time.Second)
	m.RecordEngineCall("say", "voices", false, time.Second)
	m.RecordArtifactsRemoved("download", 2)
	m.RecordArtifactsRemoved("delete", 0)
	m.RecordAudioDuration(3 * time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/voices", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.engineRequests.WithLabelValues("say", "voices", "failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.artifactsRemoved.WithLabelValues("download")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.artifactsRemoved.WithLabelValues("delete")))
	assert.Greater(t, testutil.ToFloat64(m.lastConversion), 0.0)
}

func TestNew_IndependentRegistries(t *testing.T) {
	// Повторное создание не должно паниковать из-за двойной регистрации
	assert.NotPanics(t, func() {
		New(zap.NewNop())
		New(zap.NewNop())
	})
}

func TestHandlerMux(t *testing.T) {
	h := NewHandler(New(zap.NewNop()), zap.NewNop())
	mux := h.Mux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"text2speech"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestHealthHandler_Checks(t *testing.T) {
	ok := HealthCheck{Name: "export_dir", Check: func(context.Context) error { return nil }}
	broken := HealthCheck{Name: "engine", Check: func(context.Context) error { return errors.New("say not installed") }}

	rec := httptest.NewRecorder()
	NewHandler(New(zap.NewNop()), zap.NewNop(), ok).Mux().
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"text2speech","checks":{"export_dir":"ok"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHandler(New(zap.NewNop()), zap.NewNop(), ok, broken).Mux().
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","service":"text2speech","checks":{"export_dir":"ok","engine":"say not installed"}}`, rec.Body.String())
}
