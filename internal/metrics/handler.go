package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck проверка одной зависимости сервиса
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type healthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Handler отдает метрики и состояние сервиса на отдельном порту
type Handler struct {
	metrics *Metrics
	logger  *zap.Logger
	checks  []HealthCheck
}

func NewHandler(metrics *Metrics, logger *zap.Logger, checks ...HealthCheck) *Handler {
	return &Handler{
		metrics: metrics,
		logger:  logger,
		checks:  checks,
	}
}

// HealthHandler выполняет проверки и отвечает 503, если хотя бы одна не прошла
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Service: "text2speech"}
	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.logger.Warn("проверка состояния не пройдена",
				zap.String("check", check.Name),
				zap.Error(err))
			resp.Checks[check.Name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[check.Name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Warn("ошибка записи ответа health", zap.Error(err))
	}
}

// Mux возвращает роутер сервера метрик: /metrics и /health
func (h *Handler) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h.metrics.Handler())
	mux.HandleFunc("/health", h.HealthHandler)
	return mux
}
