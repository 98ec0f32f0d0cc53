package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics содержит все метрики приложения
type Metrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// Счетчики
	httpRequests     *prometheus.CounterVec
	engineRequests   *prometheus.CounterVec
	artifactsRemoved *prometheus.CounterVec

	// Гистограммы
	httpDuration   *prometheus.HistogramVec
	engineDuration *prometheus.HistogramVec
	audioDuration  prometheus.Histogram

	// Gauge метрики
	lastConversion prometheus.Gauge
}

// New создает новый экземпляр метрик в собственном реестре
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger:   logger,
		registry: prometheus.NewRegistry(),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Общее количество HTTP запросов",
			},
			[]string{"route", "method", "status"},
		),

		engineRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_engine_requests_total",
				Help: "Общее количество обращений к движку синтеза",
			},
			[]string{"engine", "op", "status"}, // op: voices, export; status: success, failed
		),

		artifactsRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_artifacts_removed_total",
				Help: "Количество удаленных аудио файлов",
			},
			[]string{"reason"}, // download, delete, retention
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Время обработки HTTP запроса в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		engineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tts_engine_duration_seconds",
				Help:    "Время ответа движка синтеза в секундах",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"engine", "op"},
		),

		audioDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tts_audio_duration_seconds",
				Help:    "Длительность сгенерированного аудио",
				Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
			},
		),

		lastConversion: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tts_last_conversion_timestamp_seconds",
				Help: "Timestamp последней успешной конвертации",
			},
		),
	}

	// Регистрируем все метрики
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.engineRequests,
		m.artifactsRemoved,
		m.httpDuration,
		m.engineDuration,
		m.audioDuration,
		m.lastConversion,
	)

	return m
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest записывает обработанный HTTP запрос
func (m *Metrics) RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordEngineCall записывает обращение к движку синтеза
func (m *Metrics) RecordEngineCall(engine, op string, success bool, elapsed time.Duration) {
	status := "success"
	if !success {
		status = "failed"
	}

	m.engineRequests.WithLabelValues(engine, op, status).Inc()
	m.engineDuration.WithLabelValues(engine, op).Observe(elapsed.Seconds())

	if success && op == "export" {
		m.lastConversion.SetToCurrentTime()
	}
}

// RecordArtifactsRemoved записывает удаление файлов
func (m *Metrics) RecordArtifactsRemoved(reason string, count int) {
	if count <= 0 {
		return
	}
	m.artifactsRemoved.WithLabelValues(reason).Add(float64(count))
	m.logger.Debug("метрика удаления обновлена", zap.String("reason", reason), zap.Int("count", count))
}

// RecordAudioDuration записывает длительность сгенерированного аудио
func (m *Metrics) RecordAudioDuration(d time.Duration) {
	m.audioDuration.Observe(d.Seconds())
}

// Handler возвращает HTTP handler для метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
