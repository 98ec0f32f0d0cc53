package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"text2speech/internal/api"
	"text2speech/internal/config"
	"text2speech/internal/export"
	"text2speech/internal/logging"
	"text2speech/internal/metrics"
	"text2speech/internal/scheduler"
	"text2speech/internal/tts"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	logger, err := logging.New(&cfg.App)
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("запуск сервиса text2speech",
		zap.String("engine", cfg.TTS.Engine),
		zap.String("export_dir", cfg.Export.Dir))

	if cfg.Server.ProjectID == "" && cfg.Server.PublicBaseURL == "" {
		logger.Warn("GCLOUD_PROJECT не установлен, ссылки на скачивание будут некорректны")
	}

	// Инициализация TTS движка
	engine, err := tts.NewEngine(cfg.TTS.Engine, logger)
	if err != nil {
		logger.Fatal("ошибка создания TTS движка", zap.Error(err))
	}

	store := export.NewDirStore(cfg.Export.Dir, logger)
	metricsSystem := metrics.New(logger)

	handler := api.NewHandler(engine, store, metricsSystem, api.Options{
		DefaultVoice:  cfg.TTS.DefaultVoice,
		DefaultSpeed:  cfg.TTS.DefaultSpeed,
		EngineTimeout: cfg.TTS.Timeout,
		DownloadURL:   cfg.Server.DownloadURL,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if cfg.Server.MetricsPort > 0 {
		exportDirCheck := metrics.HealthCheck{
			Name:  "export_dir",
			Check: func(context.Context) error { return store.Ensure() },
		}
		go startMetricsServer(ctx, cfg.Server.MetricsPort, metrics.NewHandler(metricsSystem, logger, exportDirCheck), logger)
	}

	// Фоновая очистка старых файлов (по умолчанию выключена)
	if cfg.Retention.MaxAge > 0 {
		taskScheduler := scheduler.NewScheduler(logger)
		taskScheduler.Every("retention", cfg.Retention.Interval,
			scheduler.NewRetentionJob(store, metricsSystem, cfg.Retention.MaxAge, logger))
		go taskScheduler.Start(ctx)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("Server is running on port %d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ошибка HTTP сервера", zap.Error(err))
			sigChan <- syscall.SIGTERM
		}
	}()

	// Ожидание сигнала завершения
	<-sigChan
	logger.Info("получен сигнал завершения, начинаем graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке HTTP сервера", zap.Error(err))
	}

	logger.Info("сервис остановлен")
}

// startMetricsServer запускает HTTP сервер для метрик и health check
func startMetricsServer(ctx context.Context, port int, handler *metrics.Handler, logger *zap.Logger) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("HTTP сервер метрик запущен", zap.String("address", server.Addr))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ошибка HTTP сервера метрик", zap.Error(err))
		}
	}()

	// Ожидание сигнала завершения
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при остановке HTTP сервера метрик", zap.Error(err))
	}

	logger.Info("HTTP сервер метрик остановлен")
}
