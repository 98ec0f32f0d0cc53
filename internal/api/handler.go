package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"text2speech/internal/audio"
	"text2speech/internal/export"
	"text2speech/internal/tts"
	"text2speech/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Тексты ответов
const (
	msgConverted = "Text converted to speech and saved as MP3"
	msgDeleted   = "All files in export directory deleted successfully"

	errVoices          = "An error occurred while fetching installed voices"
	errExport          = "An error occurred while exporting text to speech"
	errConvert         = "An error occurred while processing the request"
	errInvalidBody     = "Invalid JSON body"
	errFileNotFound    = "File not found"
	errDownload        = "An error occurred while downloading the file"
	errExportDirAbsent = "Export directory not found"
	errDelete          = "An error occurred while deleting files"
	errEndpoint        = "Endpoint not found"
)

// Recorder собирает метрики обработчиков
type Recorder interface {
	RecordHTTPRequest(route, method string, status int, elapsed time.Duration)
	RecordEngineCall(engine, op string, success bool, elapsed time.Duration)
	RecordArtifactsRemoved(reason string, count int)
	RecordAudioDuration(d time.Duration)
}

// Options параметры обработчиков
type Options struct {
	DefaultVoice  string
	DefaultSpeed  float64
	EngineTimeout time.Duration
	DownloadURL   func(fileName string) string
}

// Handler обрабатывает HTTP запросы API
type Handler struct {
	engine   tts.Engine
	store    export.Store
	recorder Recorder
	opts     Options
	logger   *zap.Logger
}

// NewHandler создает новый обработчик API
func NewHandler(engine tts.Engine, store export.Store, recorder Recorder, opts Options, logger *zap.Logger) *Handler {
	return &Handler{
		engine:   engine,
		store:    store,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
	}
}

// Router возвращает gin роутер со всеми маршрутами API
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(requestID(), accessLog(h.logger, h.recorder), gin.Recovery())

	api := router.Group("/api")
	api.GET("/voices", h.ListVoices)
	api.POST("/convert", h.Convert)
	api.GET("/download/:fileName", h.Download)
	api.DELETE("/delete", h.DeleteAll)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: errEndpoint})
	})

	return router
}

// ListVoices возвращает установленные голоса движка
func (h *Handler) ListVoices(c *gin.Context) {
	ctx, cancel := h.engineContext(c.Request.Context())
	defer cancel()

	start := time.Now()
	voices, err := h.engine.ListVoices(ctx)
	h.recorder.RecordEngineCall(h.engine.Name(), "voices", err == nil, time.Since(start))
	if err != nil {
		h.log(c).Error("ошибка получения списка голосов", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errVoices})
		return
	}

	if voices == nil {
		voices = []string{}
	}
	c.JSON(http.StatusOK, models.VoicesResponse{Status: true, VoiceName: voices})
}

// Convert озвучивает текст и сохраняет его в новый файл
func (h *Handler) Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log(c).Warn("некорректное тело запроса", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: errInvalidBody})
		return
	}
	req = req.WithDefaults(h.opts.DefaultVoice, h.opts.DefaultSpeed)

	ctx, cancel := h.engineContext(c.Request.Context())
	defer cancel()

	fileName, err := h.store.Write(ctx, func(ctx context.Context, path string) error {
		start := time.Now()
		exportErr := h.engine.Export(ctx, req.Text, req.VoiceName, req.Speed, path)
		h.recorder.RecordEngineCall(h.engine.Name(), "export", exportErr == nil, time.Since(start))
		return exportErr
	})
	if err != nil {
		var engineErr *tts.EngineError
		if errors.As(err, &engineErr) {
			h.log(c).Error("ошибка синтеза речи", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errExport})
			return
		}
		h.log(c).Error("ошибка конвертации текста", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: errConvert})
		return
	}

	h.observeArtifact(c, fileName)

	c.JSON(http.StatusOK, models.ConvertResponse{
		Message: msgConverted,
		FileURL: h.opts.DownloadURL(fileName),
	})
}

// Download удаляет все остальные файлы и отдает запрошенный как вложение
func (h *Handler) Download(c *gin.Context) {
	fileName := c.Param("fileName")

	removed, err := h.store.PruneExcept(fileName)
	h.recorder.RecordArtifactsRemoved("download", removed)
	if err != nil {
		h.storeError(c, err, errFileNotFound, errDownload, "ошибка скачивания файла")
		return
	}

	path, err := h.store.Path(fileName)
	if err != nil {
		// файл мог удалить параллельный запрос
		h.storeError(c, err, errFileNotFound, errDownload, "ошибка скачивания файла")
		return
	}

	c.FileAttachment(path, fileName)
}

// DeleteAll удаляет все файлы из директории экспорта
func (h *Handler) DeleteAll(c *gin.Context) {
	removed, err := h.store.ClearAll()
	h.recorder.RecordArtifactsRemoved("delete", removed)
	if err != nil {
		h.storeError(c, err, errExportDirAbsent, errDelete, "ошибка удаления файлов")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: msgDeleted})
}

// storeError переводит ошибку хранилища в 404 или 500
func (h *Handler) storeError(c *gin.Context, err error, notFoundMsg, internalMsg, logMsg string) {
	if errors.Is(err, export.ErrNotFound) {
		h.log(c).Info(logMsg, zap.Error(err))
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: notFoundMsg})
		return
	}
	h.log(c).Error(logMsg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: internalMsg})
}

// observeArtifact записывает длительность аудио, если файл является MP3
func (h *Handler) observeArtifact(c *gin.Context, fileName string) {
	path, err := h.store.Path(fileName)
	if err != nil {
		return
	}
	info, err := audio.Probe(path)
	if err != nil {
		h.log(c).Debug("не удалось определить длительность аудио",
			zap.String("file", fileName), zap.Error(err))
		return
	}
	h.recorder.RecordAudioDuration(info.Duration)
	h.log(c).Info("🎵 аудио сохранено",
		zap.String("file", fileName),
		zap.Duration("duration", info.Duration))
}

// engineContext отвязывает вызов движка от отмены клиентом:
// начатая операция доводится до конца. Таймаут задается только конфигурацией.
func (h *Handler) engineContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if h.opts.EngineTimeout > 0 {
		return context.WithTimeout(ctx, h.opts.EngineTimeout)
	}
	return ctx, func() {}
}

func (h *Handler) log(c *gin.Context) *zap.Logger {
	return h.logger.With(zap.String("request_id", c.GetString(requestIDKey)))
}
