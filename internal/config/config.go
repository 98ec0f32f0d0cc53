package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config содержит все конфигурационные параметры приложения
type Config struct {
	Server    ServerConfig
	Export    ExportConfig
	TTS       TTSConfig
	Retention RetentionConfig
	App       AppConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port          int    `env:"PORT" envDefault:"3000"`
	MetricsPort   int    `env:"METRICS_PORT" envDefault:"9090"`
	ProjectID     string `env:"GCLOUD_PROJECT"`
	HostingDomain string `env:"HOSTING_DOMAIN" envDefault:"web.app"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// ExportConfig содержит настройки директории с аудио файлами
type ExportConfig struct {
	Dir string `env:"EXPORT_DIR" envDefault:"export"`
}

// TTSConfig содержит настройки движка синтеза речи
type TTSConfig struct {
	Engine       string        `env:"TTS_ENGINE" envDefault:"say"`
	DefaultVoice string        `env:"DEFAULT_VOICE" envDefault:"Alex"`
	DefaultSpeed float64       `env:"DEFAULT_SPEED" envDefault:"1.5"`
	Timeout      time.Duration `env:"ENGINE_TIMEOUT" envDefault:"0s"`
}

// RetentionConfig настройки фоновой очистки старых файлов
type RetentionConfig struct {
	MaxAge   time.Duration `env:"RETENTION_MAX_AGE" envDefault:"0s"`
	Interval time.Duration `env:"RETENTION_INTERVAL" envDefault:"10m"`
}

type AppConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// Load загружает конфигурацию из переменных окружения и .env
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка чтения переменных окружения: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("некорректный PORT: %d", config.Server.Port)
	}
	if config.Server.MetricsPort < 0 || config.Server.MetricsPort > 65535 {
		return fmt.Errorf("некорректный METRICS_PORT: %d", config.Server.MetricsPort)
	}
	if config.Export.Dir == "" {
		return fmt.Errorf("EXPORT_DIR не установлен")
	}
	switch config.TTS.Engine {
	case "say", "festival", "edge":
	default:
		return fmt.Errorf("поддерживаются только TTS_ENGINE: say, festival, edge")
	}
	if config.TTS.DefaultVoice == "" {
		return fmt.Errorf("DEFAULT_VOICE не установлен")
	}
	if config.TTS.DefaultSpeed <= 0 {
		return fmt.Errorf("DEFAULT_SPEED должен быть положительным")
	}
	if config.TTS.Timeout < 0 {
		return fmt.Errorf("ENGINE_TIMEOUT не может быть отрицательным")
	}
	if config.Retention.MaxAge > 0 && config.Retention.Interval <= 0 {
		return fmt.Errorf("RETENTION_INTERVAL должен быть положительным")
	}

	return nil
}

// DownloadURL возвращает публичную ссылку на скачивание файла
func (c *ServerConfig) DownloadURL(fileName string) string {
	base := strings.TrimRight(c.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.%s", c.ProjectID, c.HostingDomain)
	}
	return base + "/api/download/" + fileName
}

// IsDevelopment проверяет, запущено ли приложение в режиме разработки
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction проверяет, запущено ли приложение в продакшн режиме
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetLogLevel возвращает уровень логирования в формате zap
func (c *AppConfig) GetLogLevel() zap.AtomicLevel {
	switch c.LogLevel {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}
