package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfig(t *testing.T) {
	// Устанавливаем переменные окружения для теста
	t.Setenv("GCLOUD_PROJECT", "demo-project")
	t.Setenv("TTS_ENGINE", "festival")
	t.Setenv("ENGINE_TIMEOUT", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "demo-project", cfg.Server.ProjectID)
	assert.Equal(t, "festival", cfg.TTS.Engine)
	assert.Equal(t, 45*time.Second, cfg.TTS.Timeout)

	// Проверяем значения по умолчанию
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "web.app", cfg.Server.HostingDomain)
	assert.Equal(t, "export", cfg.Export.Dir)
	assert.Equal(t, "Alex", cfg.TTS.DefaultVoice)
	assert.Equal(t, 1.5, cfg.TTS.DefaultSpeed)
	assert.Equal(t, time.Duration(0), cfg.Retention.MaxAge)
	assert.Equal(t, 10*time.Minute, cfg.Retention.Interval)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestLoadConfig_PortFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoadConfig_UnknownEngine(t *testing.T) {
	t.Setenv("TTS_ENGINE", "espeak")

	_, err := Load()
	assert.Error(t, err)
}

func TestDownloadURL(t *testing.T) {
	cfg := &ServerConfig{ProjectID: "my-proj", HostingDomain: "web.app"}
	assert.Equal(t,
		"https://my-proj.web.app/api/download/text2speech_1.mp3",
		cfg.DownloadURL("text2speech_1.mp3"))

	cfg.PublicBaseURL = "http://localhost:3000/"
	assert.Equal(t,
		"http://localhost:3000/api/download/text2speech_1.mp3",
		cfg.DownloadURL("text2speech_1.mp3"))
}

func TestAppConfigMethods(t *testing.T) {
	cfg := &AppConfig{
		Env:      "development",
		LogLevel: "debug",
	}

	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, zap.DebugLevel, cfg.GetLogLevel().Level())

	cfg.Env = "production"
	cfg.LogLevel = "bogus"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, zap.InfoLevel, cfg.GetLogLevel().Level())
}

func TestValidateConfig(t *testing.T) {
	// Тест с пустыми обязательными полями
	cfg := &Config{}
	assert.Error(t, validateConfig(cfg))

	// Тест с корректной конфигурацией
	cfg = &Config{
		Server: ServerConfig{Port: 3000},
		Export: ExportConfig{Dir: "export"},
		TTS: TTSConfig{
			Engine:       "say",
			DefaultVoice: "Alex",
			DefaultSpeed: 1.5,
		},
	}
	assert.NoError(t, validateConfig(cfg))

	cfg.Retention.MaxAge = time.Hour
	assert.Error(t, validateConfig(cfg))
}
