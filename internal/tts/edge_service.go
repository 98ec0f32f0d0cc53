package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"
	"go.uber.org/zap"
)

// edgeVoices голоса Microsoft Edge TTS, которые отдаются в /api/voices
var edgeVoices = []string{
	"en-US-AriaNeural",
	"en-US-GuyNeural",
	"en-US-JennyNeural",
	"en-GB-RyanNeural",
	"en-GB-SoniaNeural",
	"ru-RU-DmitryNeural",
	"ru-RU-SvetlanaNeural",
}

var errEdgeNoAudio = errors.New("не получено аудио данных")

// edgeStream открывает поток сообщений Edge TTS для текста и голоса
type edgeStream func(text, voice string) (<-chan map[string]interface{}, error)

// EdgeService синтезирует речь через Microsoft Edge TTS и сохраняет MP3 как есть
type EdgeService struct {
	logger *zap.Logger
	stream edgeStream
}

// NewEdgeService создает новый Edge TTS сервис
func NewEdgeService(logger *zap.Logger) *EdgeService {
	return &EdgeService{
		logger: logger,
		stream: openEdgeStream,
	}
}

func openEdgeStream(text, voice string) (<-chan map[string]interface{}, error) {
	comm, err := edge.NewCommunicate(text, edge.WithVoice(voice))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	ch, err := comm.Stream()
	if err != nil {
		return nil, fmt.Errorf("ошибка запуска потока: %w", err)
	}
	return ch, nil
}

func (s *EdgeService) Name() string {
	return "edge"
}

// ListVoices возвращает фиксированный каталог голосов
func (s *EdgeService) ListVoices(_ context.Context) ([]string, error) {
	voices := make([]string, len(edgeVoices))
	copy(voices, edgeVoices)
	return voices, nil
}

// Export получает MP3 поток от Edge TTS и записывает его в outputPath.
// Скорость этим движком не поддерживается и только логируется.
func (s *EdgeService) Export(ctx context.Context, text, voice string, speed float64, outputPath string) error {
	s.logger.Info("🎵 генерируем аудио через Edge TTS",
		zap.String("voice", voice),
		zap.Float64("speed", speed),
		zap.Int("text_length", len(text)))

	ch, err := s.stream(text, voice)
	if err != nil {
		return engineError(s.Name(), OpExport, err)
	}

	var mp3Buf bytes.Buffer
receive:
	for {
		select {
		case <-ctx.Done():
			// Поток пишет в небуферизованный канал: дочитываем его,
			// иначе горутина edge-tts-go и websocket останутся висеть
			go drainEdgeStream(ch)
			return engineError(s.Name(), OpExport, ctx.Err())
		case msg, ok := <-ch:
			if !ok {
				break receive
			}
			if msgType, ok := msg["type"].(string); ok && msgType == "audio" {
				if data, ok := msg["data"].([]byte); ok {
					mp3Buf.Write(data)
				}
			}
		}
	}

	if mp3Buf.Len() == 0 {
		return engineError(s.Name(), OpExport, errEdgeNoAudio)
	}

	if err := os.WriteFile(outputPath, mp3Buf.Bytes(), 0644); err != nil {
		return engineError(s.Name(), OpExport, fmt.Errorf("ошибка записи файла: %w", err))
	}

	s.logger.Debug("Edge TTS: записан MP3",
		zap.String("path", outputPath),
		zap.Int("bytes", mp3Buf.Len()))

	return nil
}

func drainEdgeStream(ch <-chan map[string]interface{}) {
	for range ch {
	}
}

var _ Engine = (*EdgeService)(nil)
