package tts

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// FestivalService предоставляет функциональность Text-to-Speech через Festival
type FestivalService struct {
	logger *zap.Logger
	run    commandRunner
}

// NewFestivalService создает новый Festival TTS сервис
func NewFestivalService(logger *zap.Logger) *FestivalService {
	return &FestivalService{
		logger: logger,
		run:    runCommand,
	}
}

func (s *FestivalService) Name() string {
	return "festival"
}

// ListVoices возвращает голоса из (voice.list)
func (s *FestivalService) ListVoices(ctx context.Context) ([]string, error) {
	output, err := s.run(ctx, strings.NewReader("(print (voice.list))\n"), "festival", "--pipe")
	if err != nil {
		return nil, engineError(s.Name(), OpListVoices, err)
	}

	return parseFestivalList(string(output)), nil
}

// Export генерирует аудио через text2wave
func (s *FestivalService) Export(ctx context.Context, text, voice string, speed float64, outputPath string) error {
	// Создаем временный файл для текста
	textFile, err := s.writeTextFile(text)
	if err != nil {
		return engineError(s.Name(), OpExport, fmt.Errorf("ошибка записи текста: %w", err))
	}
	defer s.cleanupFile(textFile)

	s.logger.Info("🎵 генерируем аудио через Festival",
		zap.String("voice", voice),
		zap.Float64("speed", speed),
		zap.Int("text_length", len(text)))

	_, err = s.run(ctx, nil, "text2wave",
		"-eval", fmt.Sprintf("(%s)", festivalVoice(voice)),
		"-eval", fmt.Sprintf("(Parameter.set 'Duration_Stretch %s)", durationStretch(speed)),
		textFile, "-o", outputPath)
	if err != nil {
		return engineError(s.Name(), OpExport, err)
	}

	return nil
}

// festivalVoice приводит имя голоса к функции festival: kal_diphone -> voice_kal_diphone
func festivalVoice(voice string) string {
	if strings.HasPrefix(voice, "voice_") {
		return voice
	}
	return "voice_" + voice
}

// durationStretch переводит множитель скорости в растяжение длительности.
// Скорость не проверяется, некорректное значение отклонит сам festival.
func durationStretch(speed float64) string {
	if speed == 0 {
		return "0"
	}
	return strconv.FormatFloat(1/speed, 'f', 3, 64)
}

// parseFestivalList разбирает s-выражение вида "(kal_diphone rab_diphone)"
func parseFestivalList(output string) []string {
	output = strings.TrimSpace(output)
	if i := strings.LastIndex(output, "("); i >= 0 {
		output = output[i+1:]
	}
	output = strings.TrimRight(output, ")\n ")

	return strings.Fields(output)
}

// writeTextFile записывает текст во временный файл
func (s *FestivalService) writeTextFile(text string) (string, error) {
	file, err := os.CreateTemp("", "festival_text_*.txt")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(text); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

// cleanupFile удаляет временный файл
func (s *FestivalService) cleanupFile(filename string) {
	if err := os.Remove(filename); err != nil {
		s.logger.Warn("ошибка удаления временного файла",
			zap.String("filename", filename),
			zap.Error(err))
	}
}

var _ Engine = (*FestivalService)(nil)
