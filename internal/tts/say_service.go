package tts

import (
	"bufio"
	"bytes"
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// sayBaseRate скорость речи macOS say (слов в минуту) при speed = 1
const sayBaseRate = 175

// sayVoiceLine строка вывода `say -v ?`: "Alex   en_US   # комментарий"
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s{2,}\S+\s+#`)

// SayService предоставляет синтез речи через встроенную команду macOS say
type SayService struct {
	logger *zap.Logger
	run    commandRunner
}

// NewSayService создает новый say сервис
func NewSayService(logger *zap.Logger) *SayService {
	return &SayService{
		logger: logger,
		run:    runCommand,
	}
}

func (s *SayService) Name() string {
	return "say"
}

// ListVoices возвращает голоса из `say -v ?`
func (s *SayService) ListVoices(ctx context.Context) ([]string, error) {
	output, err := s.run(ctx, nil, "say", "-v", "?")
	if err != nil {
		return nil, engineError(s.Name(), OpListVoices, err)
	}

	voices := parseSayVoices(output)
	s.logger.Debug("получен список голосов say", zap.Int("count", len(voices)))

	return voices, nil
}

// Export озвучивает текст в файл. Текст передается через stdin,
// чтобы строки, начинающиеся с "-", не принимались за флаги.
func (s *SayService) Export(ctx context.Context, text, voice string, speed float64, outputPath string) error {
	args := []string{
		"-v", voice,
		"-r", sayRate(speed),
		"-o", outputPath,
		"--data-format=LEF32@32000",
	}

	s.logger.Info("🎵 генерируем аудио через say",
		zap.String("voice", voice),
		zap.Float64("speed", speed),
		zap.Int("text_length", len(text)))

	if _, err := s.run(ctx, strings.NewReader(text), "say", args...); err != nil {
		return engineError(s.Name(), OpExport, err)
	}

	return nil
}

// sayRate переводит множитель скорости в слова в минуту
func sayRate(speed float64) string {
	return strconv.Itoa(int(math.Ceil(sayBaseRate * speed)))
}

func parseSayVoices(output []byte) []string {
	voices := make([]string, 0)
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if m := sayVoiceLine.FindStringSubmatch(line); m != nil {
			voices = append(voices, strings.TrimSpace(m[1]))
			continue
		}
		// Строка без комментария: берем первое поле
		if fields := strings.Fields(line); len(fields) > 0 {
			voices = append(voices, fields[0])
		}
	}
	return voices
}

var _ Engine = (*SayService)(nil)
