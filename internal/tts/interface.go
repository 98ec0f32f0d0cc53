package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Операции движка, попадающие в текст ошибки
const (
	OpListVoices = "fetching installed voices"
	OpExport     = "exporting text to speech"
)

// Engine представляет внешний движок синтеза речи
type Engine interface {
	// ListVoices возвращает установленные голоса без изменений
	ListVoices(ctx context.Context) ([]string, error)

	// Export озвучивает текст и сохраняет аудио в outputPath
	Export(ctx context.Context, text, voice string, speed float64, outputPath string) error

	// Name возвращает название движка
	Name() string
}

// EngineError ошибка внешнего движка синтеза
type EngineError struct {
	Engine string
	Op     string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Engine, e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func engineError(engine, op string, err error) error {
	return &EngineError{Engine: engine, Op: op, Err: err}
}

// commandRunner запускает внешнюю команду и возвращает stdout
type commandRunner func(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)

// runCommand запускает команду, при ошибке добавляет stderr в текст ошибки
func runCommand(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ошибка выполнения %s: %w, stderr: %s", name, err, stderr.String())
	}

	return stdout.Bytes(), nil
}
