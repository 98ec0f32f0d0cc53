package tts

import (
	"fmt"

	"go.uber.org/zap"
)

// NewEngine создает движок синтеза по названию из конфигурации
func NewEngine(name string, logger *zap.Logger) (Engine, error) {
	switch name {
	case "say":
		return NewSayService(logger), nil
	case "festival":
		return NewFestivalService(logger), nil
	case "edge":
		return NewEdgeService(logger), nil
	default:
		return nil, fmt.Errorf("неподдерживаемый TTS движок: %s. Поддерживаются: 'say', 'festival', 'edge'", name)
	}
}
