package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// bytesPerFrame go-mp3 всегда декодирует в 16-bit стерео
const bytesPerFrame = 4

// Info содержит параметры MP3 файла
type Info struct {
	SampleRate int
	Duration   time.Duration
}

// Probe декодирует заголовки MP3 и вычисляет длительность.
// Файлы в другом формате (например PCM от say) возвращают ошибку:
// go-mp3 может паниковать на произвольных байтах, паника переводится в ошибку.
func Probe(path string) (info *Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			info = nil
			err = fmt.Errorf("ошибка декодирования MP3: %v", r)
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия аудио файла: %w", err)
	}
	defer file.Close()

	decoder, err := mp3.NewDecoder(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}

	sampleRate := decoder.SampleRate()
	length := decoder.Length()
	if sampleRate <= 0 || length < 0 {
		return nil, fmt.Errorf("не удалось определить длительность MP3")
	}

	frames := length / bytesPerFrame
	duration := time.Duration(frames) * time.Second / time.Duration(sampleRate)

	return &Info{
		SampleRate: sampleRate,
		Duration:   duration,
	}, nil
}
