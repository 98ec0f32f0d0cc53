// Package export управляет директорией со сгенерированными аудио файлами.
//
// В директории хранится не более одного актуального файла: скачивание
// удаляет все остальные файлы, а новая конвертация просто добавляет файл.
// Операции не синхронизированы между собой, параллельные запросы могут
// удалить файл, только что созданный другим запросом.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	filePrefix    = "text2speech_"
	fileExtension = ".mp3"
)

var (
	// ErrNotFound файл или директория отсутствует
	ErrNotFound = errors.New("not found")
	// ErrIO прочая ошибка файловой системы
	ErrIO = errors.New("filesystem error")
)

// Artifact описывает файл в директории экспорта
type Artifact struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Producer создает файл по указанному пути
type Producer func(ctx context.Context, path string) error

// Store интерфейс для работы с директорией экспорта
type Store interface {
	Ensure() error
	Write(ctx context.Context, produce Producer) (string, error)
	Path(name string) (string, error)
	PruneExcept(keep string) (int, error)
	ClearAll() (int, error)
	List() ([]Artifact, error)
}

// DirStore реализует Store поверх одной директории
type DirStore struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewDirStore создает хранилище в директории dir
func NewDirStore(dir string, logger *zap.Logger) *DirStore {
	return &DirStore{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

// Dir возвращает путь к директории экспорта
func (s *DirStore) Dir() string {
	return s.dir
}

// Ensure создает директорию, если её нет
func (s *DirStore) Ensure() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: создание директории %s: %v", ErrIO, s.dir, err)
	}
	return nil
}

// Write генерирует имя text2speech_<мс>.mp3 и передает путь в produce.
// Уникальность имени держится только на миллисекундах.
func (s *DirStore) Write(ctx context.Context, produce Producer) (string, error) {
	if err := s.Ensure(); err != nil {
		return "", err
	}

	name := ArtifactName(s.now())
	if err := produce(ctx, filepath.Join(s.dir, name)); err != nil {
		return "", err
	}

	s.logger.Debug("создан аудио файл", zap.String("file", name))
	return name, nil
}

// Path возвращает путь к существующему файлу
func (s *DirStore) Path(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s является директорией", ErrNotFound, name)
	}

	return path, nil
}

// PruneExcept удаляет все файлы кроме keep и возвращает их количество.
// Удаление не атомарно: при ошибке часть файлов уже может быть удалена.
func (s *DirStore) PruneExcept(keep string) (int, error) {
	if _, err := s.Path(keep); err != nil {
		return 0, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("%w: чтение директории: %v", ErrIO, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.Name() == keep {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("%w: удаление %s: %v", ErrIO, entry.Name(), err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("удалены старые аудио файлы",
			zap.String("kept", keep),
			zap.Int("removed", removed))
	}
	return removed, nil
}

// ClearAll удаляет все файлы, сама директория остается
func (s *DirStore) ClearAll() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: директория %s", ErrNotFound, s.dir)
		}
		return 0, fmt.Errorf("%w: чтение директории: %v", ErrIO, err)
	}

	removed := 0
	for _, entry := range entries {
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("%w: удаление %s: %v", ErrIO, entry.Name(), err)
		}
		removed++
	}

	s.logger.Info("директория экспорта очищена", zap.Int("removed", removed))
	return removed, nil
}

// List возвращает файлы директории экспорта
func (s *DirStore) List() ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: директория %s", ErrNotFound, s.dir)
		}
		return nil, fmt.Errorf("%w: чтение директории: %v", ErrIO, err)
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// файл мог быть удален параллельным запросом
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return artifacts, nil
}

// Remove удаляет один файл
func (s *DirStore) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("%w: удаление %s: %v", ErrIO, name, err)
	}
	return nil
}

// ArtifactName возвращает имя файла для момента t
func ArtifactName(t time.Time) string {
	return fmt.Sprintf("%s%d%s", filePrefix, t.UnixMilli(), fileExtension)
}

// validName запрещает выход за пределы директории экспорта
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

var _ Store = (*DirStore)(nil)
