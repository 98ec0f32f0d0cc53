package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"text2speech/internal/export"

	"go.uber.org/zap"
)

// ArtifactStore часть хранилища, нужная джобе очистки
type ArtifactStore interface {
	List() ([]export.Artifact, error)
	Remove(name string) error
}

// RemovalRecorder учитывает удаленные файлы в метриках
type RemovalRecorder interface {
	RecordArtifactsRemoved(reason string, count int)
}

// RetentionJob удаляет аудио файлы старше maxAge
type RetentionJob struct {
	store    ArtifactStore
	recorder RemovalRecorder
	maxAge   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewRetentionJob создает джобу очистки старых файлов
func NewRetentionJob(store ArtifactStore, recorder RemovalRecorder, maxAge time.Duration, logger *zap.Logger) *RetentionJob {
	return &RetentionJob{
		store:    store,
		recorder: recorder,
		maxAge:   maxAge,
		logger:   logger,
		now:      time.Now,
	}
}

// Run удаляет устаревшие файлы. Отсутствие директории не считается ошибкой.
func (j *RetentionJob) Run(ctx context.Context) error {
	artifacts, err := j.store.List()
	if err != nil {
		if errors.Is(err, export.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("ошибка получения списка файлов: %w", err)
	}

	deadline := j.now().Add(-j.maxAge)
	removed := 0
	for _, artifact := range artifacts {
		if ctx.Err() != nil {
			break
		}
		if !artifact.ModTime.Before(deadline) {
			continue
		}
		if err := j.store.Remove(artifact.Name); err != nil {
			if errors.Is(err, export.ErrNotFound) {
				continue
			}
			j.recorder.RecordArtifactsRemoved("retention", removed)
			return fmt.Errorf("ошибка удаления %s: %w", artifact.Name, err)
		}
		removed++
	}

	j.recorder.RecordArtifactsRemoved("retention", removed)
	if removed > 0 {
		j.logger.Info("удалены устаревшие аудио файлы",
			zap.Int("removed", removed),
			zap.Duration("max_age", j.maxAge))
	}
	return nil
}
