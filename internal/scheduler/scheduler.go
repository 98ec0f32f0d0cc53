package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job периодическая задача обслуживания
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc позволяет использовать функцию как Job
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type entry struct {
	name     string
	interval time.Duration
	job      Job
}

// Scheduler запускает каждую задачу в своей горутине с собственным интервалом.
// Первый запуск выполняется сразу при старте.
type Scheduler struct {
	logger  *zap.Logger
	entries []entry
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Every регистрирует задачу name с периодом interval.
// Задачи с неположительным интервалом игнорируются.
func (s *Scheduler) Every(name string, interval time.Duration, job Job) {
	if interval <= 0 {
		s.logger.Warn("задача не добавлена: интервал должен быть положительным",
			zap.String("job", name),
			zap.Duration("interval", interval))
		return
	}
	s.entries = append(s.entries, entry{name: name, interval: interval, job: job})
}

func (s *Scheduler) Len() int {
	return len(s.entries)
}

// Start блокируется до отмены ctx и завершения всех задач
func (s *Scheduler) Start(ctx context.Context) {
	if len(s.entries) == 0 {
		s.logger.Debug("планировщик не запущен: нет задач")
		return
	}

	s.logger.Info("запуск планировщика задач", zap.Int("jobs_count", len(s.entries)))

	var wg sync.WaitGroup
	for _, e := range s.entries {
		wg.Add(1)
		go func(e entry) {
			defer wg.Done()
			s.loop(ctx, e)
		}(e)
	}
	wg.Wait()

	s.logger.Info("планировщик задач остановлен")
}

func (s *Scheduler) loop(ctx context.Context, e entry) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		s.runOnce(ctx, e)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, e entry) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := e.job.Run(ctx)
	log := s.logger.With(zap.String("job", e.name), zap.Duration("elapsed", time.Since(start)))
	if err != nil {
		log.Error("ошибка выполнения задачи", zap.Error(err))
		return
	}
	log.Debug("задача выполнена")
}
