// Package reminder запускает периодическую обработку напоминаний по
// cron-расписанию из конфигурации.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/LBS-SchedulingService/internal/usecase/process_reminders"
)

// Worker фоновый воркер напоминаний
type Worker struct {
	useCase   ProcessRemindersUseCase
	schedule  string
	batchSize int
	logger    Logger

	cron *cron.Cron
}

// NewWorker создает воркер с cron-расписанием, например "@every 15m"
func NewWorker(useCase ProcessRemindersUseCase, schedule string, batchSize int, logger Logger) *Worker {
	return &Worker{
		useCase:   useCase,
		schedule:  schedule,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Start валидирует расписание и запускает воркер
func (w *Worker) Start() error {
	c := cron.New()

	if _, err := c.AddFunc(w.schedule, w.run); err != nil {
		return fmt.Errorf("reminder: invalid schedule %q: %w", w.schedule, err)
	}

	c.Start()
	w.cron = c
	w.logger.Info("Reminder worker started (schedule=%s, batch_size=%d)", w.schedule, w.batchSize)
	return nil
}

// Stop останавливает воркер и дожидается завершения текущей партии
func (w *Worker) Stop() {
	if w.cron == nil {
		return
	}
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("Reminder worker stopped")
}

func (w *Worker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	resp, err := w.useCase.Execute(ctx, &process_reminders.Request{BatchSize: w.batchSize})
	if err != nil {
		w.logger.Error("Reminder worker: batch failed: %v", err)
		return
	}

	if len(resp.Processed) > 0 || resp.Skipped > 0 {
		w.logger.Info("Reminder worker: batch done (processed=%d, skipped=%d)",
			len(resp.Processed), resp.Skipped)
	}
}
