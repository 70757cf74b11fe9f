package process_reminders

import (
	"context"
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListDueReminders получает подтвержденные записи, попавшие в окно
	// напоминаний; в транзакции строки блокируются FOR UPDATE SKIP LOCKED
	ListDueReminders(ctx context.Context, now time.Time, reminderHours int, limit int) ([]*domain.Appointment, error)
	// MarkReminderSent отмечает напоминание отправленным; false, если оно
	// уже было отмечено конкурентно
	MarkReminderSent(ctx context.Context, id int64, at time.Time) (bool, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetSettings(ctx context.Context) (*domain.ScheduleSettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс для публикации доменных событий
type EventPublisher interface {
	Publish(event domain.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
