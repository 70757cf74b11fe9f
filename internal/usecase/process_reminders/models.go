package process_reminders

import "github.com/m04kA/LBS-SchedulingService/internal/domain"

// Request модель запроса на обработку партии напоминаний
type Request struct {
	BatchSize int // Максимум напоминаний за один проход
}

// Response модель ответа с обработанными напоминаниями
type Response struct {
	Processed []*domain.Appointment // Записи, по которым отправлено напоминание
	Skipped   int                   // Отмечены конкурентно другим экземпляром
}
