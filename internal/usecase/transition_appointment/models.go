package transition_appointment

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// Request модель запроса на переход записи по жизненному циклу
type Request struct {
	AppointmentID int64  // Внутренний ID записи
	Event         string // Событие перехода: approve, reject, start, finish, cancel, no_show, reschedule

	// ClientRef заполняется для клиентских запросов: запись должна
	// принадлежать этому клиенту. Для админских запросов остается nil.
	ClientRef *string

	Reason       *string // Причина отмены (cancel, reject)
	ServiceNotes *string // Заметки о выполненной услуге (finish)

	// Поля переноса (reschedule)
	NewDate      *time.Time
	NewStartTime *types.TimeString
}

// Response модель ответа с результатом перехода
type Response struct {
	Appointment *domain.Appointment // Запись после перехода

	// NewAppointment заполняется только для reschedule: новая запись,
	// созданная на перенесенные дату и время
	NewAppointment *domain.Appointment
}
