package get_availability

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
)

// Request модель запроса доступности на дату
type Request struct {
	ServiceID int64     // ID услуги
	AddOnIDs  []int64   // ID дополнений (опционально)
	Date      time.Time // Дата, на которую рассчитываются слоты (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time     // Дата, на которую рассчитывались слоты
	ServiceID       int64         // ID услуги
	AddOnIDs        []int64       // ID дополнений
	DurationMinutes int           // Суммарная длительность: услуга + дополнения
	Open            bool          // Открыт ли день вообще
	ClosedReason    *string       // Причина закрытия (blackout), если есть
	Slots           []domain.Slot // Слоты с флагом доступности
}
