package create_blackout

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/internal/service/schedule/models"
)

// CreateBlackoutRequest тело запроса на блокировку даты
type CreateBlackoutRequest struct {
	Date   string `json:"date"` // "2025-10-15"
	Reason string `json:"reason,omitempty"`
	Type   string `json:"type,omitempty"` // unavailable, vacation, holiday
}

// ToServiceRequest конвертирует HTTP запрос в сервисную модель
func (r *CreateBlackoutRequest) ToServiceRequest() (*models.CreateBlackoutRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	return &models.CreateBlackoutRequest{
		Date:   date,
		Reason: r.Reason,
		Type:   r.Type,
	}, nil
}
