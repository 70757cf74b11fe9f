package get_availability

import (
	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	getAvailability "github.com/m04kA/LBS-SchedulingService/internal/usecase/get_availability"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime string `json:"startTime"` // "10:00"
	Available bool   `json:"available"`
}

// AvailabilityResponse HTTP модель ответа с доступностью на дату
type AvailabilityResponse struct {
	Date            string         `json:"date"` // "2025-10-15"
	ServiceID       int64          `json:"serviceId"`
	AddOnIDs        []int64        `json:"addOnIds,omitempty"`
	DurationMinutes int            `json:"durationMinutes"`
	Open            bool           `json:"open"`
	ClosedReason    *string        `json:"closedReason,omitempty"`
	Slots           []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: slot.StartTime.String(),
			Available: slot.Available,
		})
	}

	return &AvailabilityResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ServiceID:       resp.ServiceID,
		AddOnIDs:        resp.AddOnIDs,
		DurationMinutes: resp.DurationMinutes,
		Open:            resp.Open,
		ClosedReason:    resp.ClosedReason,
		Slots:           slots,
	}
}
