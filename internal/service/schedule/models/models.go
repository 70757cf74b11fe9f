package models

import (
	"time"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/pkg/types"
)

// Request модели

// UpdateSettingsRequest запрос на обновление политики бронирования
type UpdateSettingsRequest struct {
	CancellationWindowHours int     `json:"cancellationWindowHours"`
	CancellationFeeAmount   float64 `json:"cancellationFeeAmount"`
	BufferMinutes           int     `json:"bufferMinutes"`
	SlotGranularityMinutes  int     `json:"slotGranularityMinutes"`
	MinimumLeadMinutes      int     `json:"minimumLeadMinutes"`
	ReminderHours           int     `json:"reminderHours"`
	AutoConfirmBookings     bool    `json:"autoConfirmBookings"`
}

// ToDomain конвертирует request в domain модель
func (r *UpdateSettingsRequest) ToDomain() *domain.ScheduleSettings {
	return &domain.ScheduleSettings{
		CancellationWindowHours: r.CancellationWindowHours,
		CancellationFeeAmount:   r.CancellationFeeAmount,
		BufferMinutes:           r.BufferMinutes,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		MinimumLeadMinutes:      r.MinimumLeadMinutes,
		ReminderHours:           r.ReminderHours,
		AutoConfirmBookings:     r.AutoConfirmBookings,
	}
}

// UpdateWorkingHoursRequest запрос на обновление расписания одного дня недели
type UpdateWorkingHoursRequest struct {
	Weekday   int    `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`  // "09:00"
	CloseTime string `json:"closeTime,omitempty"` // "18:00"
}

// CreateBlackoutRequest запрос на блокировку даты
type CreateBlackoutRequest struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
	Type   string    `json:"type"` // unavailable, vacation, holiday
}

// Response модели

// SettingsResponse ответ с политикой бронирования
type SettingsResponse struct {
	CancellationWindowHours int     `json:"cancellationWindowHours"`
	CancellationFeeAmount   float64 `json:"cancellationFeeAmount"`
	BufferMinutes           int     `json:"bufferMinutes"`
	SlotGranularityMinutes  int     `json:"slotGranularityMinutes"`
	MinimumLeadMinutes      int     `json:"minimumLeadMinutes"`
	ReminderHours           int     `json:"reminderHours"`
	AutoConfirmBookings     bool    `json:"autoConfirmBookings"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// DayScheduleResponse расписание одного дня недели
type DayScheduleResponse struct {
	IsOpen    bool   `json:"isOpen"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// WeeklyScheduleResponse ответ с недельным расписанием
type WeeklyScheduleResponse struct {
	Monday    DayScheduleResponse `json:"monday"`
	Tuesday   DayScheduleResponse `json:"tuesday"`
	Wednesday DayScheduleResponse `json:"wednesday"`
	Thursday  DayScheduleResponse `json:"thursday"`
	Friday    DayScheduleResponse `json:"friday"`
	Saturday  DayScheduleResponse `json:"saturday"`
	Sunday    DayScheduleResponse `json:"sunday"`
}

// BlackoutResponse ответ с заблокированной датой
type BlackoutResponse struct {
	Date      string    `json:"date"` // "2025-10-15"
	Reason    string    `json:"reason,omitempty"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlackoutListResponse ответ со списком заблокированных дат
type BlackoutListResponse struct {
	Blackouts []BlackoutResponse `json:"blackouts"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.ScheduleSettings) *SettingsResponse {
	if s == nil {
		return nil
	}
	return &SettingsResponse{
		CancellationWindowHours: s.CancellationWindowHours,
		CancellationFeeAmount:   s.CancellationFeeAmount,
		BufferMinutes:           s.BufferMinutes,
		SlotGranularityMinutes:  s.SlotGranularityMinutes,
		MinimumLeadMinutes:      s.MinimumLeadMinutes,
		ReminderHours:           s.ReminderHours,
		AutoConfirmBookings:     s.AutoConfirmBookings,
		UpdatedAt:               s.UpdatedAt,
	}
}

// FromDomainWorkingHours конвертирует недельное расписание в DTO
func FromDomainWorkingHours(w domain.WorkingHours) *WeeklyScheduleResponse {
	return &WeeklyScheduleResponse{
		Monday:    fromDomainDaySchedule(w.Monday),
		Tuesday:   fromDomainDaySchedule(w.Tuesday),
		Wednesday: fromDomainDaySchedule(w.Wednesday),
		Thursday:  fromDomainDaySchedule(w.Thursday),
		Friday:    fromDomainDaySchedule(w.Friday),
		Saturday:  fromDomainDaySchedule(w.Saturday),
		Sunday:    fromDomainDaySchedule(w.Sunday),
	}
}

func fromDomainDaySchedule(d domain.DaySchedule) DayScheduleResponse {
	resp := DayScheduleResponse{IsOpen: d.IsOpen}
	if d.IsOpen {
		resp.OpenTime = d.OpenTime.String()
		resp.CloseTime = d.CloseTime.String()
	}
	return resp
}

// ToDomainDaySchedule конвертирует request в domain модель дня
func (r *UpdateWorkingHoursRequest) ToDomainDaySchedule() (domain.DaySchedule, error) {
	day := domain.DaySchedule{IsOpen: r.IsOpen}
	if !r.IsOpen {
		return day, nil
	}

	openTime, err := types.NewTimeStringFromString(r.OpenTime)
	if err != nil {
		return day, err
	}
	closeTime, err := types.NewTimeStringFromString(r.CloseTime)
	if err != nil {
		return day, err
	}

	day.OpenTime = openTime
	day.CloseTime = closeTime
	return day, nil
}

// FromDomainBlackout конвертирует domain модель в DTO
func FromDomainBlackout(b *domain.BlackoutDate) *BlackoutResponse {
	if b == nil {
		return nil
	}
	return &BlackoutResponse{
		Date:      b.Date.Format(domain.DateFormat),
		Reason:    b.Reason,
		Type:      string(b.Type),
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlackoutList конвертирует список domain моделей в DTO
func FromDomainBlackoutList(blackouts []*domain.BlackoutDate) *BlackoutListResponse {
	resp := &BlackoutListResponse{
		Blackouts: make([]BlackoutResponse, 0, len(blackouts)),
	}
	for _, b := range blackouts {
		resp.Blackouts = append(resp.Blackouts, *FromDomainBlackout(b))
	}
	return resp
}
