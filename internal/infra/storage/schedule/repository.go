package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/LBS-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий расписания: рабочие часы, blackout-даты и
// настройки политики бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWorkingHours получает недельное расписание работы.
// Weekday хранится по конвенции time.Weekday: 0 = воскресенье.
func (r *Repository) GetWorkingHours(ctx context.Context) (domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var hours domain.WorkingHours

	query, args, err := psqlbuilder.Select("weekday", "is_open", "open_time", "close_time").
		From("working_hours").
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return hours, fmt.Errorf("%w: GetWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return hours, fmt.Errorf("%w: GetWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int
		var day domain.DaySchedule

		if err := rows.Scan(&weekday, &day.IsOpen, &day.OpenTime, &day.CloseTime); err != nil {
			return hours, fmt.Errorf("%w: GetWorkingHours - scan row: %v", ErrScanRow, err)
		}

		switch time.Weekday(weekday) {
		case time.Sunday:
			hours.Sunday = day
		case time.Monday:
			hours.Monday = day
		case time.Tuesday:
			hours.Tuesday = day
		case time.Wednesday:
			hours.Wednesday = day
		case time.Thursday:
			hours.Thursday = day
		case time.Friday:
			hours.Friday = day
		case time.Saturday:
			hours.Saturday = day
		}
	}

	if err := rows.Err(); err != nil {
		return hours, fmt.Errorf("%w: GetWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// UpdateWorkingHours обновляет расписание одного дня недели
func (r *Repository) UpdateWorkingHours(ctx context.Context, weekday time.Weekday, day domain.DaySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("working_hours").
		Set("is_open", day.IsOpen).
		Set("open_time", day.OpenTime).
		Set("close_time", day.CloseTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// GetSettings получает настройки политики бронирования (единственная строка)
func (r *Repository) GetSettings(ctx context.Context) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"cancellation_window_hours",
		"cancellation_fee_amount",
		"buffer_minutes",
		"slot_granularity_minutes",
		"minimum_lead_minutes",
		"reminder_hours",
		"auto_confirm_bookings",
		"updated_at",
	).
		From("business_settings").
		Where(squirrel.Eq{"id": 1}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.ScheduleSettings
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.CancellationWindowHours,
		&settings.CancellationFeeAmount,
		&settings.BufferMinutes,
		&settings.SlotGranularityMinutes,
		&settings.MinimumLeadMinutes,
		&settings.ReminderHours,
		&settings.AutoConfirmBookings,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// UpdateSettings обновляет настройки политики бронирования
func (r *Repository) UpdateSettings(ctx context.Context, settings *domain.ScheduleSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("business_settings").
		Set("cancellation_window_hours", settings.CancellationWindowHours).
		Set("cancellation_fee_amount", settings.CancellationFeeAmount).
		Set("buffer_minutes", settings.BufferMinutes).
		Set("slot_granularity_minutes", settings.SlotGranularityMinutes).
		Set("minimum_lead_minutes", settings.MinimumLeadMinutes).
		Set("reminder_hours", settings.ReminderHours).
		Set("auto_confirm_bookings", settings.AutoConfirmBookings).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": 1}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}

// GetBlackout получает blackout-дату, если она есть.
// Возвращает ErrBlackoutNotFound для открытой даты.
func (r *Repository) GetBlackout(ctx context.Context, date time.Time) (*domain.BlackoutDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("blackout_date", "reason", "blackout_type", "created_at").
		From("blackout_dates").
		Where(squirrel.Eq{"blackout_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackout - build select query: %v", ErrBuildQuery, err)
	}

	var blackout domain.BlackoutDate
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&blackout.Date,
		&blackout.Reason,
		&blackout.Type,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBlackoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlackout - scan blackout: %v", ErrScanRow, err)
	}

	blackout.CreatedAt = createdAt.Time

	return &blackout, nil
}

// ListBlackouts получает все blackout-даты начиная с указанной (включительно)
func (r *Repository) ListBlackouts(ctx context.Context, from time.Time) ([]*domain.BlackoutDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("blackout_date", "reason", "blackout_type", "created_at").
		From("blackout_dates").
		Where(squirrel.GtOrEq{"blackout_date": from}).
		OrderBy("blackout_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBlackouts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlackouts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blackouts := make([]*domain.BlackoutDate, 0)

	for rows.Next() {
		var blackout domain.BlackoutDate
		var createdAt sql.NullTime

		if err := rows.Scan(&blackout.Date, &blackout.Reason, &blackout.Type, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListBlackouts - scan row: %v", ErrScanRow, err)
		}

		blackout.CreatedAt = createdAt.Time
		blackouts = append(blackouts, &blackout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlackouts - rows error: %v", ErrScanRow, err)
	}

	return blackouts, nil
}

// CreateBlackout блокирует дату для новых записей
func (r *Repository) CreateBlackout(ctx context.Context, blackout *domain.BlackoutDate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blackout_dates").
		Columns("blackout_date", "reason", "blackout_type").
		Values(blackout.Date, blackout.Reason, blackout.Type).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreateBlackout - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrBlackoutExists
		}
		return fmt.Errorf("%w: CreateBlackout - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteBlackout снова открывает дату для записей
func (r *Repository) DeleteBlackout(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blackout_dates").
		Where(squirrel.Eq{"blackout_date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlackout - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}
