package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/LBS-SchedulingService/internal/domain"
	"github.com/m04kA/LBS-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/LBS-SchedulingService/pkg/psqlbuilder"
)

// apptColumns полный список колонок таблицы appointments в порядке сканирования
var apptColumns = []string{
	"id",
	"code",
	"service_id",
	"service_name",
	"service_price",
	"addon_ids",
	"addon_names",
	"client_ref",
	"client_name",
	"client_email",
	"client_phone",
	"appointment_date",
	"start_time",
	"duration_minutes",
	"price",
	"status",
	"payment_status",
	"notes",
	"service_notes",
	"cancellation_fee",
	"cancellation_reason",
	"cancelled_at",
	"reminder_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий журнала записей (ledger).
// Это единственный авторитетный источник данных о занятых интервалах.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Вызывается только изнутри сериализуемой транзакции резервирования:
// проверка занятости слота и вставка должны быть одной атомарной операцией,
// иначе два конкурентных запроса могут занять пересекающиеся интервалы.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"code",
			"service_id",
			"service_name",
			"service_price",
			"addon_ids",
			"addon_names",
			"client_ref",
			"client_name",
			"client_email",
			"client_phone",
			"appointment_date",
			"start_time",
			"duration_minutes",
			"price",
			"status",
			"payment_status",
			"notes",
		).
		Values(
			appt.Code,
			appt.ServiceID,
			appt.ServiceName,
			appt.ServicePrice,
			pq.Array(appt.AddOnIDs),
			pq.Array(appt.AddOnNames),
			appt.ClientRef,
			appt.ClientName,
			appt.ClientEmail,
			appt.ClientPhone,
			appt.Date,
			appt.StartTime,
			appt.DurationMinutes,
			appt.Price,
			appt.Status,
			appt.PaymentStatus,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(apptColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: статусные переходы выполняются
	// по схеме compare-and-swap и не должны гоняться между собой
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanOne(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// GetByDate получает записи на конкретную дату.
// При onlyBlocking=true возвращаются только статусы, занимающие интервал
// (pending, confirmed, in-progress). Внутри транзакции строки блокируются
// FOR UPDATE - это основа атомарного резервирования слота.
func (r *Repository) GetByDate(ctx context.Context, date time.Time, onlyBlocking bool) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(apptColumns...).
		From("appointments").
		Where(squirrel.Eq{"appointment_date": date}).
		OrderBy("start_time ASC")

	if onlyBlocking {
		blocking := make([]string, len(domain.SlotBlockingStatuses))
		for i, s := range domain.SlotBlockingStatuses {
			blocking[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": blocking})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByClientRef получает историю записей клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByClientRef(ctx context.Context, clientRef string, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(apptColumns...).
		From("appointments").
		Where(squirrel.Eq{"client_ref": clientRef}).
		OrderBy("appointment_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientRef - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientRef - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// UpdateStatus меняет статус записи по схеме compare-and-swap:
// запись обновляется только если её текущий статус равен from.
// Возвращает ErrStatusConflict, если статус уже изменился конкурентно,
// и ErrAppointmentNotFound, если записи нет.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return r.checkConditionalUpdate(ctx, result, id, "UpdateStatus")
}

// Cancel отменяет запись с указанием причины и, при поздней отмене, штрафа.
// Условие по статусу то же compare-and-swap, что и в UpdateStatus.
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, reason string, fee *float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancellation_fee", fee).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	return r.checkConditionalUpdate(ctx, result, id, "Cancel")
}

// SetServiceNotes сохраняет заметки мастера о выполненной услуге
func (r *Repository) SetServiceNotes(ctx context.Context, id int64, notes string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("service_notes", notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetServiceNotes - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetServiceNotes - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetServiceNotes - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// ListDueReminders возвращает подтвержденные записи, для которых время
// напоминания (начало записи минус reminderHours) уже наступило, а само
// напоминание еще не отправлялось
func (r *Repository) ListDueReminders(ctx context.Context, now time.Time, reminderHours int, limit int) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(apptColumns...).
		From("appointments").
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where("reminder_sent_at IS NULL").
		Where(
			"(appointment_date + start_time::time) - make_interval(hours => ?) <= ?",
			reminderHours, now,
		).
		OrderBy("appointment_date ASC, start_time ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReminders - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// MarkReminderSent помечает напоминание отправленным. Идемпотентно:
// повторный вызов для той же записи вернет false и ничего не изменит.
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, at time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("reminder_sent_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where("reminder_sent_at IS NULL").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkReminderSent - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// checkConditionalUpdate различает "записи нет" и "статус уже другой"
// после условного обновления с нулем затронутых строк
func (r *Repository) checkConditionalUpdate(ctx context.Context, result sql.Result, id int64, method string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return ErrAppointmentNotFound
	}

	return ErrStatusConflict
}

// scanOne сканирует одну строку в доменную модель
func (r *Repository) scanOne(row *sql.Row, method string) (*domain.Appointment, error) {
	var appt domain.Appointment
	var addonIDs pq.Int64Array
	var addonNames pq.StringArray
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.Code,
		&appt.ServiceID,
		&appt.ServiceName,
		&appt.ServicePrice,
		&addonIDs,
		&addonNames,
		&appt.ClientRef,
		&appt.ClientName,
		&appt.ClientEmail,
		&appt.ClientPhone,
		&appt.Date,
		&appt.StartTime,
		&appt.DurationMinutes,
		&appt.Price,
		&appt.Status,
		&appt.PaymentStatus,
		&appt.Notes,
		&appt.ServiceNotes,
		&appt.CancellationFee,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&appt.ReminderSentAt,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, method, err)
	}

	appt.AddOnIDs = addonIDs
	appt.AddOnNames = addonNames
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var appt domain.Appointment
		var addonIDs pq.Int64Array
		var addonNames pq.StringArray
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&appt.ID,
			&appt.Code,
			&appt.ServiceID,
			&appt.ServiceName,
			&appt.ServicePrice,
			&addonIDs,
			&addonNames,
			&appt.ClientRef,
			&appt.ClientName,
			&appt.ClientEmail,
			&appt.ClientPhone,
			&appt.Date,
			&appt.StartTime,
			&appt.DurationMinutes,
			&appt.Price,
			&appt.Status,
			&appt.PaymentStatus,
			&appt.Notes,
			&appt.ServiceNotes,
			&appt.CancellationFee,
			&appt.CancellationReason,
			&appt.CancelledAt,
			&appt.ReminderSentAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		appt.AddOnIDs = addonIDs
		appt.AddOnNames = addonNames
		appt.CreatedAt = createdAt.Time
		appt.UpdatedAt = updatedAt.Time

		appointments = append(appointments, &appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
