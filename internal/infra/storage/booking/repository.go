package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/salon-booking/internal/domain"
	"github.com/m04kA/salon-booking/pkg/dbmetrics"
	"github.com/m04kA/salon-booking/pkg/psqlbuilder"
	"github.com/m04kA/salon-booking/pkg/sqlerr"
	"github.com/m04kA/salon-booking/pkg/types"
)

var bookingColumns = []string{
	"id",
	"booking_date",
	"slot_label",
	"customer_name",
	"phone",
	"services",
	"price",
	"duration_minutes",
	"status",
	"note",
	"created_at",
	"updated_at",
}

// Repository SQL-реестр бронирований (Postgres или SQLite)
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
	dialect psqlbuilder.Dialect
	now     func() time.Time
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		builder: psqlbuilder.Builder(dialect),
		dialect: dialect,
		now:     time.Now,
	}
}

// HeldSlots возвращает метки слотов, занятых неотмененными бронированиями на дату
// Внутри транзакции на Postgres строки блокируются (FOR UPDATE) до её завершения
func (r *Repository) HeldSlots(ctx context.Context, date types.Date) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select("slot_label").
		From("bookings").
		Where(squirrel.Eq{"booking_date": date}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("slot_label ASC")

	if dbmetrics.IsInTransaction(ctx) && r.dialect.SupportsRowLocks() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: HeldSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: HeldSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	held := make([]types.TimeString, 0)
	for rows.Next() {
		var label types.TimeString
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("%w: HeldSlots - scan slot_label: %v", ErrScanRow, err)
		}
		held = append(held, label)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: HeldSlots - rows error: %v", ErrScanRow, err)
	}

	return held, nil
}

// Create добавляет бронирование в реестр
// Если пара (дата, слот) уже занята, уникальный индекс отклоняет вставку и возвращается ErrSlotTaken.
// Вызывается внутри транзакции usecase после повторной проверки HeldSlots.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now().UTC().Truncate(time.Microsecond)

	query, args, err := r.builder.Insert("bookings").
		Columns(
			"booking_date",
			"slot_label",
			"customer_name",
			"phone",
			"services",
			"price",
			"duration_minutes",
			"status",
			"note",
			"created_at",
			"updated_at",
		).
		Values(
			booking.Date,
			booking.SlotLabel,
			booking.CustomerName,
			booking.Phone,
			booking.Services,
			booking.Price,
			booking.DurationMinutes,
			booking.Status,
			booking.Note,
			now,
			now,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID)
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - %s %s", ErrSlotTaken, booking.Date, booking.SlotLabel)
		}
		if sqlerr.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: Create - %v", ErrSerialization, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = now
	booking.UpdatedAt = now

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// List получает бронирования с фильтрацией по периоду и статусу
// Для одной даты сортировка по времени слота, для периода - по дате и времени (сначала новые)
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(r.builder.Select(bookingColumns...).From("bookings"), filter)

	if filter.SingleDate() {
		selectBuilder = selectBuilder.OrderBy("slot_label ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "slot_label DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// Stats считает количество и сумму бронирований по статусам за период
// Фильтр по статусу игнорируется, отмененные всегда учитываются
func (r *Repository) Stats(ctx context.Context, filter domain.BookingsFilter) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	filter.Status = nil
	filter.IncludeCancelled = true

	query, args, err := applyFilter(
		r.builder.Select("status", "COUNT(*)", "COALESCE(SUM(price), 0)").From("bookings"),
		filter,
	).
		GroupBy("status").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stats := &domain.BookingStats{
		From:     filter.StartDate,
		To:       filter.EndDate,
		ByStatus: make(map[domain.BookingStatus]int),
	}

	for rows.Next() {
		var (
			status domain.BookingStatus
			count  int
			sum    float64
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, fmt.Errorf("%w: Stats - scan row: %v", ErrScanRow, err)
		}

		stats.ByStatus[status] = count
		stats.Total += count

		switch status {
		case domain.StatusCompleted:
			stats.Revenue += sum
		case domain.StatusPending, domain.StatusConfirmed:
			stats.ExpectedRevenue += sum
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Stats - rows error: %v", ErrScanRow, err)
	}

	return stats, nil
}

// UpdateStatus обновляет статус бронирования
// Проверка допустимости перехода выполняется в сервисе
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Update("bookings").
		Set("status", status).
		Set("updated_at", r.now().UTC().Truncate(time.Microsecond)).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Update применяет изменения администратора к бронированию
// Перенос на занятую пару (дата, слот) возвращает ErrSlotTaken
func (r *Repository) Update(ctx context.Context, id int64, edit domain.BookingEdit) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := r.builder.Update("bookings").
		Set("updated_at", r.now().UTC().Truncate(time.Microsecond)).
		Where(squirrel.Eq{"id": id})

	if edit.Date != nil {
		updateBuilder = updateBuilder.Set("booking_date", *edit.Date)
	}
	if edit.SlotLabel != nil {
		updateBuilder = updateBuilder.Set("slot_label", *edit.SlotLabel)
	}
	if edit.CustomerName != nil {
		updateBuilder = updateBuilder.Set("customer_name", *edit.CustomerName)
	}
	if edit.Phone != nil {
		updateBuilder = updateBuilder.Set("phone", *edit.Phone)
	}
	if edit.Note != nil {
		updateBuilder = updateBuilder.Set("note", *edit.Note)
	}
	if edit.Services != nil {
		updateBuilder = updateBuilder.Set("services", *edit.Services)
	}
	if edit.Price != nil {
		updateBuilder = updateBuilder.Set("price", *edit.Price)
	}
	if edit.DurationMinutes != nil {
		updateBuilder = updateBuilder.Set("duration_minutes", *edit.DurationMinutes)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Update", query, args)
}

// Delete удаляет бронирование (физическое удаление, использовать осторожно)
// Для освобождения слота с сохранением истории используется отмена
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Delete", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s - %v", ErrSlotTaken, op, err)
		}
		if sqlerr.IsSerializationFailure(err) {
			return fmt.Errorf("%w: %s - %v", ErrSerialization, op, err)
		}
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func applyFilter(selectBuilder squirrel.SelectBuilder, filter domain.BookingsFilter) squirrel.SelectBuilder {
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	return selectBuilder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.Date,
		&booking.SlotLabel,
		&booking.CustomerName,
		&booking.Phone,
		&booking.Services,
		&booking.Price,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.Note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
