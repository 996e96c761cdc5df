package catalog

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

var serviceColumns = []string{
	"id",
	"name",
	"price",
	"duration_minutes",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий закрытий слотов и прайс-листа услуг
type Repository struct {
	db      DBExecutor
	builder squirrel.StatementBuilderType
	dialect psqlbuilder.Dialect
	now     func() time.Time
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor, dialect psqlbuilder.Dialect) *Repository {
	return &Repository{
		db:      db,
		builder: psqlbuilder.Builder(dialect),
		dialect: dialect,
		now:     time.Now,
	}
}

// CreateClosure закрывает слот (или весь день при пустой метке) на дату
func (r *Repository) CreateClosure(ctx context.Context, closure *domain.Closure) (*domain.Closure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now().UTC().Truncate(time.Microsecond)

	query, args, err := r.builder.Insert("slot_closures").
		Columns("closure_date", "slot_label", "reason", "created_at").
		Values(closure.Date, closure.Label, closure.Reason, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateClosure - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&closure.ID); err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateClosure
		}
		return nil, fmt.Errorf("%w: CreateClosure - execute insert: %v", ErrExecQuery, err)
	}

	closure.CreatedAt = now

	return closure, nil
}

// ListClosures получает закрытия за период, упорядоченные по дате и метке
func (r *Repository) ListClosures(ctx context.Context, filter domain.ClosuresFilter) ([]*domain.Closure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select("id", "closure_date", "slot_label", "reason", "created_at").
		From("slot_closures").
		OrderBy("closure_date ASC", "slot_label ASC")

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"closure_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"closure_date": *filter.EndDate})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosures - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListClosures - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]*domain.Closure, 0)
	for rows.Next() {
		var closure domain.Closure
		var createdAt sql.NullTime

		if err := rows.Scan(&closure.ID, &closure.Date, &closure.Label, &closure.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListClosures - scan row: %v", ErrScanRow, err)
		}
		closure.CreatedAt = createdAt.Time

		closures = append(closures, &closure)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListClosures - rows error: %v", ErrScanRow, err)
	}

	return closures, nil
}

// ClosuresForDate получает закрытия на конкретную дату
func (r *Repository) ClosuresForDate(ctx context.Context, date types.Date) ([]*domain.Closure, error) {
	return r.ListClosures(ctx, domain.ClosuresFilter{StartDate: &date, EndDate: &date})
}

// DeleteClosure удаляет закрытие и возвращает его дату для инвалидации кэша
func (r *Repository) DeleteClosure(ctx context.Context, id int64) (types.Date, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete("slot_closures").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING closure_date").
		ToSql()

	if err != nil {
		return types.Date{}, fmt.Errorf("%w: DeleteClosure - build delete query: %v", ErrBuildQuery, err)
	}

	var date types.Date
	err = executor.QueryRowContext(ctx, query, args...).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Date{}, ErrClosureNotFound
	}
	if err != nil {
		return types.Date{}, fmt.Errorf("%w: DeleteClosure - execute delete: %v", ErrExecQuery, err)
	}

	return date, nil
}

// CreateService добавляет услугу в прайс-лист
func (r *Repository) CreateService(ctx context.Context, item *domain.ServiceItem) (*domain.ServiceItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now().UTC().Truncate(time.Microsecond)

	query, args, err := r.builder.Insert("services").
		Columns("name", "price", "duration_minutes", "active", "created_at", "updated_at").
		Values(item.Name, item.Price, item.DurationMinutes, item.Active, now, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return nil, ErrDuplicateService
		}
		return nil, fmt.Errorf("%w: CreateService - execute insert: %v", ErrExecQuery, err)
	}

	item.CreatedAt = now
	item.UpdatedAt = now

	return item, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	item, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return item, nil
}

// ListServices получает услуги, отсортированные по названию
// activeOnly отбрасывает выключенные услуги
func (r *Repository) ListServices(ctx context.Context, activeOnly bool) ([]*domain.ServiceItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(serviceColumns...).
		From("services").
		OrderBy("name ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.ServiceItem, 0)
	for rows.Next() {
		item, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}

// UpdateService перезаписывает поля услуги
func (r *Repository) UpdateService(ctx context.Context, item *domain.ServiceItem) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	now := r.now().UTC().Truncate(time.Microsecond)

	query, args, err := r.builder.Update("services").
		Set("name", item.Name).
		Set("price", item.Price).
		Set("duration_minutes", item.DurationMinutes).
		Set("active", item.Active).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateService - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return ErrDuplicateService
		}
		return fmt.Errorf("%w: UpdateService - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateService - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	item.UpdatedAt = now

	return nil
}

// DeleteService удаляет услугу из прайс-листа
// Уже созданные бронирования хранят названия и цену, поэтому не затрагиваются
func (r *Repository) DeleteService(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteService - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteService - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteService - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.ServiceItem, error) {
	var item domain.ServiceItem
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.DurationMinutes,
		&item.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return &item, nil
}
