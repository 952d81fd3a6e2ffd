package field

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FieldBookingService/pkg/psqlbuilder"
)

var fieldColumns = []string{
	"id",
	"owner_id",
	"name",
	"location",
	"field_type",
	"capacity",
	"description",
	"price_per_hour",
	"available",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с полями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория полей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое поле
func (r *Repository) Create(ctx context.Context, f *domain.Field) (*domain.Field, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("fields").
		Columns(
			"owner_id",
			"name",
			"location",
			"field_type",
			"capacity",
			"description",
			"price_per_hour",
			"available",
		).
		Values(
			f.OwnerID,
			f.Name,
			f.Location,
			f.FieldType,
			f.Capacity,
			f.Description,
			f.PricePerHour,
			f.Available,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&f.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updatedAt.Time

	return f, nil
}

// GetByID получает поле по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(fieldColumns...).
		From("fields").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	f, err := scanField(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan field: %w", ErrScanRow, err)
	}

	return f, nil
}

// List получает список полей; availableOnly оставляет только доступные для бронирования
func (r *Repository) List(ctx context.Context, availableOnly bool) ([]*domain.Field, error) {
	selectBuilder := psqlbuilder.Select(fieldColumns...).
		From("fields").
		OrderBy("created_at DESC", "id DESC")

	if availableOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"available": true})
	}

	return r.query(ctx, "List", selectBuilder)
}

// ListByOwner получает все поля владельца
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Field, error) {
	selectBuilder := psqlbuilder.Select(fieldColumns...).
		From("fields").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("id ASC")

	return r.query(ctx, "ListByOwner", selectBuilder)
}

// Update сохраняет изменяемые атрибуты поля
func (r *Repository) Update(ctx context.Context, f *domain.Field) (*domain.Field, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("fields").
		Set("name", f.Name).
		Set("location", f.Location).
		Set("field_type", f.FieldType).
		Set("capacity", f.Capacity).
		Set("description", f.Description).
		Set("price_per_hour", f.PricePerHour).
		Set("available", f.Available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": f.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updatedAt.Time

	return f, nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Field, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	fields := make([]*domain.Field, 0)
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		fields = append(fields, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return fields, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanField(row rowScanner) (*domain.Field, error) {
	var f domain.Field
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&f.ID,
		&f.OwnerID,
		&f.Name,
		&f.Location,
		&f.FieldType,
		&f.Capacity,
		&f.Description,
		&f.PricePerHour,
		&f.Available,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updatedAt.Time

	return &f, nil
}
