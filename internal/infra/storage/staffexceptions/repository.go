package staffexceptions

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

var exceptionColumns = []string{
	"id",
	"staff_id",
	"exception_date",
	"kind",
	"start_time",
	"end_time",
	"reason",
	"created_at",
}

// Repository репозиторий исключений доступности сотрудников
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория исключений
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает исключение доступности
func (r *Repository) Create(ctx context.Context, exc *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_availability_exceptions").
		Columns("staff_id", "exception_date", "kind", "start_time", "end_time", "reason").
		Values(exc.StaffID, exc.Date, exc.Kind, exc.StartTime, exc.EndTime, exc.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exc.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	exc.CreatedAt = createdAt.Time

	return exc, nil
}

// GetByStaffAndDate получает исключения сотрудника на дату
func (r *Repository) GetByStaffAndDate(ctx context.Context, staffID int64, date time.Time) ([]domain.AvailabilityException, error) {
	return r.get(ctx, squirrel.Eq{"staff_id": staffID, "exception_date": date})
}

// GetByStaffIDsAndDate получает исключения нескольких сотрудников на дату
// Используется расчётом слотов для услуги без закрепления сотрудника
func (r *Repository) GetByStaffIDsAndDate(ctx context.Context, staffIDs []int64, date time.Time) ([]domain.AvailabilityException, error) {
	if len(staffIDs) == 0 {
		return []domain.AvailabilityException{}, nil
	}
	return r.get(ctx, squirrel.Eq{"staff_id": staffIDs, "exception_date": date})
}

// Delete удаляет исключение доступности
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_availability_exceptions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}

func (r *Repository) get(ctx context.Context, where squirrel.Eq) ([]domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(exceptionColumns...).
		From("staff_availability_exceptions").
		Where(where).
		OrderBy("staff_id ASC, start_time ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: get - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: get - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]domain.AvailabilityException, 0)
	for rows.Next() {
		var exc domain.AvailabilityException
		var createdAt sql.NullTime

		err := rows.Scan(
			&exc.ID,
			&exc.StaffID,
			&exc.Date,
			&exc.Kind,
			&exc.StartTime,
			&exc.EndTime,
			&exc.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: get - scan row: %v", ErrScanRow, err)
		}

		exc.CreatedAt = createdAt.Time
		exceptions = append(exceptions, exc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: get - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}
