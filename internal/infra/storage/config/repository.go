package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// uniqueViolation код ошибки PostgreSQL при нарушении уникальности
const uniqueViolation = pq.ErrorCode("23505")

var policyColumns = []string{
	"id",
	"business_id",
	"service_id",
	"duration_minutes",
	"slot_interval_minutes",
	"advance_booking_days",
	"min_advance_hours",
	"cancellation_hours",
	"capacity_per_slot",
	"max_bookings_per_customer_per_day",
	"requires_staff",
	"refund_policy",
	"created_at",
	"updated_at",
}

// Repository репозиторий политик бронирования услуг
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую политику бронирования
func (r *Repository) Create(ctx context.Context, policy *domain.ServiceBookingPolicy) (*domain.ServiceBookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("service_booking_policies").
		Columns(
			"business_id",
			"service_id",
			"duration_minutes",
			"slot_interval_minutes",
			"advance_booking_days",
			"min_advance_hours",
			"cancellation_hours",
			"capacity_per_slot",
			"max_bookings_per_customer_per_day",
			"requires_staff",
			"refund_policy",
		).
		Values(
			policy.BusinessID,
			policy.ServiceID,
			policy.DurationMinutes,
			policy.SlotIntervalMinutes,
			policy.AdvanceBookingDays,
			policy.MinAdvanceHours,
			policy.CancellationHours,
			policy.CapacityPerSlot,
			policy.MaxBookingsPerCustomerPerDay,
			policy.RequiresStaff,
			policy.RefundPolicy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicatePolicy
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}

// GetByID получает политику по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServiceBookingPolicy, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByBusinessAndService получает политику по точному совпадению пары
// (business_id, service_id), без учёта иерархии
func (r *Repository) GetByBusinessAndService(ctx context.Context, businessID int64, serviceID *int64) (*domain.ServiceBookingPolicy, error) {
	where := squirrel.Eq{"business_id": businessID, "service_id": nil}
	if serviceID != nil {
		where["service_id"] = *serviceID
	}
	return r.getBy(ctx, where)
}

// GetWithHierarchy получает политику с учётом иерархии приоритетов:
// сначала (business_id, service_id), затем (business_id, NULL).
// ErrPolicyNotFound, если нет ни одной - вызывающая сторона подставляет дефолты.
func (r *Repository) GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.ServiceBookingPolicy, error) {
	if serviceID != nil {
		policy, err := r.getBy(ctx, squirrel.Eq{"business_id": businessID, "service_id": *serviceID})
		if err == nil {
			return policy, nil
		}
		if !errors.Is(err, ErrPolicyNotFound) {
			return nil, err
		}
	}

	return r.getBy(ctx, squirrel.Eq{"business_id": businessID, "service_id": nil})
}

// GetAllByBusiness получает все политики бизнеса
func (r *Repository) GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.ServiceBookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("service_booking_policies").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("service_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.ServiceBookingPolicy, 0)
	for rows.Next() {
		policy, err := r.scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByBusiness - scan row: %v", ErrScanRow, err)
		}
		policies = append(policies, policy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - rows error: %v", ErrScanRow, err)
	}

	return policies, nil
}

// Update обновляет политику бронирования по ID
func (r *Repository) Update(ctx context.Context, policy *domain.ServiceBookingPolicy) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_booking_policies").
		Set("duration_minutes", policy.DurationMinutes).
		Set("slot_interval_minutes", policy.SlotIntervalMinutes).
		Set("advance_booking_days", policy.AdvanceBookingDays).
		Set("min_advance_hours", policy.MinAdvanceHours).
		Set("cancellation_hours", policy.CancellationHours).
		Set("capacity_per_slot", policy.CapacityPerSlot).
		Set("max_bookings_per_customer_per_day", policy.MaxBookingsPerCustomerPerDay).
		Set("requires_staff", policy.RequiresStaff).
		Set("refund_policy", policy.RefundPolicy).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": policy.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return nil
}

func (r *Repository) getBy(ctx context.Context, where squirrel.Eq) (*domain.ServiceBookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("service_booking_policies").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getBy - build select query: %v", ErrBuildQuery, err)
	}

	policy, err := r.scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getBy - scan policy: %v", ErrScanRow, err)
	}

	return policy, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanPolicy(row rowScanner) (*domain.ServiceBookingPolicy, error) {
	var policy domain.ServiceBookingPolicy
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&policy.ID,
		&policy.BusinessID,
		&policy.ServiceID,
		&policy.DurationMinutes,
		&policy.SlotIntervalMinutes,
		&policy.AdvanceBookingDays,
		&policy.MinAdvanceHours,
		&policy.CancellationHours,
		&policy.CapacityPerSlot,
		&policy.MaxBookingsPerCustomerPerDay,
		&policy.RequiresStaff,
		&policy.RefundPolicy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}
