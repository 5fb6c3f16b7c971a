package domain

import "time"

// RefundPolicy политика возврата при отмене бронирования
type RefundPolicy string

const (
	// RefundPolicyTiered дефолтная ступенчатая политика:
	// notice >= 48h -> полный возврат, [cancellation_hours, 48h) -> половина
	RefundPolicyTiered RefundPolicy = "tiered"

	// RefundPolicyNoRefund бизнес-политика без возврата при отмене клиентом
	RefundPolicyNoRefund RefundPolicy = "no_refund"
)

// Valid проверяет, что политика возврата известна
func (p RefundPolicy) Valid() bool {
	return p == RefundPolicyTiered || p == RefundPolicyNoRefund
}

// ServiceBookingPolicy параметры бронирования услуги
// Поддерживает иерархическую конфигурацию:
// 1. Для конкретной услуги (business_id, service_id)
// 2. Для всего бизнеса (business_id, NULL)
type ServiceBookingPolicy struct {
	ID         int64
	BusinessID int64
	ServiceID  *int64 // NULL = политика для всех услуг бизнеса

	DurationMinutes     int // длительность записи
	SlotIntervalMinutes int // шаг начала слотов (гранулярность)

	AdvanceBookingDays int // максимум дней вперёд, 0 = без ограничения
	MinAdvanceHours    int // минимум часов до начала записи
	CancellationHours  int // минимальный notice для отмены клиентом

	CapacityPerSlot              int // вместимость при услуге без сотрудника
	MaxBookingsPerCustomerPerDay int
	RequiresStaff                bool
	RefundPolicy                 RefundPolicy

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBusinessWide returns true if this is a business-wide policy (not service-specific)
func (p *ServiceBookingPolicy) IsBusinessWide() bool {
	return p.ServiceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *ServiceBookingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// DefaultServiceBookingPolicy возвращает политику с дефолтными значениями
func DefaultServiceBookingPolicy() *ServiceBookingPolicy {
	return &ServiceBookingPolicy{
		DurationMinutes:              DefaultDurationMinutes,
		SlotIntervalMinutes:          DefaultSlotIntervalMinutes,
		AdvanceBookingDays:           DefaultAdvanceBookingDays,
		MinAdvanceHours:              DefaultMinAdvanceHours,
		CancellationHours:            DefaultCancellationHours,
		CapacityPerSlot:              DefaultCapacityPerSlot,
		MaxBookingsPerCustomerPerDay: DefaultMaxBookingsPerCustomer,
		RefundPolicy:                 RefundPolicyTiered,
	}
}
