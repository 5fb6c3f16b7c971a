package update_business_config

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/config/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// UpdateConfigRequest HTTP модель запроса на изменение политики.
// Все поля опциональны - не указанные остаются прежними
// (для новой политики берутся дефолты)
type UpdateConfigRequest struct {
	ServiceID *int64 `json:"serviceId,omitempty"` // nil = политика всего бизнеса

	DurationMinutes              *int    `json:"durationMinutes,omitempty"`
	SlotIntervalMinutes          *int    `json:"slotIntervalMinutes,omitempty"`
	AdvanceBookingDays           *int    `json:"advanceBookingDays,omitempty"`
	MinAdvanceHours              *int    `json:"minAdvanceHours,omitempty"`
	CancellationHours            *int    `json:"cancellationHours,omitempty"`
	CapacityPerSlot              *int    `json:"capacityPerSlot,omitempty"`
	MaxBookingsPerCustomerPerDay *int    `json:"maxBookingsPerCustomerPerDay,omitempty"`
	RequiresStaff                *bool   `json:"requiresStaff,omitempty"`
	RefundPolicy                 *string `json:"refundPolicy,omitempty"`
}

// ToUpdateRequest конвертирует HTTP запрос в модель частичного обновления
func (r *UpdateConfigRequest) ToUpdateRequest(userID int64) *models.UpdatePolicyRequest {
	return &models.UpdatePolicyRequest{
		UserID:                       userID,
		DurationMinutes:              r.DurationMinutes,
		SlotIntervalMinutes:          r.SlotIntervalMinutes,
		AdvanceBookingDays:           r.AdvanceBookingDays,
		MinAdvanceHours:              r.MinAdvanceHours,
		CancellationHours:            r.CancellationHours,
		CapacityPerSlot:              r.CapacityPerSlot,
		MaxBookingsPerCustomerPerDay: r.MaxBookingsPerCustomerPerDay,
		RequiresStaff:                r.RequiresStaff,
		RefundPolicy:                 r.RefundPolicy,
	}
}

// ToCreateRequest конвертирует HTTP запрос в модель создания политики.
// Не указанные поля заполняются дефолтами
func (r *UpdateConfigRequest) ToCreateRequest(userID, businessID int64) *models.CreatePolicyRequest {
	defaults := domain.DefaultServiceBookingPolicy()

	return &models.CreatePolicyRequest{
		UserID:                       userID,
		BusinessID:                   businessID,
		ServiceID:                    r.ServiceID,
		DurationMinutes:              ptr.Deref(r.DurationMinutes, defaults.DurationMinutes),
		SlotIntervalMinutes:          ptr.Deref(r.SlotIntervalMinutes, defaults.SlotIntervalMinutes),
		AdvanceBookingDays:           ptr.Deref(r.AdvanceBookingDays, defaults.AdvanceBookingDays),
		MinAdvanceHours:              ptr.Deref(r.MinAdvanceHours, defaults.MinAdvanceHours),
		CancellationHours:            ptr.Deref(r.CancellationHours, defaults.CancellationHours),
		CapacityPerSlot:              ptr.Deref(r.CapacityPerSlot, defaults.CapacityPerSlot),
		MaxBookingsPerCustomerPerDay: ptr.Deref(r.MaxBookingsPerCustomerPerDay, defaults.MaxBookingsPerCustomerPerDay),
		RequiresStaff:                ptr.Deref(r.RequiresStaff, defaults.RequiresStaff),
		RefundPolicy:                 ptr.Deref(r.RefundPolicy, string(defaults.RefundPolicy)),
	}
}
