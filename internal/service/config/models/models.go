package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// CreatePolicyRequest запрос на создание политики бронирования
type CreatePolicyRequest struct {
	UserID     int64  `json:"userId"`
	BusinessID int64  `json:"businessId"`
	ServiceID  *int64 `json:"serviceId,omitempty"` // nil = политика для всего бизнеса

	DurationMinutes              int    `json:"durationMinutes"`
	SlotIntervalMinutes          int    `json:"slotIntervalMinutes"`
	AdvanceBookingDays           int    `json:"advanceBookingDays"`
	MinAdvanceHours              int    `json:"minAdvanceHours"`
	CancellationHours            int    `json:"cancellationHours"`
	CapacityPerSlot              int    `json:"capacityPerSlot"`
	MaxBookingsPerCustomerPerDay int    `json:"maxBookingsPerCustomerPerDay"`
	RequiresStaff                bool   `json:"requiresStaff"`
	RefundPolicy                 string `json:"refundPolicy"`
}

// ToDomainPolicy конвертирует request в domain модель
func (r *CreatePolicyRequest) ToDomainPolicy() *domain.ServiceBookingPolicy {
	return &domain.ServiceBookingPolicy{
		BusinessID:                   r.BusinessID,
		ServiceID:                    r.ServiceID,
		DurationMinutes:              r.DurationMinutes,
		SlotIntervalMinutes:          r.SlotIntervalMinutes,
		AdvanceBookingDays:           r.AdvanceBookingDays,
		MinAdvanceHours:              r.MinAdvanceHours,
		CancellationHours:            r.CancellationHours,
		CapacityPerSlot:              r.CapacityPerSlot,
		MaxBookingsPerCustomerPerDay: r.MaxBookingsPerCustomerPerDay,
		RequiresStaff:                r.RequiresStaff,
		RefundPolicy:                 domain.RefundPolicy(r.RefundPolicy),
	}
}

// UpdatePolicyRequest запрос на обновление политики
// Поддерживает частичное обновление - nil поля не меняются
type UpdatePolicyRequest struct {
	UserID int64 `json:"userId"`

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

// ApplyTo накладывает указанные поля на существующую политику
func (r *UpdatePolicyRequest) ApplyTo(policy *domain.ServiceBookingPolicy) {
	if r.DurationMinutes != nil {
		policy.DurationMinutes = *r.DurationMinutes
	}
	if r.SlotIntervalMinutes != nil {
		policy.SlotIntervalMinutes = *r.SlotIntervalMinutes
	}
	if r.AdvanceBookingDays != nil {
		policy.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinAdvanceHours != nil {
		policy.MinAdvanceHours = *r.MinAdvanceHours
	}
	if r.CancellationHours != nil {
		policy.CancellationHours = *r.CancellationHours
	}
	if r.CapacityPerSlot != nil {
		policy.CapacityPerSlot = *r.CapacityPerSlot
	}
	if r.MaxBookingsPerCustomerPerDay != nil {
		policy.MaxBookingsPerCustomerPerDay = *r.MaxBookingsPerCustomerPerDay
	}
	if r.RequiresStaff != nil {
		policy.RequiresStaff = *r.RequiresStaff
	}
	if r.RefundPolicy != nil {
		policy.RefundPolicy = domain.RefundPolicy(*r.RefundPolicy)
	}
}

// Response модели

// PolicyResponse ответ с данными политики
type PolicyResponse struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"businessId"`
	ServiceID  *int64 `json:"serviceId,omitempty"`

	DurationMinutes              int    `json:"durationMinutes"`
	SlotIntervalMinutes          int    `json:"slotIntervalMinutes"`
	AdvanceBookingDays           int    `json:"advanceBookingDays"`
	MinAdvanceHours              int    `json:"minAdvanceHours"`
	CancellationHours            int    `json:"cancellationHours"`
	CapacityPerSlot              int    `json:"capacityPerSlot"`
	MaxBookingsPerCustomerPerDay int    `json:"maxBookingsPerCustomerPerDay"`
	RequiresStaff                bool   `json:"requiresStaff"`
	RefundPolicy                 string `json:"refundPolicy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PolicyListResponse ответ со списком политик
type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.ServiceBookingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}
	return &PolicyResponse{
		ID:                           p.ID,
		BusinessID:                   p.BusinessID,
		ServiceID:                    p.ServiceID,
		DurationMinutes:              p.DurationMinutes,
		SlotIntervalMinutes:          p.SlotIntervalMinutes,
		AdvanceBookingDays:           p.AdvanceBookingDays,
		MinAdvanceHours:              p.MinAdvanceHours,
		CancellationHours:            p.CancellationHours,
		CapacityPerSlot:              p.CapacityPerSlot,
		MaxBookingsPerCustomerPerDay: p.MaxBookingsPerCustomerPerDay,
		RequiresStaff:                p.RequiresStaff,
		RefundPolicy:                 string(p.RefundPolicy),
		CreatedAt:                    p.CreatedAt,
		UpdatedAt:                    p.UpdatedAt,
	}
}

// FromDomainPolicyList конвертирует список domain моделей в DTO
func FromDomainPolicyList(policies []*domain.ServiceBookingPolicy) *PolicyListResponse {
	resp := &PolicyListResponse{
		Policies: make([]PolicyResponse, 0, len(policies)),
	}
	for _, p := range policies {
		if dto := FromDomainPolicy(p); dto != nil {
			resp.Policies = append(resp.Policies, *dto)
		}
	}
	return resp
}
