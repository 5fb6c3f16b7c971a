package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// EventType тип доменного события
type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingConfirmed   EventType = "booking.confirmed"
	EventBookingCancelled   EventType = "booking.cancelled"
	EventBookingRescheduled EventType = "booking.rescheduled"
	EventBookingCompleted   EventType = "booking.completed"
	EventBookingNoShow      EventType = "booking.no_show"
)

// Event доменное событие бронирования
// События возвращаются методами переходов и публикуются вызывающей стороной;
// ядро планирования не ждёт подтверждения доставки (fire-and-forget)
type Event struct {
	ID         string           `json:"id"`
	Type       EventType        `json:"type"`
	OccurredAt time.Time        `json:"occurredAt"`
	BookingID  int64            `json:"bookingId"`
	BusinessID int64            `json:"businessId"`
	ServiceID  int64            `json:"serviceId"`
	StaffID    *int64           `json:"staffId,omitempty"`
	CustomerID int64            `json:"customerId"`
	Date       string           `json:"date"`
	StartTime  types.TimeString `json:"startTime"`

	// Поля отмены (только для booking.cancelled)
	CancelledBy    *CancelActor `json:"cancelledBy,omitempty"`
	Reason         *string      `json:"reason,omitempty"`
	RefundFraction *float64     `json:"refundFraction,omitempty"`

	// Поля переноса (только для booking.rescheduled)
	OldBookingID *int64 `json:"oldBookingId,omitempty"`
}

func newEvent(t EventType, b *Booking, occurredAt time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: occurredAt,
		BookingID:  b.ID,
		BusinessID: b.BusinessID,
		ServiceID:  b.ServiceID,
		StaffID:    b.StaffID,
		CustomerID: b.CustomerID,
		Date:       b.BookingDate.Format(DateFormat),
		StartTime:  b.StartTime,
	}
}

// NewBookingCreated событие о созданном бронировании
func NewBookingCreated(b *Booking, now time.Time) Event {
	return newEvent(EventBookingCreated, b, now)
}

// NewBookingConfirmed событие о подтверждённом бронировании
func NewBookingConfirmed(b *Booking, now time.Time) Event {
	return newEvent(EventBookingConfirmed, b, now)
}

// NewBookingCancelled событие об отменённом бронировании
// Несёт решение о возврате; исполнение возврата - задача payment-консьюмера
func NewBookingCancelled(b *Booking, now time.Time) Event {
	e := newEvent(EventBookingCancelled, b, now)
	e.CancelledBy = b.CancelledBy
	e.Reason = b.CancellationReason
	e.RefundFraction = b.RefundFraction
	return e
}

// NewBookingRescheduled событие о переносе бронирования
func NewBookingRescheduled(newBooking *Booking, oldBookingID int64, now time.Time) Event {
	e := newEvent(EventBookingRescheduled, newBooking, now)
	e.OldBookingID = &oldBookingID
	return e
}

// NewBookingCompleted событие о завершённом визите
func NewBookingCompleted(b *Booking, now time.Time) Event {
	return newEvent(EventBookingCompleted, b, now)
}

// NewBookingNoShow событие о неявке клиента
func NewBookingNoShow(b *Booking, now time.Time) Event {
	return newEvent(EventBookingNoShow, b, now)
}
