package domain

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// CancelActor кто инициировал отмену бронирования
type CancelActor string

const (
	CancelledByCustomer CancelActor = "customer"
	CancelledByBusiness CancelActor = "business"
)

// PaymentStatus статус оплаты бронирования
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var (
	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("domain: invalid booking status transition")
)

// Booking represents an appointment booking in the system
// Интервал бронирования полуоткрытый: [StartTime, StartTime+DurationMinutes)
type Booking struct {
	ID              int64
	BusinessID      int64
	ServiceID       int64
	StaffID         *int64 // nil = услуга без закрепления за сотрудником (capacity pool)
	CustomerID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus
	PaymentStatus   PaymentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledBy        *CancelActor
	CancelledAt        *time.Time
	RefundFraction     *float64 // доля возврата, зафиксированная в момент отмены

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime возвращает время окончания бронирования
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// StartDateTime возвращает полные дату и время начала бронирования
func (b *Booking) StartDateTime() (time.Time, error) {
	return b.StartTime.OnDate(b.BookingDate)
}

// BlocksSlot returns true if the booking occupies its time interval
// Слот занимают все неотменённые бронирования
func (b *Booking) BlocksSlot() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if no further status transitions are allowed
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled || b.Status == StatusNoShow
}

// CanBeCancelled returns true if the booking status allows cancellation
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking status allows rescheduling
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Переходы статусов выполняются только явными методами ниже.
// Каждый метод возвращает доменное событие для диспатча вызывающей стороной -
// никаких скрытых side effects при присваивании полей.

// Confirm переводит бронирование pending -> confirmed (сигнал об оплате/подтверждении)
func (b *Booking) Confirm(now time.Time) (Event, error) {
	if b.Status != StatusPending {
		return Event{}, ErrInvalidTransition
	}
	b.Status = StatusConfirmed
	b.PaymentStatus = PaymentPaid
	b.UpdatedAt = now
	return NewBookingConfirmed(b, now), nil
}

// Complete переводит бронирование confirmed -> completed
func (b *Booking) Complete(now time.Time) (Event, error) {
	if b.Status != StatusConfirmed {
		return Event{}, ErrInvalidTransition
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now
	return NewBookingCompleted(b, now), nil
}

// MarkNoShow переводит бронирование pending|confirmed -> no_show
func (b *Booking) MarkNoShow(now time.Time) (Event, error) {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return Event{}, ErrInvalidTransition
	}
	b.Status = StatusNoShow
	b.UpdatedAt = now
	return NewBookingNoShow(b, now), nil
}

// Cancel переводит бронирование pending|confirmed -> cancelled
// Фиксирует инициатора, причину и долю возврата, вычисленную policy-движком
func (b *Booking) Cancel(by CancelActor, reason string, refundFraction float64, now time.Time) (Event, error) {
	if !b.CanBeCancelled() {
		return Event{}, ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.CancelledBy = &by
	b.CancellationReason = &reason
	b.CancelledAt = &now
	b.RefundFraction = &refundFraction
	b.UpdatedAt = now
	return NewBookingCancelled(b, now), nil
}
