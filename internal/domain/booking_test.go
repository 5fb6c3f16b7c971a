package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func newTestBooking(status BookingStatus) *Booking {
	return &Booking{
		ID:              1,
		BusinessID:      10,
		ServiceID:       20,
		CustomerID:      100,
		BookingDate:     time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
		DurationMinutes: 60,
		Status:          status,
		PaymentStatus:   PaymentUnpaid,
	}
}

func TestBooking_EndTime(t *testing.T) {
	b := newTestBooking(StatusPending)
	end, err := b.EndTime()
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:00"), end)
}

func TestBooking_BlocksSlot(t *testing.T) {
	// Слот занимают все неотменённые бронирования, включая completed и no_show
	for _, status := range []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow} {
		assert.True(t, newTestBooking(status).BlocksSlot(), "status=%s", status)
	}
	assert.False(t, newTestBooking(StatusCancelled).BlocksSlot())
}

func TestBooking_Confirm(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)

	b := newTestBooking(StatusPending)
	event, err := b.Confirm(now)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, PaymentPaid, b.PaymentStatus)
	assert.Equal(t, EventBookingConfirmed, event.Type)
	assert.Equal(t, b.ID, event.BookingID)

	// Повторное подтверждение запрещено
	_, err = b.Confirm(now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBooking_Complete(t *testing.T) {
	now := time.Now()

	b := newTestBooking(StatusConfirmed)
	event, err := b.Complete(now)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, b.Status)
	assert.Equal(t, EventBookingCompleted, event.Type)

	// pending нельзя завершить напрямую
	_, err = newTestBooking(StatusPending).Complete(now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBooking_MarkNoShow(t *testing.T) {
	now := time.Now()

	for _, status := range []BookingStatus{StatusPending, StatusConfirmed} {
		b := newTestBooking(status)
		event, err := b.MarkNoShow(now)
		require.NoError(t, err, "status=%s", status)
		assert.Equal(t, StatusNoShow, b.Status)
		assert.Equal(t, EventBookingNoShow, event.Type)
	}

	_, err := newTestBooking(StatusCompleted).MarkNoShow(now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBooking_Cancel(t *testing.T) {
	now := time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC)

	b := newTestBooking(StatusConfirmed)
	event, err := b.Cancel(CancelledByCustomer, "plans changed", 0.5, now)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, b.Status)
	require.NotNil(t, b.CancelledBy)
	assert.Equal(t, CancelledByCustomer, *b.CancelledBy)
	require.NotNil(t, b.RefundFraction)
	assert.Equal(t, 0.5, *b.RefundFraction)
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, now, *b.CancelledAt)
	assert.Equal(t, EventBookingCancelled, event.Type)

	// Терминальные статусы отменить нельзя
	for _, status := range []BookingStatus{StatusCompleted, StatusCancelled, StatusNoShow} {
		_, err := newTestBooking(status).Cancel(CancelledByBusiness, "x", 1.0, now)
		assert.ErrorIs(t, err, ErrInvalidTransition, "status=%s", status)
	}
}
