package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Бронирование на 2025-10-15 14:00 UTC
func bookingAt(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              1,
		BookingDate:     time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("14:00"),
		DurationMinutes: 60,
		Status:          status,
	}
}

func TestCanCancel(t *testing.T) {
	b := bookingAt(domain.StatusConfirmed)
	start := time.Date(2025, 10, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before notice", start.Add(-72 * time.Hour), true},
		{"just above notice", start.Add(-25 * time.Hour), true},
		{"exactly at notice boundary", start.Add(-24 * time.Hour), false},
		{"below notice", start.Add(-2 * time.Hour), false},
		{"after start", start.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanCancel(b, tt.now, 24)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanCancel_TerminalStatuses(t *testing.T) {
	now := time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)

	for _, status := range []domain.BookingStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow} {
		got, err := CanCancel(bookingAt(status), now, 24)
		require.NoError(t, err)
		assert.False(t, got, "status=%s", status)
	}
}

func TestRefundFraction_Tiered(t *testing.T) {
	b := bookingAt(domain.StatusConfirmed)
	start := time.Date(2025, 10, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"48h notice - full refund", start.Add(-48 * time.Hour), 1.0},
		{"72h notice - full refund", start.Add(-72 * time.Hour), 1.0},
		{"47h notice - half refund", start.Add(-47 * time.Hour), 0.5},
		{"24h notice - half refund", start.Add(-24 * time.Hour), 0.5},
		{"below cancellation window - nothing", start.Add(-2 * time.Hour), 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RefundFraction(b, tt.now, 24, domain.RefundPolicyTiered)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefundFraction_NoRefundPolicy(t *testing.T) {
	b := bookingAt(domain.StatusConfirmed)
	start := time.Date(2025, 10, 15, 14, 0, 0, 0, time.UTC)

	// no_refund возвращает 0 независимо от notice
	got, err := RefundFraction(b, start.Add(-72*time.Hour), 24, domain.RefundPolicyNoRefund)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestForcedRefundFraction(t *testing.T) {
	// Принудительная отмена бизнесом всегда возвращает полную стоимость
	assert.Equal(t, 1.0, ForcedRefundFraction())
}
