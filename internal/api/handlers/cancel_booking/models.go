package cancel_booking

import (
	"time"

	cancelBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP модель запроса на отмену
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP модель результата отмены
type CancelBookingResponse struct {
	ID             int64   `json:"id"`
	Status         string  `json:"status"`
	CancelledBy    string  `json:"cancelledBy"`
	Reason         *string `json:"reason,omitempty"`
	RefundFraction float64 `json:"refundFraction"`
	CancelledAt    string  `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:             resp.ID,
		Status:         resp.Status,
		CancelledBy:    resp.CancelledBy,
		Reason:         resp.Reason,
		RefundFraction: resp.RefundFraction,
		CancelledAt:    resp.CancelledAt.Format(time.RFC3339),
	}
}
