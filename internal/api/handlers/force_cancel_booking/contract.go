package force_cancel_booking

import (
	"context"

	cancelBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_booking"
)

type CancelBookingUseCase interface {
	ExecuteForced(ctx context.Context, req *cancelBooking.ForcedRequest) (*cancelBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
