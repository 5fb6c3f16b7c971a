package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrForbidden возвращается, когда инициатор не владеет бронированием
	// или не является менеджером бизнеса
	ErrForbidden = errors.New("cancel_booking: operation is not allowed for this user")

	// ErrInvalidStatus возвращается, когда статус бронирования не допускает отмену
	ErrInvalidStatus = errors.New("cancel_booking: booking status does not allow cancellation")

	// ErrTooLateToCancel возвращается, когда до начала записи осталось меньше cancellationHours
	ErrTooLateToCancel = errors.New("cancel_booking: too late to cancel this booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
