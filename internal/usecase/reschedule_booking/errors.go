package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrForbidden возвращается, когда инициатор не владеет бронированием
	ErrForbidden = errors.New("reschedule_booking: operation is not allowed for this user")

	// ErrInvalidStatus возвращается, когда статус не допускает перенос
	ErrInvalidStatus = errors.New("reschedule_booking: booking status does not allow rescheduling")

	// ErrTooLateToReschedule возвращается, когда до начала записи осталось меньше cancellationHours
	ErrTooLateToReschedule = errors.New("reschedule_booking: too late to reschedule this booking")

	// ErrStaffNotFound возвращается, когда новый сотрудник не найден
	ErrStaffNotFound = errors.New("reschedule_booking: staff member not found")

	// ErrStaffNotAssigned возвращается, когда сотрудник не обслуживает услугу
	ErrStaffNotAssigned = errors.New("reschedule_booking: staff member does not provide this service")

	// ErrStaffUnavailable возвращается, когда сотрудник недоступен в новое время
	ErrStaffUnavailable = errors.New("reschedule_booking: staff member is unavailable at this time")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в новое время
	ErrBusinessClosed = errors.New("reschedule_booking: business is closed at this time")

	// ErrInvalidDate возвращается при некорректной новой дате
	ErrInvalidDate = errors.New("reschedule_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда новая дата превышает advanceBookingDays
	ErrDateTooFarInFuture = errors.New("reschedule_booking: date is too far in the future")

	// ErrTooLateToBook возвращается, когда новый слот нарушает minAdvanceHours
	ErrTooLateToBook = errors.New("reschedule_booking: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда новый слот занят
	ErrSlotNotAvailable = errors.New("reschedule_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
