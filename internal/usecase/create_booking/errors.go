package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("create_booking: staff member not found")

	// ErrStaffRequired возвращается, когда услуга требует выбора сотрудника
	ErrStaffRequired = errors.New("create_booking: service requires a staff member")

	// ErrStaffNotAssigned возвращается, когда сотрудник не обслуживает услугу
	ErrStaffNotAssigned = errors.New("create_booking: staff member does not provide this service")

	// ErrStaffUnavailable возвращается, когда сотрудник недоступен в запрошенное время
	// (вне рабочих часов или заблокирован исключением)
	ErrStaffUnavailable = errors.New("create_booking: staff member is unavailable at this time")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrTooLateToBook возвращается, когда запись нарушает minAdvanceHours
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в запрошенное время
	ErrBusinessClosed = errors.New("create_booking: business is closed at this time")

	// ErrDailyLimitReached возвращается при превышении дневного лимита записей клиента
	ErrDailyLimitReached = errors.New("create_booking: daily booking limit reached")

	// ErrSlotNotAvailable возвращается, когда слот занят - как при оптимистичной
	// проверке, так и при проигрыше гонки внутри сериализуемой транзакции
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
