package businessservice

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("businessservice: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("businessservice: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден
	ErrStaffNotFound = errors.New("businessservice: staff member not found")

	// ErrInvalidResponse возвращается при некорректном ответе сервиса
	ErrInvalidResponse = errors.New("businessservice: invalid response")

	// ErrInvalidSchedule возвращается, когда расписание в ответе не проходит валидацию
	ErrInvalidSchedule = errors.New("businessservice: invalid schedule in response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("businessservice: internal error")
)
