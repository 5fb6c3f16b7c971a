package get_available_slots

import (
	"fmt"
	"time"

	bsClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/businessservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// withinBookingWindow проверяет, что дата попадает в окно бронирования:
// не в прошлом и не дальше advanceBookingDays от сегодняшнего дня
func withinBookingWindow(date, now time.Time, advanceBookingDays int) bool {
	dateOnly := truncateToDay(date)
	nowOnly := truncateToDay(now)

	if dateOnly.Before(nowOnly) {
		return false
	}

	// advanceBookingDays = 0 - без ограничения на глубину бронирования
	if advanceBookingDays == 0 {
		return true
	}

	maxDate := nowOnly.AddDate(0, 0, advanceBookingDays)
	return !dateOnly.After(maxDate)
}

// staffServesService проверяет, что сотрудник назначен на услугу
func staffServesService(service *bsClient.Service, staffID int64) bool {
	for _, id := range service.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}

// truncateToDay обнуляет время, оставляя только дату
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
