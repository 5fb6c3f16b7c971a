// Package availability чистая логика движка доступности:
// детекция пересечений бронирований и генерация доступных слотов.
// Функции не имеют side effects и детерминированы относительно входа.
package availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// StaffCalendar календарь сотрудника: недельное расписание плюс датированные исключения
type StaffCalendar struct {
	StaffID    int64
	Schedule   domain.WeekSchedule
	Exceptions []domain.AvailabilityException
}

// overlapsInterval проверяет пересечение бронирования с интервалом [start, end)
// Полуоткрытые интервалы: [s1,e1) и [s2,e2) пересекаются iff s1 < e2 && s2 < e1,
// граничащие интервалы пересечением не считаются
func overlapsInterval(b *domain.Booking, start, end types.TimeString) bool {
	bookingEnd, err := b.EndTime()
	if err != nil {
		// Некорректное время бронирования не должно блокировать слот
		return false
	}
	return b.StartTime.IsBefore(end) && start.IsBefore(bookingEnd)
}

// CountStaffOverlapping подсчитывает неотменённые бронирования сотрудника,
// пересекающиеся с интервалом [start, end). excludeID исключает бронирование
// из собственной проверки (используется при переносе)
func CountStaffOverlapping(bookings []*domain.Booking, staffID int64, start, end types.TimeString, excludeID int64) int {
	count := 0
	for _, b := range bookings {
		if !b.BlocksSlot() {
			continue
		}
		if b.ID == excludeID {
			continue
		}
		if b.StaffID == nil || *b.StaffID != staffID {
			continue
		}
		if overlapsInterval(b, start, end) {
			count++
		}
	}
	return count
}

// CountPoolOverlapping подсчитывает неотменённые бронирования услуги без сотрудника
// (capacity pool), пересекающиеся с интервалом [start, end)
func CountPoolOverlapping(bookings []*domain.Booking, serviceID int64, start, end types.TimeString, excludeID int64) int {
	count := 0
	for _, b := range bookings {
		if !b.BlocksSlot() {
			continue
		}
		if b.ID == excludeID {
			continue
		}
		if b.StaffID != nil || b.ServiceID != serviceID {
			continue
		}
		if overlapsInterval(b, start, end) {
			count++
		}
	}
	return count
}

// HasStaffConflict возвращает true, если у сотрудника есть пересекающееся бронирование
func HasStaffConflict(bookings []*domain.Booking, staffID int64, start, end types.TimeString, excludeID int64) bool {
	return CountStaffOverlapping(bookings, staffID, start, end, excludeID) > 0
}

// HasPoolConflict возвращает true, когда вместимость пула на интервале исчерпана
// При capacity = 4 допустимо 0..3 пересекающихся бронирований
func HasPoolConflict(bookings []*domain.Booking, serviceID int64, start, end types.TimeString, capacity int, excludeID int64) bool {
	return CountPoolOverlapping(bookings, serviceID, start, end, excludeID) >= capacity
}

// StaffFreeFor возвращает true, если сотрудник может принять запись [start, end) на дату:
// открыт по расписанию, не заблокирован исключением и не имеет пересечений
func StaffFreeFor(staff StaffCalendar, date time.Time, start, end types.TimeString, bookings []*domain.Booking, excludeID int64) bool {
	window := staff.Schedule.WindowFor(date)
	if window == nil || !window.Contains(start, end) {
		return false
	}
	if domain.StaffBlocked(staff.Exceptions, date, start, end) {
		return false
	}
	return !HasStaffConflict(bookings, staff.StaffID, start, end, excludeID)
}

// AnyStaffAvailable возвращает true, если хотя бы один сотрудник услуги
// может принять запись [start, end) на дату
func AnyStaffAvailable(staff []StaffCalendar, date time.Time, start, end types.TimeString, bookings []*domain.Booking) bool {
	for _, s := range staff {
		if StaffFreeFor(s, date, start, end, bookings, 0) {
			return true
		}
	}
	return false
}

// CountStaffFreeFor подсчитывает сотрудников, свободных для записи [start, end)
func CountStaffFreeFor(staff []StaffCalendar, date time.Time, start, end types.TimeString, bookings []*domain.Booking) int {
	count := 0
	for _, s := range staff {
		if StaffFreeFor(s, date, start, end, bookings, 0) {
			count++
		}
	}
	return count
}
