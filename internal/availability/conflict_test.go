package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func i64(v int64) *int64 {
	return &v
}

func staffBooking(id, staffID int64, start string, minutes int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		BusinessID:      1,
		ServiceID:       10,
		StaffID:         i64(staffID),
		StartTime:       ts(start),
		DurationMinutes: minutes,
		Status:          status,
	}
}

func poolBooking(id, serviceID int64, start string, minutes int) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		BusinessID:      1,
		ServiceID:       serviceID,
		StartTime:       ts(start),
		DurationMinutes: minutes,
		Status:          domain.StatusConfirmed,
	}
}

func TestHasStaffConflict(t *testing.T) {
	bookings := []*domain.Booking{
		staffBooking(1, 5, "10:00", 60, domain.StatusConfirmed),
	}

	// Пересечение
	assert.True(t, HasStaffConflict(bookings, 5, ts("10:30"), ts("11:30"), 0))
	assert.True(t, HasStaffConflict(bookings, 5, ts("09:30"), ts("10:30"), 0))
	assert.True(t, HasStaffConflict(bookings, 5, ts("10:00"), ts("11:00"), 0))

	// Граничащие интервалы не конфликтуют
	assert.False(t, HasStaffConflict(bookings, 5, ts("11:00"), ts("12:00"), 0))
	assert.False(t, HasStaffConflict(bookings, 5, ts("09:00"), ts("10:00"), 0))

	// Другой сотрудник не конфликтует
	assert.False(t, HasStaffConflict(bookings, 6, ts("10:30"), ts("11:30"), 0))
}

func TestHasStaffConflict_CancelledDoesNotBlock(t *testing.T) {
	bookings := []*domain.Booking{
		staffBooking(1, 5, "10:00", 60, domain.StatusCancelled),
	}
	assert.False(t, HasStaffConflict(bookings, 5, ts("10:00"), ts("11:00"), 0))

	// no_show продолжает занимать слот
	bookings[0].Status = domain.StatusNoShow
	assert.True(t, HasStaffConflict(bookings, 5, ts("10:00"), ts("11:00"), 0))
}

func TestHasStaffConflict_ExcludeID(t *testing.T) {
	bookings := []*domain.Booking{
		staffBooking(42, 5, "10:00", 60, domain.StatusConfirmed),
	}

	// Бронирование не конфликтует само с собой при переносе
	assert.False(t, HasStaffConflict(bookings, 5, ts("10:00"), ts("11:00"), 42))
	assert.True(t, HasStaffConflict(bookings, 5, ts("10:00"), ts("11:00"), 0))
}

func TestHasPoolConflict(t *testing.T) {
	bookings := []*domain.Booking{
		poolBooking(1, 10, "10:00", 60),
		poolBooking(2, 10, "10:00", 60),
		poolBooking(3, 10, "10:30", 60),
	}

	// 3 пересекающихся при capacity 4 - место есть
	assert.False(t, HasPoolConflict(bookings, 10, ts("10:30"), ts("11:30"), 4, 0))
	// При capacity 3 - пул заполнен
	assert.True(t, HasPoolConflict(bookings, 10, ts("10:30"), ts("11:30"), 3, 0))

	// Другая услуга имеет собственный пул
	assert.False(t, HasPoolConflict(bookings, 11, ts("10:30"), ts("11:30"), 1, 0))
}

func TestHasPoolConflict_StaffBookingsDoNotCount(t *testing.T) {
	bookings := []*domain.Booking{
		staffBooking(1, 5, "10:00", 60, domain.StatusConfirmed),
	}
	// Бронирования с сотрудником не входят в capacity pool услуги
	assert.False(t, HasPoolConflict(bookings, 10, ts("10:00"), ts("11:00"), 1, 0))
}

func TestStaffFreeFor(t *testing.T) {
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC) // понедельник
	staff := StaffCalendar{
		StaffID: 5,
		Schedule: domain.WeekSchedule{
			Monday: domain.DaySchedule{IsOpen: true, OpenTime: tsPtr("09:00"), CloseTime: tsPtr("17:00")},
		},
	}

	assert.True(t, StaffFreeFor(staff, date, ts("10:00"), ts("11:00"), nil, 0))

	// Вне рабочего окна
	assert.False(t, StaffFreeFor(staff, date, ts("08:00"), ts("09:00"), nil, 0))
	assert.False(t, StaffFreeFor(staff, date, ts("16:30"), ts("17:30"), nil, 0))

	// Выходной день
	tuesday := date.AddDate(0, 0, 1)
	assert.False(t, StaffFreeFor(staff, tuesday, ts("10:00"), ts("11:00"), nil, 0))

	// Занят пересекающимся бронированием
	bookings := []*domain.Booking{staffBooking(1, 5, "10:00", 60, domain.StatusConfirmed)}
	assert.False(t, StaffFreeFor(staff, date, ts("10:30"), ts("11:30"), bookings, 0))

	// Заблокирован исключением
	staff.Exceptions = []domain.AvailabilityException{
		{StaffID: 5, Date: date, Kind: domain.ExceptionVacation},
	}
	assert.False(t, StaffFreeFor(staff, date, ts("10:00"), ts("11:00"), nil, 0))
}

func TestCountStaffFreeFor(t *testing.T) {
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	schedule := domain.WeekSchedule{
		Monday: domain.DaySchedule{IsOpen: true, OpenTime: tsPtr("09:00"), CloseTime: tsPtr("17:00")},
	}
	staff := []StaffCalendar{
		{StaffID: 1, Schedule: schedule},
		{StaffID: 2, Schedule: schedule},
		{StaffID: 3, Schedule: schedule},
	}

	assert.Equal(t, 3, CountStaffFreeFor(staff, date, ts("10:00"), ts("11:00"), nil))

	bookings := []*domain.Booking{staffBooking(1, 1, "10:00", 60, domain.StatusConfirmed)}
	assert.Equal(t, 2, CountStaffFreeFor(staff, date, ts("10:00"), ts("11:00"), bookings))
	assert.True(t, AnyStaffAvailable(staff, date, ts("10:00"), ts("11:00"), bookings))

	bookings = append(bookings,
		staffBooking(2, 2, "10:00", 60, domain.StatusConfirmed),
		staffBooking(3, 3, "10:00", 60, domain.StatusConfirmed),
	)
	assert.Equal(t, 0, CountStaffFreeFor(staff, date, ts("10:00"), ts("11:00"), bookings))
	assert.False(t, AnyStaffAvailable(staff, date, ts("10:00"), ts("11:00"), bookings))
}
