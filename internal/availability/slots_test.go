package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Понедельник 2025-10-13, бизнес работает 09:00-17:00
var (
	testMonday   = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	testSchedule = domain.WeekSchedule{
		Monday: domain.DaySchedule{IsOpen: true, OpenTime: tsPtr("09:00"), CloseTime: tsPtr("17:00")},
	}
	// Расчёт за день до даты - ограничение min_advance не действует
	testNow = time.Date(2025, 10, 12, 12, 0, 0, 0, time.UTC)
)

func testPolicy() *domain.ServiceBookingPolicy {
	p := domain.DefaultServiceBookingPolicy()
	p.BusinessID = 1
	p.DurationMinutes = 60
	p.SlotIntervalMinutes = 30
	return p
}

func slotStarts(slots []domain.AvailableSlot) []string {
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.StartTime.String())
	}
	return starts
}

func TestComputeSlots_FullDay(t *testing.T) {
	// 09:00-17:00, слот 60 минут, шаг 30 минут:
	// старты 09:00..16:00 с шагом 30 - ровно 15 слотов
	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           testPolicy(),
		Now:              testNow,
	})
	require.NoError(t, err)

	require.Len(t, slots, 15)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	assert.Equal(t, "10:00", slots[0].EndTime.String())
	assert.Equal(t, "16:00", slots[14].StartTime.String())
	assert.Equal(t, "17:00", slots[14].EndTime.String())

	for _, s := range slots {
		assert.Equal(t, 60, s.DurationMinutes)
		assert.Equal(t, 1, s.AvailableSpots)
		assert.Equal(t, 1, s.TotalSpots)
	}
}

func TestComputeSlots_BookingCutsOverlappingCandidates(t *testing.T) {
	// Бронирование 10:00-11:00 в пуле (capacity 1) убирает кандидатов
	// 09:30, 10:00 и 10:30; граничащие 09:00 и 11:00 остаются
	booking := &domain.Booking{
		ID: 1, BusinessID: 1, ServiceID: 10,
		StartTime: ts("10:00"), DurationMinutes: 60,
		Status: domain.StatusConfirmed,
	}

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           testPolicy(),
		Bookings:         []*domain.Booking{booking},
		Now:              testNow,
	})
	require.NoError(t, err)

	require.Len(t, slots, 12)
	starts := slotStarts(slots)
	assert.NotContains(t, starts, "09:30")
	assert.NotContains(t, starts, "10:00")
	assert.NotContains(t, starts, "10:30")
	assert.Contains(t, starts, "09:00")
	assert.Contains(t, starts, "11:00")
}

func TestComputeSlots_ClosedDay(t *testing.T) {
	tuesday := testMonday.AddDate(0, 0, 1)

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             tuesday,
		BusinessSchedule: testSchedule,
		Policy:           testPolicy(),
		Now:              testNow,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_StaffWindowIntersection(t *testing.T) {
	// Сотрудник работает 10:00-14:00 - слоты только в пересечении с окном бизнеса
	staff := &StaffCalendar{
		StaffID: 5,
		Schedule: domain.WeekSchedule{
			Monday: domain.DaySchedule{IsOpen: true, OpenTime: tsPtr("10:00"), CloseTime: tsPtr("14:00")},
		},
	}

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           testPolicy(),
		Staff:            staff,
		Now:              testNow,
	})
	require.NoError(t, err)

	// Старты 10:00..13:00 с шагом 30 - 7 слотов
	require.Len(t, slots, 7)
	assert.Equal(t, "10:00", slots[0].StartTime.String())
	assert.Equal(t, "13:00", slots[6].StartTime.String())
}

func TestComputeSlots_VacationEmptiesStaffSlots(t *testing.T) {
	staff := &StaffCalendar{
		StaffID:  5,
		Schedule: testSchedule,
		Exceptions: []domain.AvailabilityException{
			{StaffID: 5, Date: testMonday, Kind: domain.ExceptionVacation},
		},
	}

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           testPolicy(),
		Staff:            staff,
		Now:              testNow,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_PartialBlockRemovesOverlapping(t *testing.T) {
	// Блокировка 12:00-14:00 убирает кандидатов, пересекающих этот интервал
	staff := &StaffCalendar{
		StaffID:  5,
		Schedule: testSchedule,
		Exceptions: []domain.AvailabilityException{
			{StaffID: 5, Date: testMonday, Kind: domain.ExceptionBlocked,
				StartTime: tsPtr("12:00"), EndTime: tsPtr("14:00")},
		},
	}

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           testPolicy(),
		Staff:            staff,
		Now:              testNow,
	})
	require.NoError(t, err)

	starts := slotStarts(slots)
	assert.NotContains(t, starts, "11:30")
	assert.NotContains(t, starts, "12:00")
	assert.NotContains(t, starts, "13:30")
	assert.Contains(t, starts, "11:00")
	assert.Contains(t, starts, "14:00")
}

func TestComputeSlots_CapacityPool(t *testing.T) {
	policy := testPolicy()
	policy.CapacityPerSlot = 3

	bookings := []*domain.Booking{
		{ID: 1, BusinessID: 1, ServiceID: 10, StartTime: ts("10:00"), DurationMinutes: 60, Status: domain.StatusConfirmed},
		{ID: 2, BusinessID: 1, ServiceID: 10, StartTime: ts("10:00"), DurationMinutes: 60, Status: domain.StatusPending},
	}

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           policy,
		Bookings:         bookings,
		Now:              testNow,
	})
	require.NoError(t, err)

	bySlot := make(map[string]domain.AvailableSlot, len(slots))
	for _, s := range slots {
		bySlot[s.StartTime.String()] = s
	}

	// Слот 10:00 занят двумя из трёх мест
	taken, ok := bySlot["10:00"]
	require.True(t, ok)
	assert.Equal(t, 1, taken.AvailableSpots)
	assert.Equal(t, 3, taken.TotalSpots)

	// Свободный слот отдаёт полную вместимость
	free, ok := bySlot["14:00"]
	require.True(t, ok)
	assert.Equal(t, 3, free.AvailableSpots)
}

func TestComputeSlots_RequiresStaffAnyOf(t *testing.T) {
	policy := testPolicy()
	policy.RequiresStaff = true

	allStaff := []StaffCalendar{
		{StaffID: 1, Schedule: testSchedule},
		{StaffID: 2, Schedule: testSchedule},
	}
	// Первый сотрудник занят в 10:00
	bookings := []*domain.Booking{
		{ID: 1, BusinessID: 1, ServiceID: 10, StaffID: i64(1),
			StartTime: ts("10:00"), DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           policy,
		AllStaff:         allStaff,
		RequiresStaff:    true,
		Bookings:         bookings,
		Now:              testNow,
	})
	require.NoError(t, err)

	bySlot := make(map[string]domain.AvailableSlot, len(slots))
	for _, s := range slots {
		bySlot[s.StartTime.String()] = s
	}

	// Пока свободен хотя бы один сотрудник, слот доступен
	taken, ok := bySlot["10:00"]
	require.True(t, ok)
	assert.Equal(t, 1, taken.AvailableSpots)
	assert.Equal(t, 2, taken.TotalSpots)

	free, ok := bySlot["14:00"]
	require.True(t, ok)
	assert.Equal(t, 2, free.AvailableSpots)
}

func TestComputeSlots_MinAdvanceCutsToday(t *testing.T) {
	policy := testPolicy()
	policy.MinAdvanceHours = 2

	// Расчёт в 10:15 дня бронирования: допустимы старты с 12:15,
	// первый кандидат на сетке - 12:30
	now := time.Date(2025, 10, 13, 10, 15, 0, 0, time.UTC)

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           policy,
		Now:              now,
	})
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	assert.Equal(t, "12:30", slots[0].StartTime.String())
}

func TestComputeSlots_PastDateYieldsNothing(t *testing.T) {
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC) // день после даты

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           testPolicy(),
		Now:              now,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestComputeSlots_LateClosingWindowStopsAtMidnight(t *testing.T) {
	// Окно до 23:59: кандидат, чей конец пересёк бы полночь, завершает
	// перебор, а собранные до него слоты сохраняются
	schedule := domain.WeekSchedule{
		Monday: domain.DaySchedule{IsOpen: true, OpenTime: tsPtr("09:00"), CloseTime: tsPtr("23:59")},
	}
	policy := testPolicy()
	policy.DurationMinutes = 50

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: schedule,
		Policy:           policy,
		Now:              testNow,
	})
	require.NoError(t, err)

	require.NotEmpty(t, slots)
	last := slots[len(slots)-1]
	assert.Equal(t, "23:00", last.StartTime.String())
	assert.Equal(t, "23:50", last.EndTime.String())
}

func TestComputeSlots_ShortDurationDoesNotFitAfterClose(t *testing.T) {
	policy := testPolicy()
	policy.DurationMinutes = 90
	policy.SlotIntervalMinutes = 60

	slots, err := ComputeSlots(ComputeInput{
		ServiceID:        10,
		Date:             testMonday,
		BusinessSchedule: testSchedule,
		Policy:           policy,
		Now:              testNow,
	})
	require.NoError(t, err)

	// Последний допустимый старт 15:00 (конец 16:30 <= 17:00, следующий 16:00+90 > 17:00)
	require.NotEmpty(t, slots)
	last := slots[len(slots)-1]
	assert.Equal(t, "15:00", last.StartTime.String())
	assert.Equal(t, "16:30", last.EndTime.String())
}
