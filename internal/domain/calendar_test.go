package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

func openDay(open, close string) DaySchedule {
	return DaySchedule{IsOpen: true, OpenTime: tsPtr(open), CloseTime: tsPtr(close)}
}

func TestDaySchedule_Validate(t *testing.T) {
	assert.NoError(t, openDay("09:00", "17:00").Validate())
	assert.NoError(t, DaySchedule{IsOpen: false}.Validate())

	err := DaySchedule{IsOpen: true}.Validate()
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	err = openDay("17:00", "09:00").Validate()
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestTimeWindow_Contains(t *testing.T) {
	w := TimeWindow{Open: ts("09:00"), Close: ts("17:00")}

	assert.True(t, w.Contains(ts("09:00"), ts("10:00")))
	assert.True(t, w.Contains(ts("16:00"), ts("17:00")))
	assert.False(t, w.Contains(ts("08:30"), ts("09:30")))
	assert.False(t, w.Contains(ts("16:30"), ts("17:30")))
}

func TestTimeWindow_Intersect(t *testing.T) {
	a := TimeWindow{Open: ts("09:00"), Close: ts("17:00")}
	b := TimeWindow{Open: ts("10:00"), Close: ts("18:00")}

	got := a.Intersect(b)
	require.NotNil(t, got)
	assert.Equal(t, ts("10:00"), got.Open)
	assert.Equal(t, ts("17:00"), got.Close)

	// Непересекающиеся окна
	c := TimeWindow{Open: ts("18:00"), Close: ts("20:00")}
	assert.Nil(t, a.Intersect(c))

	// Граничащие окна не пересекаются
	d := TimeWindow{Open: ts("17:00"), Close: ts("20:00")}
	assert.Nil(t, a.Intersect(d))
}

func TestWeekSchedule_WindowFor(t *testing.T) {
	schedule := WeekSchedule{
		Monday:  openDay("09:00", "17:00"),
		Tuesday: DaySchedule{IsOpen: false},
	}

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC) // понедельник
	window := schedule.WindowFor(monday)
	require.NotNil(t, window)
	assert.Equal(t, ts("09:00"), window.Open)

	tuesday := monday.AddDate(0, 0, 1)
	assert.Nil(t, schedule.WindowFor(tuesday))
}

func TestAvailabilityException_BlocksInterval(t *testing.T) {
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	wholeDay := AvailabilityException{StaffID: 1, Date: date, Kind: ExceptionVacation}
	assert.True(t, wholeDay.BlocksInterval(ts("10:00"), ts("11:00")))

	partial := AvailabilityException{
		StaffID: 1, Date: date, Kind: ExceptionBlocked,
		StartTime: tsPtr("12:00"), EndTime: tsPtr("14:00"),
	}
	assert.True(t, partial.BlocksInterval(ts("13:00"), ts("14:00")))
	assert.True(t, partial.BlocksInterval(ts("11:30"), ts("12:30")))
	// Граничащие интервалы не блокируются
	assert.False(t, partial.BlocksInterval(ts("14:00"), ts("15:00")))
	assert.False(t, partial.BlocksInterval(ts("11:00"), ts("12:00")))

	// available не блокирует даже при пересечении
	marker := AvailabilityException{StaffID: 1, Date: date, Kind: ExceptionAvailable}
	assert.False(t, marker.BlocksInterval(ts("10:00"), ts("11:00")))
}

func TestStaffBlocked(t *testing.T) {
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	otherDate := date.AddDate(0, 0, 1)

	exceptions := []AvailabilityException{
		{StaffID: 1, Date: date, Kind: ExceptionBlocked, StartTime: tsPtr("12:00"), EndTime: tsPtr("13:00")},
	}

	assert.True(t, StaffBlocked(exceptions, date, ts("12:30"), ts("13:30")))
	assert.False(t, StaffBlocked(exceptions, date, ts("10:00"), ts("11:00")))
	// Исключение другой даты не действует
	assert.False(t, StaffBlocked(exceptions, otherDate, ts("12:30"), ts("13:30")))
}

func TestStaffBlockedWholeDay(t *testing.T) {
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	vacation := []AvailabilityException{{StaffID: 1, Date: date, Kind: ExceptionVacation}}
	assert.True(t, StaffBlockedWholeDay(vacation, date))

	partial := []AvailabilityException{
		{StaffID: 1, Date: date, Kind: ExceptionBlocked, StartTime: tsPtr("12:00"), EndTime: tsPtr("13:00")},
	}
	assert.False(t, StaffBlockedWholeDay(partial, date))
}

func TestAvailabilityException_Validate(t *testing.T) {
	date := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, AvailabilityException{StaffID: 1, Date: date, Kind: ExceptionVacation}.Validate())

	err := AvailabilityException{StaffID: 1, Date: date, Kind: "weekend"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidException)

	// Время начала без времени окончания
	err = AvailabilityException{StaffID: 1, Date: date, Kind: ExceptionBlocked, StartTime: tsPtr("12:00")}.Validate()
	assert.ErrorIs(t, err, ErrInvalidException)

	err = AvailabilityException{
		StaffID: 1, Date: date, Kind: ExceptionBlocked,
		StartTime: tsPtr("14:00"), EndTime: tsPtr("12:00"),
	}.Validate()
	assert.ErrorIs(t, err, ErrInvalidException)
}
