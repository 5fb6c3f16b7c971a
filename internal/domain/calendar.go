package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	// ErrInvalidSchedule возвращается при некорректном расписании (open >= close и т.п.)
	ErrInvalidSchedule = errors.New("domain: invalid schedule")

	// ErrInvalidException возвращается при некорректном исключении доступности
	ErrInvalidException = errors.New("domain: invalid availability exception")
)

// DaySchedule рабочие часы на один день недели
// Закрытый день: IsOpen=false, времена не заданы
type DaySchedule struct {
	IsOpen    bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
}

// Validate проверяет корректность дневного расписания
func (d DaySchedule) Validate() error {
	if !d.IsOpen {
		return nil
	}
	if d.OpenTime == nil || d.CloseTime == nil {
		return fmt.Errorf("%w: open day requires open and close times", ErrInvalidSchedule)
	}
	if err := d.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if err := d.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if !d.OpenTime.IsBefore(*d.CloseTime) {
		return fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidSchedule, *d.OpenTime, *d.CloseTime)
	}
	return nil
}

// Window возвращает рабочее окно дня, либо nil если день закрыт
func (d DaySchedule) Window() *TimeWindow {
	if !d.IsOpen || d.OpenTime == nil || d.CloseTime == nil {
		return nil
	}
	return &TimeWindow{Open: *d.OpenTime, Close: *d.CloseTime}
}

// TimeWindow рабочее окно [Open, Close)
type TimeWindow struct {
	Open  types.TimeString
	Close types.TimeString
}

// Contains возвращает true, если интервал [start, end) целиком внутри окна
func (w TimeWindow) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(w.Open) && !end.IsAfter(w.Close)
}

// Intersect возвращает пересечение двух окон, либо nil если оно пусто
func (w TimeWindow) Intersect(other TimeWindow) *TimeWindow {
	open := w.Open
	if other.Open.IsAfter(open) {
		open = other.Open
	}
	close := w.Close
	if other.Close.IsBefore(close) {
		close = other.Close
	}
	if !open.IsBefore(close) {
		return nil
	}
	return &TimeWindow{Open: open, Close: close}
}

// WeekSchedule типизированное недельное расписание
type WeekSchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// Validate проверяет все дни недели
func (w WeekSchedule) Validate() error {
	days := []struct {
		name string
		day  DaySchedule
	}{
		{"monday", w.Monday}, {"tuesday", w.Tuesday}, {"wednesday", w.Wednesday},
		{"thursday", w.Thursday}, {"friday", w.Friday}, {"saturday", w.Saturday},
		{"sunday", w.Sunday},
	}
	for _, d := range days {
		if err := d.day.Validate(); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}
	return nil
}

// DayFor возвращает расписание на день недели указанной даты
func (w WeekSchedule) DayFor(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// WindowFor возвращает рабочее окно на дату, либо nil если закрыто
func (w WeekSchedule) WindowFor(date time.Time) *TimeWindow {
	return w.DayFor(date).Window()
}

// IsOpenAt возвращает true, если интервал [start, end) попадает в рабочие часы даты
func (w WeekSchedule) IsOpenAt(date time.Time, start, end types.TimeString) bool {
	window := w.WindowFor(date)
	if window == nil {
		return false
	}
	return window.Contains(start, end)
}

// ExceptionKind тип исключения доступности сотрудника
type ExceptionKind string

const (
	ExceptionAvailable ExceptionKind = "available"
	ExceptionVacation  ExceptionKind = "vacation"
	ExceptionSick      ExceptionKind = "sick"
	ExceptionBlocked   ExceptionKind = "blocked"
)

// IsBlocking возвращает true для типов, убирающих сотрудника из доступности
func (k ExceptionKind) IsBlocking() bool {
	return k == ExceptionVacation || k == ExceptionSick || k == ExceptionBlocked
}

// Valid проверяет, что тип исключения известен
func (k ExceptionKind) Valid() bool {
	switch k {
	case ExceptionAvailable, ExceptionVacation, ExceptionSick, ExceptionBlocked:
		return true
	}
	return false
}

// AvailabilityException датированное исключение доступности сотрудника
// Без StartTime/EndTime действует на весь день, иначе на под-интервал [StartTime, EndTime)
type AvailabilityException struct {
	ID        int64
	StaffID   int64
	Date      time.Time
	Kind      ExceptionKind
	StartTime *types.TimeString
	EndTime   *types.TimeString
	Reason    *string
	CreatedAt time.Time
}

// Validate проверяет корректность исключения
func (e AvailabilityException) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidException, e.Kind)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidException)
	}
	if (e.StartTime == nil) != (e.EndTime == nil) {
		return fmt.Errorf("%w: start and end times must be set together", ErrInvalidException)
	}
	if e.StartTime != nil {
		if err := e.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidException, err)
		}
		if err := e.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidException, err)
		}
		if !e.StartTime.IsBefore(*e.EndTime) {
			return fmt.Errorf("%w: start time must be before end time", ErrInvalidException)
		}
	}
	return nil
}

// IsWholeDay возвращает true, если исключение действует на весь день
func (e AvailabilityException) IsWholeDay() bool {
	return e.StartTime == nil && e.EndTime == nil
}

// BlocksInterval возвращает true, если исключение блокирует интервал [start, end) своей даты
func (e AvailabilityException) BlocksInterval(start, end types.TimeString) bool {
	if !e.Kind.IsBlocking() {
		return false
	}
	if e.IsWholeDay() {
		return true
	}
	// Полуоткрытые интервалы: пересечение есть, если start < e.End && e.Start < end
	return start.IsBefore(*e.EndTime) && e.StartTime.IsBefore(end)
}

// StaffBlocked возвращает true, если хотя бы одно исключение на дату блокирует интервал
func StaffBlocked(exceptions []AvailabilityException, date time.Time, start, end types.TimeString) bool {
	for _, e := range exceptions {
		if !sameDay(e.Date, date) {
			continue
		}
		if e.BlocksInterval(start, end) {
			return true
		}
	}
	return false
}

// StaffBlockedWholeDay возвращает true, если сотрудник недоступен весь день
func StaffBlockedWholeDay(exceptions []AvailabilityException, date time.Time) bool {
	for _, e := range exceptions {
		if !sameDay(e.Date, date) {
			continue
		}
		if e.Kind.IsBlocking() && e.IsWholeDay() {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
