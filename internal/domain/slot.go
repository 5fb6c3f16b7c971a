package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailableSlot represents a time slot available for booking
// Интервал слота [StartTime, EndTime), длина равна длительности услуги
type AvailableSlot struct {
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	DurationMinutes int              `json:"durationMinutes"`
	AvailableSpots  int              `json:"availableSpots"`
	TotalSpots      int              `json:"totalSpots"`
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// Overlaps возвращает true, если слот пересекается с интервалом [start, end)
func (s *AvailableSlot) Overlaps(start, end types.TimeString) bool {
	return s.StartTime.IsBefore(end) && start.IsBefore(s.EndTime)
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	BusinessID      int64      // Обязательный параметр
	ServiceID       *int64     // Фильтр по услуге (опционально)
	StaffID         *int64     // Фильтр по сотруднику (опционально)
	Date            *time.Time // Конкретная дата (опционально)
	Status          *BookingStatus
	IncludeInactive bool // Включать ли отменённые бронирования
}
