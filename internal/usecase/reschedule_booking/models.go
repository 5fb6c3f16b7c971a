package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID  int64            // ID переносимого бронирования
	CustomerID int64            // ID клиента-владельца
	Date       time.Time        // Новая дата
	StartTime  types.TimeString // Новое время начала
	StaffID    *int64           // Новый сотрудник (nil = оставить прежнего)
}

// Response модель ответа с новым бронированием
type Response struct {
	ID              int64            // ID нового бронирования
	OldBookingID    int64            // ID отменённого бронирования
	CustomerID      int64            // ID клиента
	BusinessID      int64            // ID бизнеса
	ServiceID       int64            // ID услуги
	StaffID         *int64           // ID сотрудника
	BookingDate     time.Time        // Новая дата
	StartTime       types.TimeString // Новое время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус бронирования (наследуется от старого)
	ServiceName     string           // Название услуги
	ServicePrice    float64          // Цена услуги
	Notes           *string          // Заметки
	CreatedAt       time.Time        // Время создания
}
