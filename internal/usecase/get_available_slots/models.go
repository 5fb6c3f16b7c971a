package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	StaffID    *int64    // ID сотрудника (опционально; nil = любой сотрудник / пул)
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	BusinessID int64                  // ID бизнеса
	ServiceID  int64                  // ID услуги
	StaffID    *int64                 // ID сотрудника, если слоты считались под конкретного
	Date       time.Time              // Дата, на которую запрашивались слоты
	Slots      []domain.AvailableSlot // Упорядоченный список доступных слотов
}
