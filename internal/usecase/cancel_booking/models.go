package cancel_booking

import "time"

// Request модель запроса на отмену бронирования клиентом
type Request struct {
	BookingID  int64   // ID бронирования
	CustomerID int64   // ID клиента-владельца
	Reason     *string // Причина отмены (опционально)
}

// ForcedRequest модель запроса на принудительную отмену бизнесом
type ForcedRequest struct {
	BookingID int64  // ID бронирования
	ManagerID int64  // ID менеджера бизнеса
	Reason    string // Причина отмены (обязательна для принудительной отмены)
}

// Response модель ответа с результатом отмены
type Response struct {
	ID             int64     // ID бронирования
	Status         string    // Итоговый статус (cancelled)
	CancelledBy    string    // Инициатор отмены
	Reason         *string   // Причина отмены
	RefundFraction float64   // Зафиксированная доля возврата
	CancelledAt    time.Time // Время отмены
}
