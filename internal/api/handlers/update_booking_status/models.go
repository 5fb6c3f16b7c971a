package update_booking_status

import "github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"

// UpdateStatusRequest HTTP модель запроса на обновление статуса
type UpdateStatusRequest struct {
	Status string `json:"status"` // confirmed | completed | no_show
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(userID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID: userID,
		Status: r.Status,
	}
}
