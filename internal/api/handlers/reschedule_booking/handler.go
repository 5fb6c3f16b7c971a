package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	rescheduleBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID    = "некорректный ID бронирования"
	msgInvalidBody         = "некорректное тело запроса"
	msgUnauthorized        = "пользователь не авторизован"
	msgBookingNotFound     = "бронирование не найдено"
	msgForbidden           = "нет доступа к этому бронированию"
	msgInvalidStatus       = "бронирование нельзя перенести в текущем статусе"
	msgTooLateToReschedule = "срок переноса бронирования истёк"
	msgStaffNotFound       = "сотрудник не найден"
	msgStaffNotAssigned    = "сотрудник не обслуживает эту услугу"
	msgStaffUnavailable    = "сотрудник недоступен в выбранное время"
	msgInvalidDate         = "дата бронирования в прошлом"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgTooLateToBook       = "время бронирования слишком близко"
	msgBusinessClosed      = "бизнес не работает в выбранное время"
	msgSlotNotAvailable    = "выбранный слот уже занят"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/reschedule
// Требует авторизации, перенести может только владелец бронирования.
// Старое бронирование отменяется, взамен атомарно создаётся новое
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid booking ID: %s", vars["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var httpReq RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &httpReq); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	req, err := httpReq.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid request data: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrForbidden):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrInvalidStatus):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid status: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgInvalidStatus)

		case errors.Is(err, rescheduleBooking.ErrTooLateToReschedule):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Too late to reschedule: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgTooLateToReschedule)

		case errors.Is(err, rescheduleBooking.ErrStaffNotFound):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Staff not found: staff_id=%v", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, rescheduleBooking.ErrStaffNotAssigned):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Staff not assigned: staff_id=%v", req.StaffID)
			handlers.RespondBadRequest(w, msgStaffNotAssigned)

		case errors.Is(err, rescheduleBooking.ErrStaffUnavailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Staff unavailable: booking_id=%d, date=%s",
				bookingID, httpReq.Date)
			handlers.RespondError(w, http.StatusConflict, msgStaffUnavailable)

		case errors.Is(err, rescheduleBooking.ErrInvalidDate):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Date in the past: date=%s", httpReq.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, rescheduleBooking.ErrDateTooFarInFuture):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Date too far in future: date=%s", httpReq.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, rescheduleBooking.ErrTooLateToBook):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Too late to book: date=%s, start_time=%s",
				httpReq.Date, httpReq.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, rescheduleBooking.ErrBusinessClosed):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Business closed: booking_id=%d, date=%s",
				bookingID, httpReq.Date)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, rescheduleBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Slot not available: booking_id=%d, date=%s, start_time=%s",
				bookingID, httpReq.Date, httpReq.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/reschedule - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/reschedule - Booking rescheduled: old_booking_id=%d, new_booking_id=%d, user_id=%d",
		bookingID, result.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
