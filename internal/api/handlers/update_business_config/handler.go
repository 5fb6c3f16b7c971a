package update_business_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	configService "github.com/m04kA/SMC-SchedulingService/internal/service/config"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidBody       = "некорректное тело запроса"
	msgUnauthorized      = "пользователь не авторизован"
	msgBusinessNotFound  = "бизнес не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgForbidden         = "операция доступна только менеджерам бизнеса"
	msgPolicyConflict    = "политика для этой услуги уже существует"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/config
// Требует авторизации, доступно только менеджерам бизнеса.
// Upsert: если политика для пары (бизнес, услуга) уже есть - обновляет её,
// иначе создаёт новую с дефолтами для не указанных полей
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/config - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid business ID: %s", vars["businessId"])
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var httpReq UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &httpReq); err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	// Ищем политику ровно для запрошенной пары (бизнес, услуга).
	// GetWithHierarchy может вернуть политику уровня бизнеса или дефолты -
	// в этих случаях для запрошенной пары создаётся новая запись
	existing, err := h.service.GetWithHierarchy(r.Context(), businessID, httpReq.ServiceID)
	if err != nil {
		h.logger.Error("PUT /businesses/{id}/config - Failed to resolve policy: business_id=%d, error=%v",
			businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	var result interface{}
	if existing.ID != 0 && sameScope(existing.ServiceID, httpReq.ServiceID) {
		result, err = h.service.Update(r.Context(), existing.ID, httpReq.ToUpdateRequest(userID))
	} else {
		result, err = h.service.Create(r.Context(), httpReq.ToCreateRequest(userID, businessID))
	}
	if err != nil {
		switch {
		case errors.Is(err, configService.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/config - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, configService.ErrServiceNotFound):
			h.logger.Warn("PUT /businesses/{id}/config - Service not found: service_id=%v", httpReq.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, configService.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/config - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, configService.ErrPolicyAlreadyExists):
			h.logger.Warn("PUT /businesses/{id}/config - Policy conflict: business_id=%d, service_id=%v",
				businessID, httpReq.ServiceID)
			handlers.RespondError(w, http.StatusConflict, msgPolicyConflict)

		case errors.Is(err, configService.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/config - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBody)

		default:
			h.logger.Error("PUT /businesses/{id}/config - Failed: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/config - Policy saved: business_id=%d, service_id=%v, user_id=%d",
		businessID, httpReq.ServiceID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// sameScope сравнивает serviceID найденной политики с запрошенным
func sameScope(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
