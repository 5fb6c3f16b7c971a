package get_business_config

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
	msgInvalidServiceID  = "некорректный ID услуги"
	msgUnauthorized      = "пользователь не авторизован"
	msgBusinessNotFound  = "бизнес не найден"
	msgForbidden         = "операция доступна только менеджерам бизнеса"
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

// Handle GET /api/v1/businesses/{businessId}/config
// Query params: serviceId (опционально), all=true для списка всех политик бизнеса
// Действующая политика публична; список всех политик доступен только менеджерам
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/config - Invalid business ID: %s", vars["businessId"])
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	query := r.URL.Query()

	if query.Get("all") == "true" {
		h.handleList(w, r, businessID)
		return
	}

	var serviceID *int64
	if raw := query.Get("serviceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /businesses/{id}/config - Invalid service ID: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = &id
	}

	result, err := h.service.GetWithHierarchy(r.Context(), businessID, serviceID)
	if err != nil {
		h.logger.Error("GET /businesses/{id}/config - Failed: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/config - Policy fetched: business_id=%d, service_id=%v",
		businessID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// handleList возвращает все политики бизнеса (только для менеджеров)
// Роут публичный, поэтому заголовок X-User-ID разбирается вручную
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, businessID int64) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		raw := r.Header.Get(middleware.HeaderUserID)
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			h.logger.Warn("GET /businesses/{id}/config - Missing user ID for policy list")
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		userID = parsed
	}

	result, err := h.service.GetAllByBusiness(r.Context(), businessID, userID)
	if err != nil {
		switch {
		case errors.Is(err, configService.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/config - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, configService.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/config - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /businesses/{id}/config - Failed to list policies: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/config - %d policies returned: business_id=%d",
		len(result.Policies), businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
