package list_fields

import (
	"net/http"

	"github.com/m04kA/SMC-FieldBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FieldBookingService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
)

// Handler отдает список полей: все доступные или поля текущего владельца
type Handler struct {
	service FieldService
	ownOnly bool
	logger  Logger
}

// NewHandler GET /api/v1/fields
func NewHandler(service FieldService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// NewOwnerHandler GET /api/v1/owners/me/fields
func NewOwnerHandler(service FieldService, logger Logger) *Handler {
	return &Handler{
		service: service,
		ownOnly: true,
		logger:  logger,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.ownOnly {
		result, err := h.service.ListAvailable(r.Context())
		if err != nil {
			h.logger.Error("GET /fields - Failed to list fields: %v", err)
			handlers.RespondInternalError(w)
			return
		}

		h.logger.Info("GET /fields - Fields retrieved successfully: count=%d", len(result.Fields))
		handlers.RespondJSON(w, http.StatusOK, result.Fields)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /owners/me/fields - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListByOwner(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /owners/me/fields - Failed to list fields: owner_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /owners/me/fields - Fields retrieved successfully: owner_id=%d, count=%d",
		userID, len(result.Fields))
	handlers.RespondJSON(w, http.StatusOK, result.Fields)
}
