package get_owner_stats

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FieldBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FieldBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/fields"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "статистика доступна только владельцам полей"
)

type Handler struct {
	service FieldService
	logger  Logger
}

func NewHandler(service FieldService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/owners/me/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /owners/me/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())

	stats, err := h.service.GetOwnerStats(r.Context(), userID, role)
	if err != nil {
		if errors.Is(err, fields.ErrAccessDenied) {
			h.logger.Warn("GET /owners/me/stats - Access denied: user_id=%d, role=%s", userID, role)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}

		h.logger.Error("GET /owners/me/stats - Failed to get stats: owner_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /owners/me/stats - Stats retrieved successfully: owner_id=%d, fields=%d",
		userID, len(stats.Fields))
	handlers.RespondJSON(w, http.StatusOK, stats)
}
