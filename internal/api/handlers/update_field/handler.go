package update_field

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FieldBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FieldBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/fields"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/fields/models"
)

const (
	msgInvalidFieldID     = "некорректный ID поля"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные поля"
	msgNotFound           = "поле не найдено"
	msgForbidden          = "доступ запрещен"
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

// Handle PATCH /api/v1/fields/{fieldId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fieldID, err := strconv.ParseInt(vars["fieldId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /fields/{id} - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /fields/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req models.UpdateFieldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /fields/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = userID

	// Сервис сам проверит, что поле принадлежит пользователю
	field, err := h.service.Update(r.Context(), fieldID, &req)
	if err != nil {
		switch {
		case errors.Is(err, fields.ErrFieldNotFound):
			h.logger.Warn("PATCH /fields/{id} - Field not found: field_id=%d", fieldID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, fields.ErrAccessDenied):
			h.logger.Warn("PATCH /fields/{id} - Access denied: field_id=%d, user_id=%d", fieldID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, fields.ErrInvalidInput):
			h.logger.Warn("PATCH /fields/{id} - Invalid data: field_id=%d, error=%v", fieldID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PATCH /fields/{id} - Failed to update field: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /fields/{id} - Field updated successfully: field_id=%d", fieldID)
	handlers.RespondJSON(w, http.StatusOK, field)
}
