package update_booking_status

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FieldBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FieldBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgInvalidStatus    = "переход в этот статус недопустим"
	msgStatusChanged    = "статус бронирования изменился, обновите данные"
)

// Action целевой статус
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionComplete Action = "complete"
)

type Handler struct {
	service BookingService
	action  Action
	logger  Logger
}

func NewHandler(service BookingService, action Action, logger Logger) *Handler {
	return &Handler{
		service: service,
		action:  action,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/confirm и /complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	route := "PATCH /bookings/{id}/" + string(h.action)

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s - Invalid booking ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing user ID", route)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())

	booking, err := h.apply(r.Context(), bookingID, models.Actor{UserID: userID, Role: role})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("%s - Booking not found: booking_id=%d", route, bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", route, bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("%s - Invalid transition: %v", route, err)
			handlers.RespondConflict(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrStatusChanged):
			h.logger.Warn("%s - Status changed concurrently: booking_id=%d", route, bookingID)
			handlers.RespondConflict(w, msgStatusChanged)

		default:
			h.logger.Error("%s - Failed to update booking: booking_id=%d, error=%v", route, bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking updated successfully: booking_id=%d, status=%s", route, bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func (h *Handler) apply(ctx context.Context, bookingID int64, actor models.Actor) (*models.BookingResponse, error) {
	if h.action == ActionComplete {
		return h.service.Complete(ctx, bookingID, actor)
	}
	return h.service.Confirm(ctx, bookingID, actor)
}
