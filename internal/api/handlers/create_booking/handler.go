package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FieldBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-FieldBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-FieldBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidDate         = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput        = "некорректный ID поля"
	msgMissingField        = "не указаны дата, время начала или длительность"
	msgPastDate            = "нельзя забронировать дату в прошлом"
	msgInvalidDuration     = "недопустимая длительность бронирования"
	msgFieldNotFound       = "поле не найдено"
	msgFieldUnavailable    = "поле недоступно для бронирования"
	msgCrossesMidnight     = "бронирование не может переходить через полночь"
	msgOutsideOpeningHours = "время бронирования вне часов работы поля"
	msgSlotConflict        = "выбранное время пересекается с существующим бронированием"
	msgSlotTaken           = "слот только что занят другим игроком, выберите другое время"
	msgTransientIO         = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		var tErr *timeError
		if errors.As(err, &tErr) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *createBooking.SlotConflictError

		// Обработка ошибок use case
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /bookings - Slot conflict: player_id=%d, field_id=%d, booking_id=%d",
				userID, req.FieldID, conflict.Booking.ID)
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Error: msgSlotConflict,
				ConflictingSlot: ConflictingSlot{
					BookingID: conflict.Booking.ID,
					StartTime: conflict.Booking.StartTime.String(),
					EndTime:   conflict.Booking.EndTime.String(),
				},
			})

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken concurrently: player_id=%d, field_id=%d", userID, req.FieldID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrFieldUnavailable):
			h.logger.Warn("POST /bookings - Field unavailable: field_id=%d", req.FieldID)
			handlers.RespondConflict(w, msgFieldUnavailable)

		case errors.Is(err, createBooking.ErrFieldNotFound):
			h.logger.Warn("POST /bookings - Field not found: field_id=%d", req.FieldID)
			handlers.RespondNotFound(w, msgFieldNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrMissingField):
			h.logger.Warn("POST /bookings - Missing field: %v", err)
			handlers.RespondBadRequest(w, msgMissingField)

		case errors.Is(err, createBooking.ErrPastDate):
			h.logger.Warn("POST /bookings - Past date: %v", err)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createBooking.ErrInvalidDuration):
			h.logger.Warn("POST /bookings - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)

		case errors.Is(err, createBooking.ErrCrossesMidnight):
			h.logger.Warn("POST /bookings - Crosses midnight: %v", err)
			handlers.RespondBadRequest(w, msgCrossesMidnight)

		case errors.Is(err, createBooking.ErrOutsideOpeningHours):
			h.logger.Warn("POST /bookings - Outside opening hours: %v", err)
			handlers.RespondBadRequest(w, msgOutsideOpeningHours)

		case errors.Is(err, createBooking.ErrTransientIO):
			h.logger.Error("POST /bookings - Transient failure: player_id=%d, field_id=%d, error=%v",
				userID, req.FieldID, err)
			handlers.RespondServiceUnavailable(w, msgTransientIO)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: player_id=%d, field_id=%d, error=%v",
				userID, req.FieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, player_id=%d, field_id=%d",
		result.ID, userID, req.FieldID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
