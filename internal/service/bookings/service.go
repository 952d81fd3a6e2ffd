package bookings

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/booking"
	fieldRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/field"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	fieldRepo   FieldRepository
	publisher   EventPublisher
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	fieldRepo FieldRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		fieldRepo:   fieldRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видит игрок, который его создал, и владелец поля
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	// Проверяем права доступа
	if err := s.checkBookingAccess(ctx, booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetPlayerBookings получает историю бронирований игрока по возрастанию даты
// Опционально фильтрует по статусу
func (s *Service) GetPlayerBookings(ctx context.Context, req *models.GetPlayerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetPlayerBookings: fetching bookings for player=%d, status=%v", req.PlayerID, req.Status)

	if req.PlayerID <= 0 {
		return nil, fmt.Errorf("%w: playerID must be positive", ErrInvalidInput)
	}

	playerID := req.PlayerID
	filter := domain.BookingsFilter{
		PlayerID:         &playerID,
		IncludeCancelled: true,
	}

	// Конвертируем статус из строки в domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetPlayerBookings: invalid status=%s for player=%d", *req.Status, req.PlayerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPlayerBookings: repository error for player=%d: %v", req.PlayerID, err)
		return nil, fmt.Errorf("%w: GetPlayerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPlayerBookings: successfully fetched %d bookings for player=%d", len(bookings), req.PlayerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetPlayerStats считает сводку игрока по всем его бронированиям
// Предстоящими считаются ожидающие и подтвержденные бронирования
func (s *Service) GetPlayerStats(ctx context.Context, playerID int64) (*models.PlayerStatsResponse, error) {
	s.logger.Info("GetPlayerStats: calculating stats for player=%d", playerID)

	if playerID <= 0 {
		return nil, fmt.Errorf("%w: playerID must be positive", ErrInvalidInput)
	}

	filter := domain.BookingsFilter{
		PlayerID:         &playerID,
		IncludeCancelled: true,
	}
	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetPlayerStats: repository error for player=%d: %v", playerID, err)
		return nil, fmt.Errorf("%w: GetPlayerStats - repository error: %v", ErrInternal, err)
	}

	stats := &models.PlayerStatsResponse{
		PlayerID:      playerID,
		TotalBookings: len(bookings),
	}
	perField := make(map[int64]int)
	for _, b := range bookings {
		switch b.Status {
		case domain.StatusCompleted:
			stats.GamesPlayed++
			stats.HoursPlayed += b.DurationHours()
			stats.TotalSpent += b.TotalPrice
		case domain.StatusConfirmed:
			stats.UpcomingGames++
			stats.TotalSpent += b.TotalPrice
		case domain.StatusPending:
			stats.UpcomingGames++
		case domain.StatusCancelled:
			stats.CancelledGames++
			continue
		}
		perField[b.FieldID]++
	}

	// При равенстве берем поле с меньшим ID, чтобы ответ был стабильным
	var best int64
	for fieldID, n := range perField {
		if best == 0 || n > perField[best] || (n == perField[best] && fieldID < best) {
			best = fieldID
		}
	}
	if best != 0 {
		stats.FavoriteFieldID = &best
	}

	s.logger.Info("GetPlayerStats: player=%d games=%d hours=%d", playerID, stats.GamesPlayed, stats.HoursPlayed)
	return stats, nil
}

// GetOwnerBookings получает бронирования полей владельца с фильтрацией
// по полю, периоду, статусу и включению отмененных
func (s *Service) GetOwnerBookings(ctx context.Context, req *models.GetOwnerBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetOwnerBookings: fetching bookings for owner=%d", req.Actor.UserID)
	if req.FieldID != nil {
		logMsg += fmt.Sprintf(", field=%d", *req.FieldID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info("%s", logMsg)

	if !req.Actor.IsOwner() {
		s.logger.Warn("GetOwnerBookings: user=%d is not an owner", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	// Если указано поле, проверяем, что оно принадлежит владельцу
	if req.FieldID != nil {
		if _, err := s.getOwnedField(ctx, "GetOwnerBookings", *req.FieldID, req.Actor.UserID); err != nil {
			return nil, err
		}
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetOwnerBookings: invalid filter for owner=%d: %v", req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: invalid filter: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetOwnerBookings: repository error for owner=%d: %v", req.Actor.UserID, err)
		return nil, fmt.Errorf("%w: GetOwnerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetOwnerBookings: successfully fetched %d bookings for owner=%d", len(bookings), req.Actor.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Игрок может отменить своё бронирование, владелец - любое бронирование своих полей
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.Actor.UserID)

	if utf8.RuneCountInString(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is longer than %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkBookingAccess(ctx, booking, req.Actor); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.Actor.UserID, bookingID)
		return nil, err
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, domain.StatusCancelled)
	}

	// Отменяем, только если статус не изменился с момента чтения
	if err := s.bookingRepo.Cancel(ctx, bookingID, booking.Status, req.CancellationReason); err != nil {
		return nil, s.transitionError("Cancel", bookingID, err)
	}

	return s.finishTransition(ctx, "Cancel", bookingID, events.BookingCancelled)
}

// Confirm подтверждает бронирование; доступно владельцу поля
func (s *Service) Confirm(ctx context.Context, bookingID int64, actor models.Actor) (*models.BookingResponse, error) {
	return s.ownerTransition(ctx, "Confirm", bookingID, actor, domain.StatusConfirmed, events.BookingConfirmed)
}

// Complete завершает подтвержденное бронирование; доступно владельцу поля
func (s *Service) Complete(ctx context.Context, bookingID int64, actor models.Actor) (*models.BookingResponse, error) {
	return s.ownerTransition(ctx, "Complete", bookingID, actor, domain.StatusCompleted, events.BookingCompleted)
}

func (s *Service) ownerTransition(
	ctx context.Context,
	op string,
	bookingID int64,
	actor models.Actor,
	to domain.BookingStatus,
	eventType string,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: updating booking id=%d to status=%s by user=%d", op, bookingID, to, actor.UserID)

	booking, err := s.getBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	// Только владелец поля
	if _, err := s.getOwnedField(ctx, op, booking.FieldID, actor.UserID); err != nil {
		if errors.Is(err, ErrFieldNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}

	if !booking.Status.CanTransitionTo(to) {
		s.logger.Warn("%s: transition %s -> %s is not allowed for booking id=%d", op, booking.Status, to, bookingID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, to)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, to); err != nil {
		return nil, s.transitionError(op, bookingID, err)
	}

	return s.finishTransition(ctx, op, bookingID, eventType)
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) getOwnedField(ctx context.Context, op string, fieldID, ownerID int64) (*domain.Field, error) {
	field, err := s.fieldRepo.GetByID(ctx, fieldID)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			s.logger.Warn("%s: field id=%d not found", op, fieldID)
			return nil, ErrFieldNotFound
		}
		s.logger.Error("%s: failed to get field id=%d: %v", op, fieldID, err)
		return nil, fmt.Errorf("%w: %s - failed to get field: %v", ErrInternal, op, err)
	}

	if !field.IsOwnedBy(ownerID) {
		s.logger.Warn("%s: user=%d is not the owner of field=%d", op, ownerID, fieldID)
		return nil, ErrAccessDenied
	}

	return field, nil
}

// checkBookingAccess игрок бронирования или владелец его поля
func (s *Service) checkBookingAccess(ctx context.Context, booking *domain.Booking, actor models.Actor) error {
	if booking.PlayerID == actor.UserID {
		return nil
	}

	if _, err := s.getOwnedField(ctx, "checkBookingAccess", booking.FieldID, actor.UserID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

func (s *Service) transitionError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d disappeared during update", op, bookingID)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusChanged):
		s.logger.Warn("%s: booking id=%d status changed concurrently", op, bookingID)
		return ErrStatusChanged
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// finishTransition перечитывает бронирование и публикует событие
func (s *Service) finishTransition(ctx context.Context, op string, bookingID int64, eventType string) (*models.BookingResponse, error) {
	updated, err := s.getBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, eventType, updated)

	s.logger.Info("%s: booking id=%d is now %s", op, bookingID, updated.Status)
	return models.FromDomainBooking(updated), nil
}
