package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	fieldRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/field"
	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
)

// UseCase use case для получения доступных слотов поля
type UseCase struct {
	bookingRepo  BookingRepository
	fieldRepo    FieldRepository
	rules        validator.Rules
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	fieldRepo FieldRepository,
	rules validator.Rules,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if len(rules.AllowedDurations) == 0 {
		rules.AllowedDurations = domain.DefaultAllowedDurations
	}
	if rules.OpeningTime.IsZero() {
		rules.OpeningTime = domain.DefaultOpeningTime
	}
	if rules.ClosingTime.IsZero() {
		rules.ClosingTime = domain.DefaultClosingTime
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		fieldRepo:    fieldRepo,
		rules:        rules,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: field=%d, date=%s, duration=%dh",
		req.FieldID, req.Date.Format(domain.DateFormat), req.DurationHours)

	duration := req.DurationHours
	if duration == 0 {
		duration = minDuration(uc.rules.AllowedDurations)
	}
	if !durationAllowed(duration, uc.rules.AllowedDurations) {
		return nil, fmt.Errorf("%w: %d hours, allowed %v", ErrInvalidDuration, duration, uc.rules.AllowedDurations)
	}

	// 2. Проверяем дату
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: %s", ErrPastDate, req.Date.Format(domain.DateFormat))
	}

	// 3. Получаем поле
	field, err := uc.fieldRepo.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			uc.logger.Warn("GetAvailableSlots: field id=%d not found", req.FieldID)
			return nil, ErrFieldNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get field id=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: failed to get field: %v", ErrInternal, err)
	}

	// 4. Получаем активные бронирования на дату
	bookings, err := uc.bookingRepo.GetActiveByFieldAndDate(ctx, req.FieldID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Вычисляем доступность каждого слота
	slots := generateSlots(field, uc.rules.OpeningTime, uc.rules.ClosingTime, duration, req.Date, now, bookings)

	uc.logger.Info("GetAvailableSlots: generated %d slots for field=%d, date=%s",
		len(slots), req.FieldID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:          req.Date,
		FieldID:       req.FieldID,
		DurationHours: duration,
		Slots:         slots,
	}, nil
}
