package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/events"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/locker"
	bookingRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/booking"
	fieldRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/field"
	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
)

// Исходы для метрик
const (
	outcomeCreated   = "created"
	outcomeConflict  = "slot_conflict"
	outcomeTaken     = "slot_taken"
	outcomeRejected  = "rejected"
	outcomeTransient = "transient_error"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo BookingRepository
	fieldRepo   FieldRepository
	validator   BookingValidator
	locker      SlotLocker
	publisher   EventPublisher
	txManager   TransactionManager
	observer    OutcomeObserver
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	fieldRepo FieldRepository,
	validator BookingValidator,
	locker SlotLocker,
	publisher EventPublisher,
	txManager TransactionManager,
	observer OutcomeObserver,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		fieldRepo:   fieldRepo,
		validator:   validator,
		locker:      locker,
		publisher:   publisher,
		txManager:   txManager,
		observer:    observer,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются в сериализуемой транзакции под блокировкой слота;
// ограничения БД остаются последней гарантией от двойного бронирования.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	result, err := uc.execute(ctx, req)
	uc.observe(err)
	return result, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: player=%d, field=%d, date=%s, time=%s, duration=%dh",
		req.PlayerID, req.FieldID, req.Date.Format(domain.DateFormat), req.StartTime, req.DurationHours)

	// 2. Получаем поле
	field, err := uc.fieldRepo.GetByID(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, fieldRepo.ErrFieldNotFound) {
			uc.logger.Warn("CreateBooking: field id=%d not found", req.FieldID)
			return nil, ErrFieldNotFound
		}
		uc.logger.Error("CreateBooking: failed to get field id=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: failed to get field: %w", ErrTransientIO, err)
	}

	validatorReq := &validator.Request{
		FieldID:       req.FieldID,
		PlayerID:      req.PlayerID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
	}

	// 3. Правила, не зависящие от снимка бронирований, проверяем до блокировки
	if _, err := uc.validator.Validate(validatorReq, field, nil); err != nil {
		uc.logger.Warn("CreateBooking: rejected: %v", err)
		return nil, err
	}

	// 4. Блокируем пару (поле, дата)
	release, err := uc.locker.Lock(ctx, locker.SlotKey(req.FieldID, req.Date))
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to lock field=%d date=%s: %v",
			req.FieldID, req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: acquire slot lock: %w", ErrTransientIO, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.logger.Warn("CreateBooking: failed to release lock field=%d: %v", req.FieldID, err)
		}
	}()

	var created *domain.Booking

	// 5. Проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Активные бронирования поля на дату (FOR UPDATE)
		existing, err := uc.bookingRepo.GetActiveByFieldAndDate(txCtx, req.FieldID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrTransientIO, err)
		}

		// 5.2. Валидация и расчет итогового бронирования
		booking, err := uc.validator.Validate(validatorReq, field, existing)
		if err != nil {
			var conflict *validator.SlotConflictError
			if errors.As(err, &conflict) {
				uc.logger.Warn("CreateBooking: slot %s+%dh conflicts with booking id=%d (%s-%s)",
					req.StartTime, req.DurationHours, conflict.Booking.ID, conflict.Booking.StartTime, conflict.Booking.EndTime)
			} else {
				uc.logger.Warn("CreateBooking: rejected: %v", err)
			}
			return err
		}

		// 5.3. Сохраняем бронирование
		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotAlreadyBooked) {
				uc.logger.Warn("CreateBooking: slot taken concurrently: %v", err)
				return fmt.Errorf("%w: %w", ErrSlotTaken, err)
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrTransientIO, err)
		}

		return nil
	})

	if err != nil {
		if isDomainError(err) || errors.Is(err, ErrTransientIO) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction: %w", ErrTransientIO, err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", created.ID)

	// 6. Публикуем событие
	uc.publisher.Publish(ctx, events.BookingCreated, created)

	return &Response{
		ID:          created.ID,
		FieldID:     created.FieldID,
		PlayerID:    created.PlayerID,
		BookingDate: created.BookingDate,
		StartTime:   created.StartTime,
		EndTime:     created.EndTime,
		TotalPrice:  created.TotalPrice,
		Status:      string(created.Status),
		CreatedAt:   created.CreatedAt,
		UpdatedAt:   created.UpdatedAt,
	}, nil
}

func (uc *UseCase) observe(err error) {
	if uc.observer == nil {
		return
	}
	switch {
	case err == nil:
		uc.observer.ObserveBooking(outcomeCreated)
	case errors.Is(err, ErrSlotConflict):
		uc.observer.ObserveBooking(outcomeConflict)
	case errors.Is(err, ErrSlotTaken):
		uc.observer.ObserveBooking(outcomeTaken)
	case errors.Is(err, ErrTransientIO):
		uc.observer.ObserveBooking(outcomeTransient)
	default:
		uc.observer.ObserveBooking(outcomeRejected)
	}
}
