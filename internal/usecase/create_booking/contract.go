package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/locker"
	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByFieldAndDate(ctx context.Context, fieldID int64, date time.Time) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
}

// BookingValidator проверка запроса и расчет бронирования
type BookingValidator interface {
	Validate(req *validator.Request, field *domain.Field, existing []*domain.Booking) (*domain.Booking, error)
}

// SlotLocker взаимное исключение по (поле, дата)
type SlotLocker interface {
	Lock(ctx context.Context, key string) (locker.ReleaseFunc, error)
}

// EventPublisher публикация событий бронирования
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, booking *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// OutcomeObserver учет исходов бронирования в метриках
type OutcomeObserver interface {
	ObserveBooking(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
