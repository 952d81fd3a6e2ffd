package fields

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
)

// FieldRepository интерфейс репозитория полей
type FieldRepository interface {
	Create(ctx context.Context, field *domain.Field) (*domain.Field, error)
	GetByID(ctx context.Context, id int64) (*domain.Field, error)
	List(ctx context.Context, availableOnly bool) ([]*domain.Field, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Field, error)
	Update(ctx context.Context, field *domain.Field) (*domain.Field, error)
}

// StatsRepository агрегаты по бронированиям полей владельца
type StatsRepository interface {
	GetOwnerStats(ctx context.Context, ownerID int64, since, until time.Time) ([]*domain.FieldStats, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
