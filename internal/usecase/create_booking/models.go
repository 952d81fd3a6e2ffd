package create_booking

import (
	"time"

	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	PlayerID      int64            // ID игрока из токена
	FieldID       int64            // ID поля
	Date          time.Time        // Дата бронирования (без времени)
	StartTime     types.TimeString // Время начала слота (например, "18:00")
	DurationHours int              // Длительность в часах
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64
	FieldID     int64
	PlayerID    int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	TotalPrice  int64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
