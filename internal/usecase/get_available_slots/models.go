package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	FieldID       int64     // ID поля
	Date          time.Time // Дата для получения слотов (без времени)
	DurationHours int       // Длительность слота в часах; 0 - минимальная допустимая
}

// Response модель ответа со списком слотов
type Response struct {
	Date          time.Time              // Дата, на которую запрашивались слоты
	FieldID       int64                  // ID поля
	DurationHours int                    // Длительность слота
	Slots         []domain.AvailableSlot // Слоты по возрастанию времени начала
}
