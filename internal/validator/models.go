package validator

import (
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

// Request запрос на бронирование слота
type Request struct {
	FieldID       int64
	PlayerID      int64
	Date          time.Time        // Дата без времени
	StartTime     types.TimeString // Время начала, например "18:00"
	DurationHours int
}

// Rules правила бронирования
type Rules struct {
	AllowedDurations    []int
	EnforceOpeningHours bool
	OpeningTime         types.TimeString
	ClosingTime         types.TimeString
}

// DefaultRules правила по умолчанию: 1-3 часа, 08:00-22:00 без строгой проверки
func DefaultRules() Rules {
	return Rules{
		AllowedDurations: domain.DefaultAllowedDurations,
		OpeningTime:      domain.DefaultOpeningTime,
		ClosingTime:      domain.DefaultClosingTime,
	}
}

func (r Rules) durationAllowed(hours int) bool {
	if hours <= 0 {
		return false
	}
	for _, allowed := range r.AllowedDurations {
		if allowed == hours {
			return true
		}
	}
	return false
}
