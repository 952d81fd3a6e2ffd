package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

// generateSlots генерирует слоты с шагом в час от открытия до закрытия.
// Слот попадает в список, только если целиком укладывается в часы работы.
// Для сегодняшней даты слоты, начало которых уже прошло, отбрасываются.
func generateSlots(
	field *domain.Field,
	opening, closing types.TimeString,
	durationHours int,
	date time.Time,
	now time.Time,
	bookings []*domain.Booking,
) []domain.AvailableSlot {
	slots := make([]domain.AvailableSlot, 0)

	var current types.TimeString
	if isSameDay(date, now) {
		current = types.NewTimeString(now)
	}

	for start := opening; start.IsBefore(closing); {
		end, err := start.AddHours(durationHours)
		if err != nil || end.IsAfter(closing) {
			break
		}

		if current.IsZero() || !start.IsBefore(current) {
			conflict := validator.FirstConflict(field.ID, date, start, end, bookings)
			slots = append(slots, domain.AvailableSlot{
				StartTime:     start,
				EndTime:       end,
				DurationHours: durationHours,
				Price:         field.PriceFor(durationHours),
				Available:     field.Available && conflict == nil,
			})
		}

		start, err = start.AddHours(1)
		if err != nil {
			break
		}
	}

	return slots
}
