package validator

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

var (
	// ErrMissingField возвращается, когда не указана дата, время начала или длительность
	ErrMissingField = errors.New("validator: missing required field")

	// ErrPastDate возвращается, когда дата бронирования раньше сегодняшней
	ErrPastDate = errors.New("validator: booking date is in the past")

	// ErrInvalidDuration возвращается, когда длительность не входит в допустимый набор
	ErrInvalidDuration = errors.New("validator: invalid duration")

	// ErrFieldUnavailable возвращается, когда поле снято с бронирования
	ErrFieldUnavailable = errors.New("validator: field is not available")

	// ErrCrossesMidnight возвращается, когда слот заканчивается после 24:00
	ErrCrossesMidnight = errors.New("validator: booking crosses midnight")

	// ErrOutsideOpeningHours возвращается, когда слот выходит за часы работы
	ErrOutsideOpeningHours = errors.New("validator: booking is outside opening hours")

	// ErrSlotConflict возвращается, когда слот пересекается с существующим бронированием
	ErrSlotConflict = errors.New("validator: slot conflicts with an existing booking")
)

// SlotConflictError конфликт с конкретным существующим бронированием
type SlotConflictError struct {
	Booking *domain.Booking
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%s: booking id=%d %s-%s", ErrSlotConflict, e.Booking.ID, e.Booking.StartTime, e.Booking.EndTime)
}

// Unwrap позволяет сравнивать через errors.Is(err, ErrSlotConflict)
func (e *SlotConflictError) Unwrap() error {
	return ErrSlotConflict
}

// ConflictingSlot возвращает интервал конфликтующего бронирования
func (e *SlotConflictError) ConflictingSlot() (types.TimeString, types.TimeString) {
	return e.Booking.StartTime, e.Booking.EndTime
}
