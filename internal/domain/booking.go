package domain

import (
	"time"

	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// transitions allowed status changes; cancelled and completed are terminal
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no transition out of the status exists
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether the status may change to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking represents a field reservation for a half-open slot [StartTime, EndTime) on BookingDate
type Booking struct {
	ID          int64
	FieldID     int64
	PlayerID    int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	TotalPrice  int64
	Status      BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking takes part in conflict checks
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// Overlaps reports whether the booking intersects [start, end).
// Adjacent slots (b.EndTime == start) do not overlap.
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return b.StartTime.IsBefore(end) && b.EndTime.IsAfter(start)
}

// DurationHours returns the booked duration in whole hours
func (b *Booking) DurationHours() int {
	return (b.EndTime.Minutes() - b.StartTime.Minutes()) / 60
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// BookingsFilter фильтр выборки бронирований
type BookingsFilter struct {
	FieldID          *int64         // Конкретное поле (опционально)
	OwnerID          *int64         // Все поля владельца (опционально)
	PlayerID         *int64         // Бронирования игрока (опционально)
	StartDate        *time.Time     // Начало периода включительно (опционально)
	EndDate          *time.Time     // Конец периода включительно (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отмененные бронирования
}

// IsSingleDay returns true if the filter targets exactly one date
func (f BookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
