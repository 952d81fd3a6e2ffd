package domain

import "github.com/m04kA/SMC-FieldBookingService/pkg/types"

// AvailableSlot represents a bookable start time of a field on a date
type AvailableSlot struct {
	StartTime     types.TimeString
	EndTime       types.TimeString
	DurationHours int
	Price         int64
	Available     bool
}

// FieldStats aggregated booking statistics for one field
type FieldStats struct {
	FieldID        int64
	FieldName      string
	Revenue        int64 // sum of confirmed and completed bookings in the window
	BookingsCount  int   // non-cancelled bookings in the window
	BookedHours    int   // non-cancelled hours in the window
	AvailableHours int
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *FieldStats) OccupancyRate() float64 {
	if s.AvailableHours == 0 {
		return 0
	}
	rate := float64(s.BookedHours) / float64(s.AvailableHours) * 100
	if rate > 100 {
		return 100
	}
	return rate
}
