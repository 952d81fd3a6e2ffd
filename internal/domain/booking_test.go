package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

func slot(start, end string) *Booking {
	return &Booking{
		StartTime: types.MustTimeString(start),
		EndTime:   types.MustTimeString(end),
		Status:    StatusPending,
	}
}

func TestBooking_Overlaps(t *testing.T) {
	existing := slot("10:00", "11:00")

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{name: "partial overlap after", start: "10:30", end: "11:30", want: true},
		{name: "partial overlap before", start: "09:30", end: "10:30", want: true},
		{name: "identical", start: "10:00", end: "11:00", want: true},
		{name: "contains", start: "09:00", end: "12:00", want: true},
		{name: "adjacent after", start: "11:00", end: "12:00", want: false},
		{name: "adjacent before", start: "09:00", end: "10:00", want: false},
		{name: "disjoint", start: "14:00", end: "15:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := types.MustTimeString(tt.start), types.MustTimeString(tt.end)
			assert.Equal(t, tt.want, existing.Overlaps(start, end))

			// симметричность правила
			other := slot(tt.start, tt.end)
			assert.Equal(t, tt.want, other.Overlaps(existing.StartTime, existing.EndTime))
		})
	}
}

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}
	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[from][to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestBooking_IsActiveAndDuration(t *testing.T) {
	b := slot("18:00", "20:00")
	assert.True(t, b.IsActive())
	assert.Equal(t, 2, b.DurationHours())
	assert.True(t, b.CanBeCancelled())

	b.Status = StatusCancelled
	assert.False(t, b.IsActive())
	assert.False(t, b.CanBeCancelled())
}

func TestFieldStats_OccupancyRate(t *testing.T) {
	assert.Equal(t, 0.0, (&FieldStats{}).OccupancyRate())
	assert.Equal(t, 25.0, (&FieldStats{BookedHours: 105, AvailableHours: 420}).OccupancyRate())
}

func TestFieldUpdate_Apply(t *testing.T) {
	price := int64(4000)
	available := false
	f := &Field{Name: "Cancha 1", PricePerHour: 3500, Available: true}

	assert.True(t, FieldUpdate{}.IsEmpty())

	upd := FieldUpdate{PricePerHour: &price, Available: &available}
	assert.False(t, upd.IsEmpty())
	upd.Apply(f)

	assert.Equal(t, "Cancha 1", f.Name)
	assert.Equal(t, int64(4000), f.PricePerHour)
	assert.False(t, f.Available)
	assert.Equal(t, int64(8000), f.PriceFor(2))
}
