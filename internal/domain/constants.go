package domain

import "github.com/m04kA/SMC-FieldBookingService/pkg/types"

// Default booking rules
var (
	// DefaultAllowedDurations длительности бронирования в часах
	DefaultAllowedDurations = []int{1, 2, 3}

	// DefaultOpeningTime первое время начала слота
	DefaultOpeningTime = types.MustTimeString("08:00")

	// DefaultClosingTime время окончания последнего слота
	DefaultClosingTime = types.MustTimeString("22:00")
)

// Business validation constants
const (
	MaxFieldNameLength          = 200
	MaxDescriptionLength        = 2000
	MaxCancellationReasonLength = 500
	MinFieldCapacity            = 1
	StatsWindowDays             = 30
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Roles of the authenticated actor
const (
	RolePlayer = "player"
	RoleOwner  = "owner"
)

// RevenueStatuses статусы, которые учитываются в выручке
var RevenueStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
}
