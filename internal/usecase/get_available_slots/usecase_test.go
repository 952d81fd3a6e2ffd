package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
	"github.com/m04kA/SMC-FieldBookingService/pkg/logger"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var bookDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T, now time.Time) (*UseCase, *memory.Store, *domain.Field) {
	t.Helper()

	store := memory.New()
	field, err := store.Fields().Create(context.Background(), &domain.Field{
		OwnerID:      10,
		Name:         "Arena",
		PricePerHour: 3500,
		Available:    true,
	})
	require.NoError(t, err)

	uc := NewUseCase(store.Bookings(), store.Fields(), validator.DefaultRules(), fixedTime{now: now}, logger.Nop())
	return uc, store, field
}

func book(t *testing.T, store *memory.Store, fieldID int64, start, end string, status domain.BookingStatus) {
	t.Helper()
	_, err := store.Bookings().Create(context.Background(), &domain.Booking{
		FieldID:     fieldID,
		PlayerID:    1,
		BookingDate: bookDate,
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		Status:      status,
	})
	require.NoError(t, err)
}

func availability(slots []domain.AvailableSlot) map[string]bool {
	result := make(map[string]bool, len(slots))
	for _, s := range slots {
		result[s.StartTime.String()] = s.Available
	}
	return result
}

func TestExecute_AllSlotsFree(t *testing.T) {
	uc, _, field := setup(t, bookDate.AddDate(0, 0, -1))

	resp, err := uc.Execute(context.Background(), &Request{FieldID: field.ID, Date: bookDate, DurationHours: 2})
	require.NoError(t, err)

	// 08:00..20:00 включительно: последний двухчасовой слот заканчивается в 22:00
	require.Len(t, resp.Slots, 13)
	assert.Equal(t, "08:00", resp.Slots[0].StartTime.String())
	assert.Equal(t, "22:00", resp.Slots[12].EndTime.String())
	for _, s := range resp.Slots {
		assert.True(t, s.Available)
		assert.Equal(t, int64(7000), s.Price)
	}
}

func TestExecute_DefaultDuration(t *testing.T) {
	uc, _, field := setup(t, bookDate.AddDate(0, 0, -1))

	resp, err := uc.Execute(context.Background(), &Request{FieldID: field.ID, Date: bookDate})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.DurationHours)
	assert.Len(t, resp.Slots, 14)
}

func TestExecute_BookedSlotsUnavailable(t *testing.T) {
	uc, store, field := setup(t, bookDate.AddDate(0, 0, -1))
	book(t, store, field.ID, "10:00", "11:00", domain.StatusConfirmed)
	book(t, store, field.ID, "14:00", "15:00", domain.StatusCancelled)

	resp, err := uc.Execute(context.Background(), &Request{FieldID: field.ID, Date: bookDate, DurationHours: 1})
	require.NoError(t, err)

	got := availability(resp.Slots)
	assert.False(t, got["10:00"])
	assert.True(t, got["09:00"])
	assert.True(t, got["11:00"])
	assert.True(t, got["14:00"], "cancelled bookings never block")
}

func TestExecute_TwoHourSlotsSeeOverlap(t *testing.T) {
	uc, store, field := setup(t, bookDate.AddDate(0, 0, -1))
	book(t, store, field.ID, "10:00", "11:00", domain.StatusPending)

	resp, err := uc.Execute(context.Background(), &Request{FieldID: field.ID, Date: bookDate, DurationHours: 2})
	require.NoError(t, err)

	got := availability(resp.Slots)
	assert.True(t, got["08:00"])
	assert.False(t, got["09:00"])
	assert.False(t, got["10:00"])
	assert.True(t, got["11:00"])
}

func TestExecute_TodaySkipsPastStarts(t *testing.T) {
	uc, _, field := setup(t, bookDate.Add(15*time.Hour+30*time.Minute))

	resp, err := uc.Execute(context.Background(), &Request{FieldID: field.ID, Date: bookDate, DurationHours: 1})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "16:00", resp.Slots[0].StartTime.String())
}

func TestExecute_UnavailableField(t *testing.T) {
	uc, store, field := setup(t, bookDate.AddDate(0, 0, -1))
	field.Available = false
	_, err := store.Fields().Update(context.Background(), field)
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), &Request{FieldID: field.ID, Date: bookDate, DurationHours: 1})
	require.NoError(t, err)
	for _, s := range resp.Slots {
		assert.False(t, s.Available)
	}
}

func TestExecute_Errors(t *testing.T) {
	uc, _, field := setup(t, bookDate.AddDate(0, 0, 1))

	_, err := uc.Execute(context.Background(), &Request{FieldID: field.ID, Date: bookDate, DurationHours: 1})
	assert.ErrorIs(t, err, ErrPastDate)

	_, err = uc.Execute(context.Background(), &Request{FieldID: field.ID, Date: bookDate.AddDate(0, 0, 5), DurationHours: 5})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = uc.Execute(context.Background(), &Request{FieldID: 99, Date: bookDate.AddDate(0, 0, 5), DurationHours: 1})
	assert.ErrorIs(t, err, ErrFieldNotFound)

	_, err = uc.Execute(context.Background(), &Request{FieldID: 0, Date: bookDate})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
