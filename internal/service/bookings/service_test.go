package bookings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/events"
	"github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-FieldBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-FieldBookingService/pkg/logger"
	"github.com/m04kA/SMC-FieldBookingService/pkg/ptr"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

const (
	ownerID    int64 = 10
	strangerID int64 = 11
	playerID   int64 = 1
)

var (
	owner    = models.Actor{UserID: ownerID, Role: domain.RoleOwner}
	stranger = models.Actor{UserID: strangerID, Role: domain.RoleOwner}
	player   = models.Actor{UserID: playerID, Role: domain.RolePlayer}
	bookDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, b *domain.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

type fixture struct {
	store     *memory.Store
	field     *domain.Field
	publisher *recordingPublisher
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	field, err := store.Fields().Create(context.Background(), &domain.Field{
		OwnerID:      ownerID,
		Name:         "Arena",
		PricePerHour: 2800,
		Available:    true,
	})
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	return &fixture{
		store:     store,
		field:     field,
		publisher: publisher,
		svc:       NewService(store.Bookings(), store.Fields(), publisher, logger.Nop()),
	}
}

func (f *fixture) book(t *testing.T, start, end string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		FieldID:     f.field.ID,
		PlayerID:    playerID,
		BookingDate: bookDate,
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		TotalPrice:  2800,
		Status:      status,
	})
	require.NoError(t, err)
	return b
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "18:00", "19:00", domain.StatusPending)

	resp, err := f.svc.GetByID(context.Background(), b.ID, player)
	require.NoError(t, err)
	assert.Equal(t, "18:00", resp.StartTime)
	assert.Equal(t, "19:00", resp.EndTime)
	assert.Equal(t, 1, resp.DurationHours)

	_, err = f.svc.GetByID(context.Background(), b.ID, owner)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), b.ID, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), 999, player)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirmThenComplete(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "18:00", "19:00", domain.StatusPending)

	resp, err := f.svc.Confirm(context.Background(), b.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	resp, err = f.svc.Complete(context.Background(), b.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)

	assert.Equal(t, []string{events.BookingConfirmed, events.BookingCompleted}, f.publisher.events)
}

func TestTransitions_Rejected(t *testing.T) {
	f := newFixture(t)
	pending := f.book(t, "10:00", "11:00", domain.StatusPending)

	// pending -> completed запрещен
	_, err := f.svc.Complete(context.Background(), pending.ID, owner)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// игрок не может подтверждать
	_, err = f.svc.Confirm(context.Background(), pending.ID, player)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// чужой владелец тоже
	_, err = f.svc.Confirm(context.Background(), pending.ID, stranger)
	assert.ErrorIs(t, err, ErrAccessDenied)

	completed := f.book(t, "12:00", "13:00", domain.StatusCompleted)
	_, err = f.svc.Cancel(context.Background(), completed.ID, &models.CancelBookingRequest{Actor: player})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Empty(t, f.publisher.events)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "18:00", "19:00", domain.StatusConfirmed)

	_, err := f.svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{Actor: stranger})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := f.svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{
		Actor:              player,
		CancellationReason: "rain",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "rain", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, []string{events.BookingCancelled}, f.publisher.events)

	// слот снова свободен
	active, err := f.store.Bookings().GetActiveByFieldAndDate(context.Background(), f.field.ID, bookDate)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCancel_ByOwner(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "18:00", "19:00", domain.StatusPending)

	resp, err := f.svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{Actor: owner})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "18:00", "19:00", domain.StatusPending)

	_, err := f.svc.Cancel(context.Background(), b.ID, &models.CancelBookingRequest{
		Actor:              player,
		CancellationReason: strings.Repeat("x", domain.MaxCancellationReasonLength+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConcurrentConfirm_OnlyOneWins(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "18:00", "19:00", domain.StatusPending)

	const attempts = 4
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		errs  []error
		start = make(chan struct{})
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.Confirm(context.Background(), b.ID, owner)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, ErrStatusChanged) || errors.Is(err, ErrInvalidTransition), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.publisher.events, 1)
}

func TestGetPlayerBookings(t *testing.T) {
	f := newFixture(t)
	f.book(t, "18:00", "19:00", domain.StatusPending)
	f.book(t, "10:00", "11:00", domain.StatusCancelled)
	f.book(t, "12:00", "13:00", domain.StatusConfirmed)

	resp, err := f.svc.GetPlayerBookings(context.Background(), &models.GetPlayerBookingsRequest{PlayerID: playerID})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 3)
	assert.Equal(t, "10:00", resp.Bookings[0].StartTime)
	assert.Equal(t, "12:00", resp.Bookings[1].StartTime)

	resp, err = f.svc.GetPlayerBookings(context.Background(), &models.GetPlayerBookingsRequest{
		PlayerID: playerID,
		Status:   ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	_, err = f.svc.GetPlayerBookings(context.Background(), &models.GetPlayerBookingsRequest{
		PlayerID: playerID,
		Status:   ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetOwnerBookings(t *testing.T) {
	f := newFixture(t)
	f.book(t, "18:00", "19:00", domain.StatusPending)
	f.book(t, "10:00", "11:00", domain.StatusCancelled)

	resp, err := f.svc.GetOwnerBookings(context.Background(), &models.GetOwnerBookingsRequest{Actor: owner})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = f.svc.GetOwnerBookings(context.Background(), &models.GetOwnerBookingsRequest{
		Actor:            owner,
		FieldID:          ptr.Ptr(f.field.ID),
		IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = f.svc.GetOwnerBookings(context.Background(), &models.GetOwnerBookingsRequest{Actor: stranger})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)

	_, err = f.svc.GetOwnerBookings(context.Background(), &models.GetOwnerBookingsRequest{
		Actor:   stranger,
		FieldID: ptr.Ptr(f.field.ID),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetOwnerBookings(context.Background(), &models.GetOwnerBookingsRequest{Actor: player})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetPlayerStats(t *testing.T) {
	f := newFixture(t)
	f.book(t, "08:00", "10:00", domain.StatusCompleted)
	f.book(t, "10:00", "11:00", domain.StatusCompleted)
	f.book(t, "12:00", "13:00", domain.StatusConfirmed)
	f.book(t, "14:00", "15:00", domain.StatusPending)
	f.book(t, "16:00", "17:00", domain.StatusCancelled)

	other, err := f.store.Fields().Create(context.Background(), &domain.Field{
		OwnerID:      ownerID,
		Name:         "Court",
		PricePerHour: 1500,
		Available:    true,
	})
	require.NoError(t, err)
	_, err = f.store.Bookings().Create(context.Background(), &domain.Booking{
		FieldID:     other.ID,
		PlayerID:    playerID,
		BookingDate: bookDate,
		StartTime:   types.MustTimeString("18:00"),
		EndTime:     types.MustTimeString("19:00"),
		TotalPrice:  1500,
		Status:      domain.StatusCompleted,
	})
	require.NoError(t, err)

	stats, err := f.svc.GetPlayerStats(context.Background(), playerID)
	require.NoError(t, err)

	assert.Equal(t, playerID, stats.PlayerID)
	assert.Equal(t, 6, stats.TotalBookings)
	assert.Equal(t, 3, stats.GamesPlayed)
	assert.Equal(t, 2, stats.UpcomingGames)
	assert.Equal(t, 1, stats.CancelledGames)
	assert.Equal(t, 4, stats.HoursPlayed)
	// 2800*3 по Arena (два завершенных и одно подтвержденное) + 1500 по Court
	assert.Equal(t, int64(2800*3+1500), stats.TotalSpent)
	require.NotNil(t, stats.FavoriteFieldID)
	assert.Equal(t, f.field.ID, *stats.FavoriteFieldID)
}

func TestGetPlayerStats_NoBookings(t *testing.T) {
	f := newFixture(t)

	stats, err := f.svc.GetPlayerStats(context.Background(), 42)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalBookings)
	assert.Zero(t, stats.TotalSpent)
	assert.Nil(t, stats.FavoriteFieldID)

	_, err = f.svc.GetPlayerStats(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
