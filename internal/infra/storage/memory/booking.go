package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/booking"
)

type bookingRecord struct {
	booking domain.Booking
}

// BookingRepository репозиторий бронирований в памяти.
// Create отклоняет пересечение с активным бронированием так же, как exclusion-ограничение в Postgres.
type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.IsActive() {
		for _, rec := range s.bookings {
			other := rec.booking
			if other.FieldID == b.FieldID && other.IsActive() && sameDay(other.BookingDate, b.BookingDate) &&
				other.Overlaps(b.StartTime, b.EndTime) {
				return nil, fmt.Errorf("%w: Create - field=%d date=%s start=%s overlaps booking id=%d",
					bookingRepo.ErrSlotAlreadyBooked, b.FieldID, b.BookingDate.Format(domain.DateFormat), b.StartTime, other.ID)
			}
		}
	}

	s.nextBookingID++
	now := s.now()
	b.ID = s.nextBookingID
	b.CreatedAt = now
	b.UpdatedAt = now
	s.bookings[b.ID] = bookingRecord{booking: copyBooking(b)}

	return b, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b := copyBooking(&rec.booking)
	return &b, nil
}

func (r *BookingRepository) GetActiveByFieldAndDate(ctx context.Context, fieldID int64, date time.Time) ([]*domain.Booking, error) {
	result := r.filter(func(b *domain.Booking) bool {
		return b.FieldID == fieldID && b.IsActive() && sameDay(b.BookingDate, date)
	})
	sort.SliceStable(result, func(i, j int) bool { return result[i].StartTime.IsBefore(result[j].StartTime) })
	return result, nil
}

func (r *BookingRepository) GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	var ownedFields map[int64]bool
	if filter.OwnerID != nil {
		ownedFields = r.ownedFields(*filter.OwnerID)
	}

	result := r.filter(func(b *domain.Booking) bool {
		if filter.FieldID != nil && b.FieldID != *filter.FieldID {
			return false
		}
		if filter.OwnerID != nil && !ownedFields[b.FieldID] {
			return false
		}
		if filter.PlayerID != nil && b.PlayerID != *filter.PlayerID {
			return false
		}
		if filter.StartDate != nil && dateOnly(b.BookingDate).Before(dateOnly(*filter.StartDate)) {
			return false
		}
		if filter.EndDate != nil && dateOnly(b.BookingDate).After(dateOnly(*filter.EndDate)) {
			return false
		}
		if filter.Status != nil {
			return b.Status == *filter.Status
		}
		return filter.IncludeCancelled || b.IsActive()
	})

	sort.SliceStable(result, func(i, j int) bool {
		di, dj := dateOnly(result[i].BookingDate), dateOnly(result[j].BookingDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	return r.transition(id, from, func(b *domain.Booking, now time.Time) {
		b.Status = to
	})
}

func (r *BookingRepository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, reason string) error {
	return r.transition(id, from, func(b *domain.Booking, now time.Time) {
		b.Status = domain.StatusCancelled
		b.CancellationReason = &reason
		b.CancelledAt = &now
	})
}

func (r *BookingRepository) GetOwnerStats(ctx context.Context, ownerID int64, since, until time.Time) ([]*domain.FieldStats, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	byField := make(map[int64]*domain.FieldStats)
	stats := make([]*domain.FieldStats, 0)
	for _, rec := range s.fields {
		if rec.field.OwnerID != ownerID {
			continue
		}
		st := &domain.FieldStats{FieldID: rec.field.ID, FieldName: rec.field.Name}
		byField[rec.field.ID] = st
		stats = append(stats, st)
	}

	for _, rec := range s.bookings {
		b := rec.booking
		st, ok := byField[b.FieldID]
		if !ok {
			continue
		}
		d := dateOnly(b.BookingDate)
		if d.Before(dateOnly(since)) || d.After(dateOnly(until)) {
			continue
		}
		if b.Status == domain.StatusConfirmed || b.Status == domain.StatusCompleted {
			st.Revenue += b.TotalPrice
		}
		if !b.IsActive() {
			continue
		}
		st.BookingsCount++
		st.BookedHours += b.DurationHours()
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].FieldID < stats[j].FieldID })
	return stats, nil
}

func (r *BookingRepository) transition(id int64, from domain.BookingStatus, apply func(b *domain.Booking, now time.Time)) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if rec.booking.Status != from {
		return bookingRepo.ErrStatusChanged
	}

	now := s.now()
	apply(&rec.booking, now)
	rec.booking.UpdatedAt = now
	s.bookings[id] = rec

	return nil
}

func (r *BookingRepository) ownedFields(ownerID int64) map[int64]bool {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make(map[int64]bool)
	for id, rec := range s.fields {
		if rec.field.OwnerID == ownerID {
			owned[id] = true
		}
	}
	return owned
}

func (r *BookingRepository) filter(keep func(b *domain.Booking) bool) []*domain.Booking {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, rec := range s.bookings {
		b := copyBooking(&rec.booking)
		if keep(&b) {
			result = append(result, &b)
		}
	}
	return result
}

func copyBooking(b *domain.Booking) domain.Booking {
	c := *b
	if b.CancellationReason != nil {
		reason := *b.CancellationReason
		c.CancellationReason = &reason
	}
	if b.CancelledAt != nil {
		at := *b.CancelledAt
		c.CancelledAt = &at
	}
	return c
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}
