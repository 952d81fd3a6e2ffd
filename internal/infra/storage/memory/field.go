package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	fieldRepo "github.com/m04kA/SMC-FieldBookingService/internal/infra/storage/field"
)

type fieldRecord struct {
	field domain.Field
}

// FieldRepository репозиторий полей в памяти
type FieldRepository struct {
	store *Store
}

func (r *FieldRepository) Create(ctx context.Context, f *domain.Field) (*domain.Field, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextFieldID++
	now := s.now()
	f.ID = s.nextFieldID
	f.CreatedAt = now
	f.UpdatedAt = now
	s.fields[f.ID] = fieldRecord{field: copyField(f)}

	return f, nil
}

func (r *FieldRepository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.fields[id]
	if !ok {
		return nil, fieldRepo.ErrFieldNotFound
	}
	f := copyField(&rec.field)
	return &f, nil
}

func (r *FieldRepository) List(ctx context.Context, availableOnly bool) ([]*domain.Field, error) {
	result := r.filter(func(f *domain.Field) bool { return !availableOnly || f.Available })
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *FieldRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Field, error) {
	result := r.filter(func(f *domain.Field) bool { return f.OwnerID == ownerID })
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *FieldRepository) Update(ctx context.Context, f *domain.Field) (*domain.Field, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.fields[f.ID]
	if !ok {
		return nil, fieldRepo.ErrFieldNotFound
	}

	f.OwnerID = rec.field.OwnerID
	f.CreatedAt = rec.field.CreatedAt
	f.UpdatedAt = s.now()
	s.fields[f.ID] = fieldRecord{field: copyField(f)}

	return f, nil
}

func (r *FieldRepository) filter(keep func(f *domain.Field) bool) []*domain.Field {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Field, 0)
	for _, rec := range s.fields {
		f := copyField(&rec.field)
		if keep(&f) {
			result = append(result, &f)
		}
	}
	return result
}

func copyField(f *domain.Field) domain.Field {
	c := *f
	if f.Description != nil {
		d := *f.Description
		c.Description = &d
	}
	return c
}
