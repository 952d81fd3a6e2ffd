package field

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func fieldRows() *sqlmock.Rows {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(fieldColumns).
		AddRow(int64(1), int64(100), "Cancha Central", "Av. Siempre Viva 742", "futbol5", 10, nil, int64(3500), true, now, now)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO fields (owner_id,name,location,field_type,capacity,description,price_per_hour,available) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, created_at, updated_at")).
		WithArgs(100, "Cancha Central", "Centro", "futbol5", 10, "techada", 3500, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(3), now, now))

	created, err := repo.Create(context.Background(), &domain.Field{
		OwnerID:      100,
		Name:         "Cancha Central",
		Location:     "Centro",
		FieldType:    "futbol5",
		Capacity:     10,
		Description:  ptr.Ptr("techada"),
		PricePerHour: 3500,
		Available:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM fields WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(fieldRows())

	f, err := repo.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Cancha Central", f.Name)
	assert.Equal(t, int64(3500), f.PricePerHour)
	assert.True(t, f.Available)
	assert.Nil(t, f.Description)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM fields").WillReturnRows(sqlmock.NewRows(fieldColumns))

	_, err := repo.GetByID(context.Background(), 404)

	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestRepository_List_AvailableOnly(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM fields WHERE available = $1 ORDER BY created_at DESC, id DESC")).
		WithArgs(true).
		WillReturnRows(fieldRows())

	fields, err := repo.List(context.Background(), true)

	require.NoError(t, err)
	assert.Len(t, fields, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByOwner(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM fields WHERE owner_id = $1 ORDER BY id ASC")).
		WithArgs(100).
		WillReturnRows(fieldRows())

	fields, err := repo.ListByOwner(context.Background(), 100)

	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, int64(100), fields[0].OwnerID)
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE fields SET name = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

	_, err := repo.Update(context.Background(), &domain.Field{ID: 9, Name: "x"})

	assert.ErrorIs(t, err, ErrFieldNotFound)
}
