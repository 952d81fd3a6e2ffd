package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FieldBookingService/internal/domain"
	"github.com/m04kA/SMC-FieldBookingService/internal/validator"
	"github.com/m04kA/SMC-FieldBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FieldBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-FieldBookingService/pkg/types"
)

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), db, mock
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns)
}

func addBooking(rows *sqlmock.Rows, id int64, start, end string, status domain.BookingStatus) *sqlmock.Rows {
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(id, int64(1), int64(7), day, start, end, int64(2800), string(status), nil, nil, now, now)
}

func newBooking() *domain.Booking {
	return &domain.Booking{
		FieldID:     1,
		PlayerID:    7,
		BookingDate: day,
		StartTime:   types.MustTimeString("18:00"),
		EndTime:     types.MustTimeString("19:00"),
		TotalPrice:  2800,
		Status:      domain.StatusPending,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO bookings (field_id,player_id,booking_date,start_time,end_time,total_price,status) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at")).
		WithArgs(1, 7, day, "18:00:00", "19:00:00", 2800, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	created, err := repo.Create(context.Background(), newBooking())

	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.True(t, now.Equal(created.CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_ConstraintViolation(t *testing.T) {
	for _, code := range []pq.ErrorCode{"23505", "23P01"} {
		t.Run(string(code), func(t *testing.T) {
			repo, _, mock := newRepo(t)

			mock.ExpectQuery("INSERT INTO bookings").WillReturnError(&pq.Error{Code: code})

			_, err := repo.Create(context.Background(), newBooking())

			assert.ErrorIs(t, err, ErrSlotAlreadyBooked)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Create_OtherError(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO bookings").WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), newBooking())

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotAlreadyBooked)
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(5).
		WillReturnRows(addBooking(bookingRows(), 5, "18:00:00", "19:00:00", domain.StatusConfirmed))

	got, err := repo.GetByID(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, "18:00", got.StartTime.String())
	assert.Equal(t, "19:00", got.EndTime.String())
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Nil(t, got.CancellationReason)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("FROM bookings").WillReturnRows(bookingRows())

	_, err := repo.GetByID(context.Background(), 5)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetActiveByFieldAndDate(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM bookings WHERE field_id = $1 AND booking_date = $2 AND status <> $3 ORDER BY start_time ASC") + "$").
		WithArgs(1, day, "cancelled").
		WillReturnRows(addBooking(addBooking(bookingRows(), 1, "10:00:00", "11:00:00", domain.StatusPending),
			2, "19:00:00", "24:00:00", domain.StatusConfirmed))

	got, err := repo.GetActiveByFieldAndDate(context.Background(), 1, day)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "24:00", got[1].EndTime.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

// lib/pq декодирует TIME в time.Time от 0000-01-01; 24:00 приходит как 0000-01-02 00:00
func pgTime(day, hour int) time.Time {
	return time.Date(0, 1, day, hour, 0, 0, 0, time.UTC)
}

func TestRepository_GetActiveByFieldAndDate_EndOfDayFromDriver(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM bookings").
		WillReturnRows(bookingRows().
			AddRow(int64(3), int64(1), int64(7), day, pgTime(1, 22), pgTime(2, 0), int64(5600), "confirmed", nil, nil, now, now))

	got, err := repo.GetActiveByFieldAndDate(context.Background(), 1, day)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "22:00", got[0].StartTime.String())
	assert.Equal(t, "24:00", got[0].EndTime.String())
	assert.Equal(t, 2, got[0].DurationHours())

	conflict := validator.FirstConflict(1, day, types.MustTimeString("23:00"), types.MustTimeString("24:00"), got)
	require.NotNil(t, conflict)
	assert.Equal(t, int64(3), conflict.ID)
}

func TestRepository_GetActiveByFieldAndDate_LocksInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)

	mock.ExpectBegin()
	tx, err := dbmetrics.Wrap(db, nil, "test").BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY start_time ASC FOR UPDATE")).
		WillReturnRows(bookingRows())

	got, err := repo.GetActiveByFieldAndDate(ctx, 1, day)

	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetWithFilter_Owner(t *testing.T) {
	repo, _, mock := newRepo(t)
	ownerID := int64(100)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM bookings WHERE field_id IN (SELECT id FROM fields WHERE owner_id = $1) AND status <> $2 "+
			"ORDER BY booking_date ASC, start_time ASC, id ASC")).
		WithArgs(100, "cancelled").
		WillReturnRows(addBooking(bookingRows(), 1, "10:00:00", "11:00:00", domain.StatusPending))

	got, err := repo.GetWithFilter(context.Background(), domain.BookingsFilter{OwnerID: &ownerID})

	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetWithFilter_PlayerWithStatus(t *testing.T) {
	repo, _, mock := newRepo(t)
	playerID := int64(7)
	status := domain.StatusCancelled

	mock.ExpectQuery(regexp.QuoteMeta("WHERE player_id = $1 AND status = $2")).
		WithArgs(7, "cancelled").
		WillReturnRows(bookingRows())

	_, err := repo.GetWithFilter(context.Background(), domain.BookingsFilter{PlayerID: &playerID, Status: &status})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3")).
		WithArgs("confirmed", 5, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 5, domain.StatusPending, domain.StatusConfirmed)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_StatusChanged(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM bookings").
		WillReturnRows(addBooking(bookingRows(), 5, "10:00:00", "11:00:00", domain.StatusCancelled))

	err := repo.UpdateStatus(context.Background(), 5, domain.StatusPending, domain.StatusConfirmed)

	assert.ErrorIs(t, err, ErrStatusChanged)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Cancel_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE bookings SET status = $1, cancellation_reason = $2, cancelled_at = NOW(), updated_at = NOW() WHERE id = $3 AND status = $4")).
		WithArgs("cancelled", "rain", 9, "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM bookings").WillReturnRows(bookingRows())

	err := repo.Cancel(context.Background(), 9, domain.StatusPending, "rain")

	assert.ErrorIs(t, err, ErrBookingNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetOwnerStats(t *testing.T) {
	repo, _, mock := newRepo(t)
	until := day
	since := day.AddDate(0, 0, -30)

	mock.ExpectQuery(regexp.QuoteMeta("FROM fields f LEFT JOIN bookings b ON b.field_id = f.id AND b.booking_date BETWEEN $5 AND $6 WHERE f.owner_id = $7")).
		WithArgs("confirmed", "completed", "cancelled", "cancelled", since, until, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "revenue", "count", "hours"}).
			AddRow(int64(1), "Cancha Central", int64(14000), 3, 5).
			AddRow(int64(2), "Cancha Norte", int64(0), 0, 0))

	stats, err := repo.GetOwnerStats(context.Background(), 100, since, until)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, int64(14000), stats[0].Revenue)
	assert.Equal(t, 3, stats[0].BookingsCount)
	assert.Equal(t, 5, stats[0].BookedHours)
	assert.Equal(t, "Cancha Norte", stats[1].FieldName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_SerializationFailureIsRetried(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil, "test")
	repo := NewRepository(wrapped)
	tm := txmanager.NewTransactionManager(wrapped, txmanager.WithMaxRetries(2))
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bookings").WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(12), now, now))
	mock.ExpectCommit()

	attempts := 0
	var created *domain.Booking
	err = tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		var err error
		created, err = repo.Create(ctx, newBooking())
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, int64(12), created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_QueryErrorKeepsDriverError(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("FROM bookings").WillReturnError(&pq.Error{Code: "40P01"})

	_, err := repo.GetActiveByFieldAndDate(context.Background(), 1, day)

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, txmanager.IsRetryable(err))
}
