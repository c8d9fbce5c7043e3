package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceConnect/internal/domain"
	"github.com/m04kA/SMC-ServiceConnect/pkg/dbmetrics"
	"github.com/m04kA/SMC-ServiceConnect/pkg/ptr"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, *dbmetrics.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), mock, wrapped
}

func bookingRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns).AddRow(
		"b-1", "s-1", "c-1", "t-1", now, "Main st. 1", "accepted", nil, nil,
		"Plumbing", "Alice", "Bob", 100.0, 100.0, 10.0, 90.0, now, now,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := newMock(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), &domain.Booking{
		ID:          "b-1",
		ServiceID:   "s-1",
		CustomerID:  "c-1",
		ScheduledAt: now,
		Location:    "Main st. 1",
		Status:      domain.StatusPending,
		BasePrice:   100,
		TotalCost:   100,
		PlatformFee: 10,
		ServiceFee:  90,
	})
	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, _ := newMock(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs("b-1").
		WillReturnRows(bookingRow(now))

	booking, err := repo.GetByID(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, booking.Status)
	assert.Equal(t, ptr.Ptr("t-1"), booking.TechnicianID)
	assert.Nil(t, booking.Rating)
	assert.Equal(t, 90.0, booking.ServiceFee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetByID_LocksInsideTransaction(t *testing.T) {
	repo, mock, wrapped := newMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 FOR UPDATE")).
		WithArgs("b-1").
		WillReturnRows(bookingRow(now))
	mock.ExpectCommit()

	tx, err := wrapped.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = repo.GetByID(dbmetrics.WithTx(context.Background(), tx), "b-1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_AppliesFilter(t *testing.T) {
	repo, mock, _ := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC")).
		WithArgs("c-1").
		WillReturnRows(bookingRow(now))

	bookings, err := repo.List(context.Background(), domain.BookingFilter{CustomerID: ptr.Ptr("c-1")})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b-1", bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		repo, mock, _ := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusAccepted)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status changed concurrently", func(t *testing.T) {
		repo, mock, _ := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings WHERE id = $1")).
			WithArgs("b-1").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		err := repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusAccepted)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock, _ := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings WHERE id = $1")).
			WithArgs("b-1").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		err := repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusAccepted)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestRepository_UpdateSchedule_NothingToChange(t *testing.T) {
	repo, mock, _ := newMock(t)

	err := repo.UpdateSchedule(context.Background(), "b-1", domain.StatusPending, nil, nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetRating_AlreadyRated(t *testing.T) {
	repo, mock, _ := newMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET rating = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
			"b-1", "s-1", "c-1", "t-1", now, "Main st. 1", "completed", 4, "ok",
			"Plumbing", "Alice", "Bob", 100.0, 100.0, 10.0, 90.0, now, now,
		))

	err := repo.SetRating(context.Background(), "b-1", 5, nil)
	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestRepository_Stats(t *testing.T) {
	repo, mock, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"revenue", "pending", "active", "completed", "cancelled"}).
			AddRow(250.5, 3, 2, 4, 1))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &domain.BookingStats{
		TotalRevenue:   250.5,
		PendingCount:   3,
		ActiveCount:    2,
		CompletedCount: 4,
		CancelledCount: 1,
	}, stats)
}
