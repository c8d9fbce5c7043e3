package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ServiceConnect/pkg/dbmetrics"
)

func newManager(t *testing.T) (*TransactionManager, sqlmock.Sqlmock, *dbmetrics.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewTransactionManager(wrapped), mock, wrapped
}

func TestDo_CommitsAndCarriesTx(t *testing.T) {
	m, mock, db := newManager(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, "UPDATE bookings SET status = $1", "accepted")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_RollsBackOnError(t *testing.T) {
	m, mock, _ := newManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := m.Do(context.Background(), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_NestedReusesTx(t *testing.T) {
	m, mock, _ := newManager(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoReadOnly(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_BeginAndCommitErrors(t *testing.T) {
	m, mock, _ := newManager(t)
	mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

	err := m.Do(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrBeginTx)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(sql.ErrTxDone)

	err = m.Do(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommitTx)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDo_RollsBackOnPanic(t *testing.T) {
	m, mock, _ := newManager(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(context.Context) error { panic("boom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func updateBooking(db *dbmetrics.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, "UPDATE bookings SET status = $1", "accepted")
		return err
	}
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	m, mock, db := newManager(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.DoSerializable(context.Background(), updateBooking(db))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_RetriesFailedCommit(t *testing.T) {
	m, mock, db := newManager(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.DoSerializable(context.Background(), updateBooking(db))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_GivesUpAfterAttempts(t *testing.T) {
	m, mock, db := newManager(t)
	for i := 0; i < DefaultSerializableAttempts; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE bookings").WillReturnError(&pq.Error{Code: "40001"})
		mock.ExpectRollback()
	}

	err := m.DoSerializable(context.Background(), updateBooking(db))

	require.Error(t, err)
	assert.True(t, IsSerializationFailure(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoSerializable_OtherErrorsNotRetried(t *testing.T) {
	m, mock, db := newManager(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := m.DoSerializable(context.Background(), updateBooking(db))

	require.Error(t, err)
	assert.False(t, IsSerializationFailure(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsSerializationFailure(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", fmt.Errorf("%w: scan: %w", ErrCommitTx, &pq.Error{Code: "40P01"}))

	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationFailure(wrapped))
	assert.False(t, IsSerializationFailure(errors.New("40001")))
	assert.False(t, IsSerializationFailure(nil))
}
