package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewFromConn(conn), mock
}

func TestRead(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored value", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT value FROM kv_store WHERE key = \$1`).
			WithArgs("wallstreet:briefings:v1").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[]`))

		v, ok, err := db.Read(ctx, "wallstreet:briefings:v1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "[]", v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a missing key as not ok", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT value FROM kv_store`).
			WithArgs("absent").
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		_, ok, err := db.Read(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("wraps query errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		cause := errors.New("connection reset")
		mock.ExpectQuery(`SELECT value FROM kv_store`).WillReturnError(cause)

		_, _, err := db.Read(ctx, "k")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "failed to read key k")
	})
}

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("upserts the value", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO kv_store .* ON CONFLICT \(key\) DO UPDATE`).
			WithArgs("k", "v", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, db.Write(ctx, "k", "v"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps exec errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO kv_store`).WillReturnError(errors.New("disk full"))

		err := db.Write(ctx, "k", "v")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}
