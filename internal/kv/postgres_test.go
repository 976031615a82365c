package kv_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/devanshgoyal/shopkart/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresGet(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT value FROM records WHERE key = $1`)

	t.Run("Success - Record Found", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		rows := sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":"p1"}]`)
		mock.ExpectQuery(query).WithArgs("cart").WillReturnRows(rows)

		// Act
		value, ok, err := store.Get(ctx, "cart")

		// Assert
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":"p1"}]`, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Record Missing", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		mock.ExpectQuery(query).WithArgs("cart").WillReturnRows(sqlmock.NewRows([]string{"value"}))

		// Act
		value, ok, err := store.Get(ctx, "cart")

		// Assert
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		dbError := errors.New("connection reset")
		mock.ExpectQuery(query).WithArgs("cart").WillReturnError(dbError)

		// Act
		_, ok, err := store.Get(ctx, "cart")

		// Assert
		assert.Error(t, err)
		assert.False(t, ok)
		assert.ErrorIs(t, err, dbError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresSet(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`INSERT INTO records (key, value)`)

	t.Run("Success - Upsert", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		mock.ExpectExec(query).WithArgs("theme", `"dark"`).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err = store.Set(ctx, "theme", `"dark"`)

		// Assert
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Bare Scalar Value Stored As Given", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		// The theme record is a bare string, not a JSON document. The
		// records table is TEXT so the value passes through untouched.
		mock.ExpectExec(query).WithArgs("theme", "light").WillReturnResult(sqlmock.NewResult(0, 1))

		getQuery := regexp.QuoteMeta(`SELECT value FROM records WHERE key = $1`)
		rows := sqlmock.NewRows([]string{"value"}).AddRow("light")
		mock.ExpectQuery(getQuery).WithArgs("theme").WillReturnRows(rows)

		// Act
		err = store.Set(ctx, "theme", "light")
		require.NoError(t, err)

		value, ok, err := store.Get(ctx, "theme")

		// Assert
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "light", value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Local Watcher Notified", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		fired := 0
		defer store.Watch("theme", func() { fired++ })()

		mock.ExpectExec(query).WithArgs("theme", `"dark"`).WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err = store.Set(ctx, "theme", `"dark"`)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 1, fired)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		dbError := errors.New("disk full")
		mock.ExpectExec(query).WithArgs("theme", `"dark"`).WillReturnError(dbError)

		// Act
		err = store.Set(ctx, "theme", `"dark"`)

		// Assert
		assert.Error(t, err)
		assert.ErrorIs(t, err, dbError)
	})
}

func TestPostgresDelete(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`DELETE FROM records WHERE key = $1`)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		mock.ExpectExec(query).WithArgs("user").WillReturnResult(sqlmock.NewResult(0, 1))

		// Act
		err = store.Delete(ctx, "user")

		// Assert
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := kv.NewPostgresWithDB(db)

		dbError := errors.New("relation does not exist")
		mock.ExpectExec(query).WithArgs("user").WillReturnError(dbError)

		// Act
		err = store.Delete(ctx, "user")

		// Assert
		assert.Error(t, err)
		assert.ErrorIs(t, err, dbError)
	})
}
