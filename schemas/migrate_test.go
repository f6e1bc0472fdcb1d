package schemas

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	newMockDB := func(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
		t.Helper()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return sqlx.NewDb(db, "mysql"), mock
	}

	t.Run("applies every migration in order", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS entries").
			WillReturnResult(sqlmock.NewResult(0, 0))

		applied, err := Apply(context.Background(), db)

		require.NoError(t, err)
		assert.Equal(t, []string{"migrations/0001_create_entries.sql"}, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops at the first failing migration", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS entries").
			WillReturnError(errors.New("mock exec error"))

		applied, err := Apply(context.Background(), db)

		assert.Error(t, err)
		assert.Empty(t, applied)
	})
}
