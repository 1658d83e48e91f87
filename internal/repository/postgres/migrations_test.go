package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpMigrations(t *testing.T) {
	names, err := UpMigrations()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.up.sql", "002_payment_kind.up.sql"}, names)
}

func TestRunMigrations(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("Applies pending migrations", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("001_init.up.sql").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("002_payment_kind.up.sql").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec(`ALTER TABLE payments ADD COLUMN IF NOT EXISTS kind`).
			WillReturnResult(pgxmock.NewResult("ALTER", 0))
		mock.ExpectExec(`INSERT INTO schema_migrations`).
			WithArgs("002_payment_kind.up.sql").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		err = RunMigrations(ctx, mock, logger)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Migration failure stops the run", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("001_init.up.sql").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS staff_users`).
			WillReturnError(errors.New("syntax error"))
		mock.ExpectRollback()

		err = RunMigrations(ctx, mock, logger)
		assert.ErrorContains(t, err, "001_init.up.sql")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unrecorded migration is rolled back", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("001_init.up.sql").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("002_payment_kind.up.sql").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec(`ALTER TABLE payments ADD COLUMN IF NOT EXISTS kind`).
			WillReturnResult(pgxmock.NewResult("ALTER", 0))
		mock.ExpectExec(`INSERT INTO schema_migrations`).
			WithArgs("002_payment_kind.up.sql").
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err = RunMigrations(ctx, mock, logger)
		assert.ErrorContains(t, err, "failed to record migration 002_payment_kind.up.sql")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
