package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("skips when schema exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.NoError(t, EnsureMigrated(ctx, db, zap.NewNop()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies all steps on fresh database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for range steps {
			mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		assert.NoError(t, EnsureMigrated(ctx, db, zap.NewNop()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops on step failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE").WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(ctx, db, zap.NewNop())
		assert.ErrorContains(t, err, "create_table_bookings")
	})
}
