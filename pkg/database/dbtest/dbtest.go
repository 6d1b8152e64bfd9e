// Package dbtest opens gorm over go-sqlmock for repository tests.
package dbtest

import (
	"testing"

	"anoa.com/socialblog/pkg/database"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New returns a gorm handle backed by sqlmock. Unmet expectations fail the
// test at cleanup.
func New(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}), false)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})

	return db, mock
}
