package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "invalid", ConnectionString: "invalid"})
		assert.Nil(t, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sql: unknown driver")
	})

	t.Run("ping failure", func(t *testing.T) {
		mockDB, mock, err := sqlmock.NewWithDSN("barter-connect-ping-failure", sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = mockDB.Close() }()
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		db, err := Connect(Config{
			Driver:           "sqlmock",
			ConnectionString: "barter-connect-ping-failure",
			PingTimeout:      time.Second,
		})
		assert.Nil(t, db)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to ping database: connection refused")
	})

	t.Run("pool settings applied", func(t *testing.T) {
		mockDB, mock, err := sqlmock.NewWithDSN("barter-connect-ok", sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = mockDB.Close() }()
		mock.ExpectPing()

		db, err := Connect(Config{
			Driver:             "sqlmock",
			ConnectionString:   "barter-connect-ok",
			MaxOpenConnections: 7,
			MaxIdleConnections: 3,
			ConnMaxLifetime:    time.Minute,
		})
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		assert.Equal(t, 7, db.Stats().MaxOpenConnections)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
