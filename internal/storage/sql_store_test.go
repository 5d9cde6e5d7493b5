package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSQLTestStore creates a SQL store with a mock database
func setupSQLTestStore(t *testing.T, dialect Dialect) (*sqlStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	store := NewSQLStore(db, dialect)

	cleanup := func() {
		db.Close()
	}

	return store, mock, cleanup
}

func TestNewSQLStore(t *testing.T) {
	db := &sql.DB{}

	store := NewSQLStore(db, DialectSQLite)

	assert.NotNil(t, store)
	assert.Equal(t, db, store.db)
	assert.Equal(t, DialectSQLite, store.dialect)
}

func TestSQLStore_Get(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedValue string
		expectedFound bool
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"store_value"}).AddRow(`["l_fe_1"]`)
				mock.ExpectQuery(`SELECT store_value FROM kv_store WHERE store_key = \?`).
					WithArgs("ml-academy-leads").
					WillReturnRows(rows)
			},
			expectedValue: `["l_fe_1"]`,
			expectedFound: true,
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT store_value FROM kv_store WHERE store_key = \?`).
					WithArgs("ml-academy-leads").
					WillReturnError(sql.ErrNoRows)
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT store_value FROM kv_store WHERE store_key = \?`).
					WithArgs("ml-academy-leads").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupSQLTestStore(t, DialectMySQL)
			defer cleanup()

			tt.setupMock(mock)

			value, found, err := store.Get(context.Background(), "ml-academy-leads")

			if tt.expectedError {
				assert.Error(t, err)
				assert.False(t, found)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedFound, found)
				assert.Equal(t, tt.expectedValue, value)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_Set(t *testing.T) {
	tests := []struct {
		name          string
		dialect       Dialect
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name:    "mysql upsert",
			dialect: DialectMySQL,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO kv_store \(store_key, store_value\)\s+VALUES \(\?, \?\)\s+ON DUPLICATE KEY UPDATE`).
					WithArgs("ml-academy-admin-password", "secret").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:    "sqlite upsert",
			dialect: DialectSQLite,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO kv_store \(store_key, store_value\)\s+VALUES \(\?, \?\)\s+ON CONFLICT\(store_key\) DO UPDATE`).
					WithArgs("ml-academy-admin-password", "secret").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:    "database error",
			dialect: DialectMySQL,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO kv_store`).
					WithArgs("ml-academy-admin-password", "secret").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupSQLTestStore(t, tt.dialect)
			defer cleanup()

			tt.setupMock(mock)

			err := store.Set(context.Background(), "ml-academy-admin-password", "secret")

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_Delete(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM kv_store WHERE store_key = \?`).
					WithArgs("profile:p1:ml-academy-user").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "absent key is not an error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM kv_store WHERE store_key = \?`).
					WithArgs("profile:p1:ml-academy-user").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM kv_store WHERE store_key = \?`).
					WithArgs("profile:p1:ml-academy-user").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupSQLTestStore(t, DialectMySQL)
			defer cleanup()

			tt.setupMock(mock)

			err := store.Delete(context.Background(), "profile:p1:ml-academy-user")

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_Keys(t *testing.T) {
	tests := []struct {
		name          string
		prefix        string
		setupMock     func(sqlmock.Sqlmock)
		expectedKeys  []string
		expectedError bool
	}{
		{
			name:   "success",
			prefix: "profile:",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"store_key"}).
					AddRow("profile:a:ml-academy-user").
					AddRow("profile:b:ml-academy-user")
				mock.ExpectQuery(`SELECT store_key FROM kv_store WHERE store_key LIKE \? ESCAPE '!' ORDER BY store_key`).
					WithArgs("profile:%").
					WillReturnRows(rows)
			},
			expectedKeys: []string{"profile:a:ml-academy-user", "profile:b:ml-academy-user"},
		},
		{
			name:   "wildcards in prefix are escaped",
			prefix: "video-progress-u_1%",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT store_key FROM kv_store`).
					WithArgs("video-progress-u!_1!%%").
					WillReturnRows(sqlmock.NewRows([]string{"store_key"}))
			},
			expectedKeys: []string{},
		},
		{
			name:   "database error",
			prefix: "profile:",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT store_key FROM kv_store`).
					WithArgs("profile:%").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name:   "scan error",
			prefix: "profile:",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"store_key"}).
					AddRow("profile:a").
					RowError(0, errors.New("row error"))
				mock.ExpectQuery(`SELECT store_key FROM kv_store`).
					WithArgs("profile:%").
					WillReturnRows(rows)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock, cleanup := setupSQLTestStore(t, DialectMySQL)
			defer cleanup()

			tt.setupMock(mock)

			keys, err := store.Keys(context.Background(), tt.prefix)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, keys)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedKeys, keys)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStore_SQLite(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	store := NewSQLStore(db, DialectSQLite)

	require.NoError(t, store.Set(ctx, "profile:p_1:ml-academy-theme", "dark"))
	require.NoError(t, store.Set(ctx, "profile:p_1:ml-academy-theme", "light"))
	require.NoError(t, store.Set(ctx, "profile:px1:ml-academy-theme", "dark"))

	value, found, err := store.Get(ctx, "profile:p_1:ml-academy-theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "light", value)

	// "_" must match literally, not as a single-character wildcard
	keys, err := store.Keys(ctx, "profile:p_1:")
	require.NoError(t, err)
	assert.Equal(t, []string{"profile:p_1:ml-academy-theme"}, keys)

	require.NoError(t, store.Delete(ctx, "profile:p_1:ml-academy-theme"))
	_, found, err = store.Get(ctx, "profile:p_1:ml-academy-theme")
	require.NoError(t, err)
	assert.False(t, found)
}
