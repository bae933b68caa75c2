package checks

import (
	"testing"

	"match-calendar/core/database"
	"match-calendar/feature/calendar/handle"
	"match-calendar/feature/sync"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestCheckSchema_Sqlite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&sync.SyncRun{}))
	require.NoError(t, db.Exec("CREATE TABLE kv_entries (`key` TEXT PRIMARY KEY, value TEXT)").Error)

	report, err := CheckSchema(db, &sync.SyncRun{}, &handle.Entry{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Equal(t, "ok", report.Tables["sync_runs"].Status)
	assert.Equal(t, "error", report.Tables["kv_entries"].Status)
	assert.Equal(t, []string{"updated_at"}, report.Tables["kv_entries"].MissingColumns)
}

func TestCheckSchema_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("key", "varchar(191)", "NO", "PRI", nil, "").
		AddRow("value", "text", "YES", "", nil, "").
		AddRow("updated_at", "datetime(3)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `kv_entries`").WillReturnRows(rows)

	report, err := CheckSchema(db, &handle.Entry{})
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Empty(t, report.Tables["kv_entries"].MissingColumns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_NilDB(t *testing.T) {
	_, err := CheckSchema(nil)
	assert.Error(t, err)
}
