package integrity

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"match-calendar/core/storage/mocks"
	"match-calendar/feature/calendar/ics"
	"match-calendar/feature/sync"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client, sqlmock.Sqlmock, Deps) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	db, sqlMock := setupMockDB(t)

	deps := testDeps(t)
	deps.Client = mockClient
	deps.DB = db
	NewHandler(NewService(deps)).RegisterRoutes(app)
	return app, mockClient, sqlMock, deps
}

func TestHandleCalendarCheck(t *testing.T) {
	app, _, _, deps := setupTestApp(t)
	require.NoError(t, os.WriteFile(deps.ICSPath, ics.Encode(nil, testMeta), 0o644))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/calendar", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["exists"])
}

func TestHandleStorageCheck(t *testing.T) {
	t.Run("Check", func(t *testing.T) {
		app, mockClient, _, _ := setupTestApp(t)
		mockClient.On("BucketExists", mock.Anything, "calendars").Return(false, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "missing", body["status"])
		mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fix", func(t *testing.T) {
		app, mockClient, _, _ := setupTestApp(t)
		mockClient.On("BucketExists", mock.Anything, "calendars").Return(false, nil).Twice()
		mockClient.On("MakeBucket", mock.Anything, "calendars", mock.Anything).Return(nil).Once()
		mockClient.On("BucketExists", mock.Anything, "calendars").Return(true, nil)
		mockClient.On("StatObject", mock.Anything, "calendars", "feed.ics", mock.Anything).
			Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage?fix=true", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["bucket_exists"])
		assert.Equal(t, false, body["published"])
		mockClient.AssertExpectations(t)
	})
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _, sqlMock, _ := setupTestApp(t)

	columns := []string{"Field", "Type", "Null", "Key", "Default", "Extra"}
	runs := sqlmock.NewRows(columns)
	for _, name := range sync.HistoryColumns {
		runs.AddRow(name, "text", "YES", "", nil, "")
	}
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").WillReturnRows(runs)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `kv_entries`").WillReturnRows(
		sqlmock.NewRows(columns).
			AddRow("key", "varchar(191)", "NO", "PRI", nil, "").
			AddRow("value", "text", "YES", "", nil, "").
			AddRow("updated_at", "datetime(3)", "YES", "", nil, ""))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["matched"])
}

func TestHandleCacheCheck(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/cache", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "missing", body["status"])
}

func TestHandleNotConfigured(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(Deps{})).RegisterRoutes(app)

	for _, path := range []string{"/integrity/calendar", "/integrity/storage", "/integrity/schema", "/integrity/cache"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 503, resp.StatusCode, path)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
