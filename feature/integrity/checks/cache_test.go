package checks

import (
	"context"
	"errors"
	"testing"

	"match-calendar/feature/calendar/handle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	calendars map[string]*handle.Calendar
	err       error
}

func (d *stubDirectory) GetCalendar(_ context.Context, id string) (*handle.Calendar, error) {
	if d.err != nil {
		return nil, d.err
	}
	if cal, ok := d.calendars[id]; ok {
		return cal, nil
	}
	return nil, handle.ErrCalendarNotFound
}

func (d *stubDirectory) FindCalendarByName(context.Context, string) (*handle.Calendar, error) {
	return nil, handle.ErrCalendarNotFound
}

func (d *stubDirectory) CreateCalendar(context.Context, handle.NewCalendar) (*handle.Calendar, error) {
	return nil, errors.New("not supported")
}

func TestCheckCache(t *testing.T) {
	ctx := context.Background()
	const key = "mirassolfc_calendar_id"

	t.Run("Missing", func(t *testing.T) {
		report := CheckCache(ctx, handle.NewFileStore(t.TempDir()), key, nil)
		assert.Equal(t, "missing", report.Status)
		assert.False(t, report.Present)
	})

	t.Run("PresentUnverified", func(t *testing.T) {
		kv := handle.NewFileStore(t.TempDir())
		require.NoError(t, kv.Set(ctx, key, "cal-1"))

		report := CheckCache(ctx, kv, key, nil)
		assert.Equal(t, "ok", report.Status)
		assert.Equal(t, "cal-1", report.CalendarID)
		assert.Nil(t, report.Valid)
	})

	t.Run("Valid", func(t *testing.T) {
		kv := handle.NewFileStore(t.TempDir())
		require.NoError(t, kv.Set(ctx, key, "cal-1"))
		dir := &stubDirectory{calendars: map[string]*handle.Calendar{"cal-1": {ID: "cal-1"}}}

		report := CheckCache(ctx, kv, key, dir)
		assert.Equal(t, "ok", report.Status)
		require.NotNil(t, report.Valid)
		assert.True(t, *report.Valid)
	})

	t.Run("Stale", func(t *testing.T) {
		kv := handle.NewFileStore(t.TempDir())
		require.NoError(t, kv.Set(ctx, key, "gone"))

		report := CheckCache(ctx, kv, key, &stubDirectory{})
		assert.Equal(t, "stale", report.Status)
		require.NotNil(t, report.Valid)
		assert.False(t, *report.Valid)
	})

	t.Run("RemoteError", func(t *testing.T) {
		kv := handle.NewFileStore(t.TempDir())
		require.NoError(t, kv.Set(ctx, key, "cal-1"))

		report := CheckCache(ctx, kv, key, &stubDirectory{err: errors.New("503")})
		assert.Equal(t, "error", report.Status)
		assert.Nil(t, report.Valid)
	})
}
