package checks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"match-calendar/core/reconcile"
	"match-calendar/feature/calendar/ics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMeta = ics.Meta{
	Name:      "MirassolFC",
	Timezone:  "America/Sao_Paulo",
	ProductID: "-//Mirassol FC Games//PT",
	Domain:    "mirassol.local",
}

func writeICS(t *testing.T, events ...reconcile.Event) string {
	t.Helper()
	set := reconcile.EventSet{}
	for _, ev := range events {
		set[ev.Key] = ev
	}
	path := filepath.Join(t.TempDir(), "calendar.ics")
	require.NoError(t, os.WriteFile(path, ics.Encode(set, testMeta), 0o644))
	return path
}

func TestCheckCalendar(t *testing.T) {
	start := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)

	t.Run("Missing", func(t *testing.T) {
		report, err := CheckCalendar(filepath.Join(t.TempDir(), "none.ics"), testMeta)
		require.NoError(t, err)
		assert.Equal(t, "missing", report.Status)
		assert.False(t, report.Exists)
	})

	t.Run("Valid", func(t *testing.T) {
		path := writeICS(t,
			reconcile.Event{Key: "2026-03-10/brasileirao/mirassol-vs-palmeiras", Title: "Mirassol vs Palmeiras", Start: start, End: start.Add(2 * time.Hour), Tentative: true},
			reconcile.Event{Key: "2026-02-08/paulistao/santos-vs-mirassol", Title: "Santos vs Mirassol", Start: start.AddDate(0, -1, 0), End: start.AddDate(0, -1, 0).Add(2 * time.Hour)},
		)
		report, err := CheckCalendar(path, testMeta)
		require.NoError(t, err)
		assert.Equal(t, "ok", report.Status)
		assert.Equal(t, 2, report.Events)
		assert.Equal(t, 1, report.Tentative)
		assert.Empty(t, report.Invalid)
	})

	t.Run("InvalidEvent", func(t *testing.T) {
		path := writeICS(t, reconcile.Event{Key: "2026-03-10/brasileirao/a-vs-b", Title: "A vs B", Start: start, End: start})
		report, err := CheckCalendar(path, testMeta)
		require.NoError(t, err)
		assert.Equal(t, "error", report.Status)
		require.Len(t, report.Invalid, 1)
		assert.Contains(t, report.Invalid[0], "end must be after start")
	})

	t.Run("Unparsable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.ics")
		require.NoError(t, os.WriteFile(path, []byte("BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nDTSTART:nope\r\n"), 0o644))
		report, err := CheckCalendar(path, testMeta)
		require.NoError(t, err)
		assert.Equal(t, "error", report.Status)
		assert.NotEmpty(t, report.Error)
	})
}
