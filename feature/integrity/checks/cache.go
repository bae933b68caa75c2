package checks

import (
	"context"
	"errors"

	"match-calendar/feature/calendar/handle"
)

// CacheReport describes the remembered calendar id.
type CacheReport struct {
	Key        string `json:"key"`
	Present    bool   `json:"present"`
	CalendarID string `json:"calendar_id,omitempty"`
	// Valid is set only when the id was checked against the remote service.
	Valid  *bool  `json:"valid,omitempty"`
	Status string `json:"status"` // "ok", "missing", "stale", "error"
	Error  string `json:"error,omitempty"`
}

// CheckCache reads the cached calendar id and, when dir is not nil,
// confirms the calendar still exists.
func CheckCache(ctx context.Context, kv handle.KV, key string, dir handle.Directory) *CacheReport {
	report := &CacheReport{Key: key, Status: "ok"}

	id, err := kv.Get(ctx, key)
	if errors.Is(err, handle.ErrNotFound) {
		report.Status = "missing"
		return report
	}
	if err != nil {
		report.Status = "error"
		report.Error = err.Error()
		return report
	}
	report.Present = true
	report.CalendarID = id

	if dir == nil {
		return report
	}

	valid := true
	if _, err := dir.GetCalendar(ctx, id); err != nil {
		if !errors.Is(err, handle.ErrCalendarNotFound) {
			report.Status = "error"
			report.Error = err.Error()
			return report
		}
		valid = false
		report.Status = "stale"
	}
	report.Valid = &valid
	return report
}
