package checks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"match-calendar/feature/calendar/ics"
)

// CalendarReport describes the local calendar file.
type CalendarReport struct {
	Path      string   `json:"path"`
	Exists    bool     `json:"exists"`
	Events    int      `json:"events"`
	Tentative int      `json:"tentative"`
	Invalid   []string `json:"invalid"`
	Status    string   `json:"status"` // "ok", "missing", "error"
	Error     string   `json:"error,omitempty"`
}

// CheckCalendar parses the file at path and validates every event.
// A missing file is reported, not returned as an error.
func CheckCalendar(path string, meta ics.Meta) (*CalendarReport, error) {
	report := &CalendarReport{Path: path, Invalid: []string{}, Status: "ok"}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		report.Status = "missing"
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	report.Exists = true

	set, err := ics.Decode(data, meta)
	if err != nil {
		report.Status = "error"
		report.Error = err.Error()
		return report, nil
	}

	report.Events = len(set)
	for _, ev := range set.Sorted() {
		if ev.Tentative {
			report.Tentative++
		}
		if err := ev.Validate(); err != nil {
			report.Invalid = append(report.Invalid, fmt.Sprintf("%s: %v", ev.Key, err))
			report.Status = "error"
		}
	}
	return report, nil
}
