package fixtures

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a fixture.
type Status string

const (
	// StatusScheduled marks a fixture not yet played.
	StatusScheduled Status = "scheduled"
	// StatusFinished marks a fixture with a final score.
	StatusFinished Status = "finished"
)

// Score is the final result of a finished fixture.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// MatchRecord is one fixture as extracted from the source.
type MatchRecord struct {
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	Competition string `json:"competition"`

	// ScheduledAt holds the calendar date and, when TimeConfirmed, the kickoff.
	ScheduledAt time.Time `json:"scheduled_at"`

	// TimeConfirmed is false while the source shows no kickoff time.
	TimeConfirmed bool `json:"time_confirmed"`

	Venue  string `json:"venue,omitempty"`
	Status Status `json:"status"`
	Score  *Score `json:"score,omitempty"`
}

// ErrInvalidRecord is wrapped by Validate failures.
var ErrInvalidRecord = errors.New("invalid match record")

// Validate checks the required fields and the status/score pairing.
func (r MatchRecord) Validate() error {
	switch {
	case strings.TrimSpace(r.HomeTeam) == "":
		return fmt.Errorf("%w: missing home team", ErrInvalidRecord)
	case strings.TrimSpace(r.AwayTeam) == "":
		return fmt.Errorf("%w: missing away team", ErrInvalidRecord)
	case r.ScheduledAt.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidRecord)
	}

	switch r.Status {
	case StatusFinished:
		if r.Score == nil {
			return fmt.Errorf("%w: finished match without score", ErrInvalidRecord)
		}
	case StatusScheduled:
		if r.Score != nil {
			return fmt.Errorf("%w: scheduled match with score", ErrInvalidRecord)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, r.Status)
	}
	return nil
}

// Date returns the calendar date of the fixture in its own location.
func (r MatchRecord) Date() string {
	return r.ScheduledAt.Format("2006-01-02")
}

// PageKind selects the table layout of a source page.
type PageKind string

const (
	// PageResults lists played fixtures with scores.
	PageResults PageKind = "results"
	// PageCalendar lists upcoming fixtures with kickoff times.
	PageCalendar PageKind = "calendar"
)

// ExtractionError is returned when a page cannot be parsed at all.
// It aborts the run.
type ExtractionError struct {
	Page   PageKind
	Row    int
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extract %s page", e.Page)
	if e.Row > 0 {
		msg += fmt.Sprintf(" (row %d)", e.Row)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }
