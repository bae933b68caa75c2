package sync

import (
	"fmt"
	"io"
	"strings"
	"time"

	"match-calendar/core/reconcile"
	"match-calendar/feature/calendar/handle"
)

const (
	TargetLocal  = "local"
	TargetRemote = "remote"
)

// FailureReport is a single failed operation.
type FailureReport struct {
	Key      string `json:"key"`
	Op       string `json:"op"`
	Attempts int    `json:"attempts,omitempty"`
	Cause    string `json:"cause"`
}

// TargetReport holds the outcome of one target.
type TargetReport struct {
	Target    string          `json:"target"`
	Skipped   bool            `json:"skipped,omitempty"`
	Calendar  *handle.Handle  `json:"calendar,omitempty"`
	Path      string          `json:"path,omitempty"`
	Written   bool            `json:"written,omitempty"`
	Published bool            `json:"published,omitempty"`
	Created   int             `json:"created"`
	Updated   int             `json:"updated"`
	Deleted   int             `json:"deleted"`
	Unchanged int             `json:"unchanged"`
	Failed    int             `json:"failed"`
	Failures  []FailureReport `json:"failures,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// HasFailures reports failed operations or a target-level error.
func (t *TargetReport) HasFailures() bool {
	return t != nil && (t.Failed > 0 || t.Error != "")
}

func (t *TargetReport) fromDiff(d reconcile.DiffSummary) {
	t.Created = d.Create
	t.Updated = d.Update
	t.Deleted = d.Delete
	t.Unchanged = d.Unchanged
}

func (t *TargetReport) fromApply(r *reconcile.ApplyResult) {
	t.Created = r.Created
	t.Updated = r.Updated
	t.Deleted = r.Deleted
	t.Unchanged = r.Unchanged
	t.Failed = r.Failed
	for _, f := range r.Failures {
		t.Failures = append(t.Failures, FailureReport{Key: f.Key, Op: string(f.Op), Attempts: f.Attempts, Cause: f.Cause})
	}
}

func (t *TargetReport) fail(key, op string, err error) {
	t.Failed++
	t.Failures = append(t.Failures, FailureReport{Key: key, Op: op, Cause: err.Error()})
}

// Report is the summary of a run.
type Report struct {
	RunID      string        `json:"run_id"`
	Trigger    string        `json:"trigger"`
	Mode       string        `json:"mode"`
	DryRun     bool          `json:"dry_run"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Fixtures   int           `json:"fixtures"`
	Local      *TargetReport `json:"local,omitempty"`
	Remote     *TargetReport `json:"remote,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Failed reports whether anything failed irrecoverably.
func (r *Report) Failed() bool {
	return r.Error != "" || r.Local.HasFailures() || r.Remote.HasFailures()
}

// FailedKeys lists the identity keys of failed operations across targets.
func (r *Report) FailedKeys() []string {
	var keys []string
	for _, t := range []*TargetReport{r.Local, r.Remote} {
		if t == nil {
			continue
		}
		for _, f := range t.Failures {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Print writes a human-readable summary.
func (r *Report) Print(w io.Writer) {
	mode := r.Mode
	if r.DryRun {
		mode += ", dry run"
	}
	fmt.Fprintf(w, "Run %s (%s): %d fixtures\n", r.RunID, mode, r.Fixtures)
	if r.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", r.Error)
	}

	for _, t := range []*TargetReport{r.Local, r.Remote} {
		if t == nil {
			continue
		}
		if t.Skipped {
			fmt.Fprintf(w, "  %-6s skipped\n", t.Target)
			continue
		}
		fmt.Fprintf(w, "  %-6s created=%d updated=%d deleted=%d unchanged=%d failed=%d\n",
			t.Target, t.Created, t.Updated, t.Deleted, t.Unchanged, t.Failed)
		if t.Calendar != nil {
			fmt.Fprintf(w, "         calendar %s (%s)\n", t.Calendar.ID, t.Calendar.Provenance)
		}
		if t.Error != "" {
			fmt.Fprintf(w, "         error: %s\n", t.Error)
		}
		for _, f := range t.Failures {
			fmt.Fprintf(w, "         %s %s: %s\n", f.Op, f.Key, strings.TrimSpace(f.Cause))
		}
	}
}
