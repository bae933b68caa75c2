package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// SyncRun is a stored run summary.
type SyncRun struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Trigger         string    `gorm:"size:32" json:"trigger"`
	Mode            string    `gorm:"size:16" json:"mode"`
	DryRun          bool      `json:"dry_run"`
	StartedAt       time.Time `gorm:"index" json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Fixtures        int       `json:"fixtures"`
	LocalCreated    int       `json:"local_created"`
	LocalUpdated    int       `json:"local_updated"`
	LocalDeleted    int       `json:"local_deleted"`
	LocalUnchanged  int       `json:"local_unchanged"`
	RemoteCreated   int       `json:"remote_created"`
	RemoteUpdated   int       `json:"remote_updated"`
	RemoteDeleted   int       `json:"remote_deleted"`
	RemoteUnchanged int       `json:"remote_unchanged"`
	RemoteFailed    int       `json:"remote_failed"`
	CalendarID      string    `gorm:"size:255" json:"calendar_id,omitempty"`
	FailedKeys      string    `gorm:"type:text" json:"failed_keys,omitempty"`
	Error           string    `gorm:"type:text" json:"error,omitempty"`
	Success         bool      `json:"success"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}

// HistoryColumns are the columns the sync_runs table must have.
var HistoryColumns = []string{
	"id", "trigger", "mode", "dry_run", "started_at", "finished_at", "fixtures",
	"local_created", "local_updated", "local_deleted", "local_unchanged",
	"remote_created", "remote_updated", "remote_deleted", "remote_unchanged", "remote_failed",
	"calendar_id", "failed_keys", "error", "success",
}

// History stores run summaries.
type History struct {
	db *gorm.DB
}

// NewHistory creates a history store over db.
func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Migrate creates or updates the sync_runs table.
func (h *History) Migrate() error {
	return h.db.AutoMigrate(&SyncRun{})
}

// Record stores the report.
func (h *History) Record(ctx context.Context, r *Report) error {
	row := runFromReport(r)
	if err := h.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.RunID, err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []SyncRun
	if err := h.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func runFromReport(r *Report) SyncRun {
	row := SyncRun{
		ID:         r.RunID,
		Trigger:    r.Trigger,
		Mode:       r.Mode,
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Fixtures:   r.Fixtures,
		FailedKeys: strings.Join(r.FailedKeys(), ","),
		Error:      r.Error,
		Success:    !r.Failed(),
	}
	if t := r.Local; t != nil {
		row.LocalCreated = t.Created
		row.LocalUpdated = t.Updated
		row.LocalDeleted = t.Deleted
		row.LocalUnchanged = t.Unchanged
		if t.Error != "" && row.Error == "" {
			row.Error = t.Error
		}
	}
	if t := r.Remote; t != nil {
		row.RemoteCreated = t.Created
		row.RemoteUpdated = t.Updated
		row.RemoteDeleted = t.Deleted
		row.RemoteUnchanged = t.Unchanged
		row.RemoteFailed = t.Failed
		if t.Calendar != nil {
			row.CalendarID = t.Calendar.ID
		}
		if t.Error != "" && row.Error == "" {
			row.Error = t.Error
		}
	}
	return row
}
