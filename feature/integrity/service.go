package integrity

import (
	"context"
	"errors"

	"match-calendar/core/storage"
	"match-calendar/feature/calendar/handle"
	"match-calendar/feature/calendar/ics"
	"match-calendar/feature/integrity/checks"
	"match-calendar/feature/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotConfigured is returned by checks whose dependency is absent.
var ErrNotConfigured = errors.New("not configured")

// Deps are the resources the checks inspect. Any of them may be nil.
type Deps struct {
	ICSPath   string
	Meta      ics.Meta
	Client    storage.Client
	Bucket    string
	Region    string
	Object    string
	DB        *gorm.DB
	Cache     handle.KV
	CacheKey  string
	Directory handle.Directory
	Logger    *zap.Logger
}

// Report combines every check.
type Report struct {
	Calendar *checks.CalendarReport `json:"calendar,omitempty"`
	Storage  *checks.StorageReport  `json:"storage,omitempty"`
	Schema   *checks.SchemaReport   `json:"schema,omitempty"`
	Cache    *checks.CacheReport    `json:"cache,omitempty"`
	Errors   map[string]string      `json:"errors,omitempty"`
}

// Healthy reports whether every check that ran came back clean.
func (r *Report) Healthy() bool {
	if len(r.Errors) > 0 {
		return false
	}
	if r.Calendar != nil && r.Calendar.Status != "ok" {
		return false
	}
	if r.Storage != nil && r.Storage.Status != "ok" {
		return false
	}
	if r.Schema != nil && !r.Schema.Matched {
		return false
	}
	return r.Cache == nil || r.Cache.Status == "ok"
}

// Service handles integrity checks.
type Service struct {
	deps   Deps
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{deps: deps, logger: logger}
}

// CheckCalendar validates the local calendar file.
func (s *Service) CheckCalendar() (*checks.CalendarReport, error) {
	if s.deps.ICSPath == "" {
		return nil, ErrNotConfigured
	}
	return checks.CheckCalendar(s.deps.ICSPath, s.deps.Meta)
}

// CheckStorage verifies the bucket and the published feed.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.deps.Client == nil {
		return nil, ErrNotConfigured
	}
	return checks.CheckStorage(ctx, s.deps.Client, s.deps.Bucket, s.deps.Object)
}

// FixStorage creates the missing bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.deps.Client == nil {
		return ErrNotConfigured
	}
	return checks.FixStorage(ctx, s.deps.Client, s.deps.Bucket, s.deps.Region, s.logger)
}

// CheckSchema compares the run history and cache tables with their models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.deps.DB == nil {
		return nil, ErrNotConfigured
	}
	return checks.CheckSchema(s.deps.DB, &sync.SyncRun{}, &handle.Entry{})
}

// CheckCache reads the remembered calendar id. With remote set it also
// confirms the calendar exists.
func (s *Service) CheckCache(ctx context.Context, remote bool) (*checks.CacheReport, error) {
	if s.deps.Cache == nil {
		return nil, ErrNotConfigured
	}
	var dir handle.Directory
	if remote {
		dir = s.deps.Directory
	}
	return checks.CheckCache(ctx, s.deps.Cache, s.deps.CacheKey, dir), nil
}

// CheckAll runs every configured check. Unconfigured checks are left out.
func (s *Service) CheckAll(ctx context.Context, remote bool) *Report {
	report := &Report{Errors: map[string]string{}}
	record := func(name string, err error) bool {
		if err == nil {
			return true
		}
		if !errors.Is(err, ErrNotConfigured) {
			s.logger.Warn("Integrity check failed", zap.String("check", name), zap.Error(err))
			report.Errors[name] = err.Error()
		}
		return false
	}

	if r, err := s.CheckCalendar(); record("calendar", err) {
		report.Calendar = r
	}
	if r, err := s.CheckStorage(ctx); record("storage", err) {
		report.Storage = r
	}
	if r, err := s.CheckSchema(); record("schema", err) {
		report.Schema = r
	}
	if r, err := s.CheckCache(ctx, remote); record("cache", err) {
		report.Cache = r
	}
	return report
}
