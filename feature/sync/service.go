package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"match-calendar/core/reconcile"
	"match-calendar/core/retry"
	"match-calendar/feature/calendar/codec"
	"match-calendar/feature/calendar/handle"
	"match-calendar/feature/calendar/ics"
	"match-calendar/feature/fixtures"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrRunInProgress is returned by TryRun while another run holds the lock.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// Source produces the scraped fixtures.
type Source interface {
	Scrape(ctx context.Context) ([]fixtures.MatchRecord, error)
}

// Remote is a calendar service that can be resolved, listed and mutated.
type Remote interface {
	handle.Directory
	reconcile.Mutator
	ListEvents(ctx context.Context, calendarID string) (reconcile.EventSet, error)
}

// Deps are the collaborators of a Service. Publisher, Remote, Cache and
// History are optional. RemoteErr records why a configured Remote could not
// be built; runs that ask for the remote target then fail on it.
type Deps struct {
	Source    Source
	Codec     *codec.Codec
	Store     *ics.Store
	Publisher *ics.Publisher
	Remote    Remote
	RemoteErr error
	Cache     handle.KV
	CacheKey  string
	Calendar  handle.NewCalendar
	History   *History
	Retry     retry.Policy
	Logger    *zap.Logger
	Now       func() time.Time
}

// RunOptions selects what a run does.
type RunOptions struct {
	Mode        reconcile.Mode
	Local       bool
	Remote      bool
	DryRun      bool
	Concurrency int
	Trigger     string
}

// Service orchestrates sync runs.
type Service struct {
	cfg      Config
	deps     Deps
	resolver *handle.Resolver
	mu       gosync.Mutex
}

// NewService creates a sync service.
func NewService(cfg Config, deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Service{cfg: cfg, deps: deps}
	if deps.Remote != nil {
		s.resolver = handle.NewResolver(deps.Remote, deps.Cache, deps.CacheKey, deps.Calendar, deps.Logger)
	}
	return s
}

// DefaultOptions builds run options from the configuration.
func (s *Service) DefaultOptions() (RunOptions, error) {
	mode, err := reconcile.ParseMode(s.cfg.Mode)
	if err != nil {
		return RunOptions{}, err
	}
	return RunOptions{
		Mode:        mode,
		Local:       s.cfg.Local,
		Remote:      s.cfg.Remote,
		Concurrency: s.cfg.Concurrency,
	}, nil
}

// History returns the run history store, nil when disabled.
func (s *Service) History() *History {
	return s.deps.History
}

// Resolver returns the calendar resolver shared by every run, nil without a
// remote service.
func (s *Service) Resolver() *handle.Resolver {
	return s.resolver
}

// Store returns the local calendar store.
func (s *Service) Store() *ics.Store {
	return s.deps.Store
}

// TryRun runs unless another run is in progress.
func (s *Service) TryRun(ctx context.Context, opts RunOptions) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()
	return s.run(ctx, opts)
}

// Run waits for any run in progress, then runs.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run(ctx, opts)
}

// run executes one pass. Extraction and duplicate-key errors abort the run
// and are returned; per-target failures are recorded in the report.
func (s *Service) run(ctx context.Context, opts RunOptions) (*Report, error) {
	if opts.Mode == "" {
		opts.Mode = reconcile.ModeMerge
	}
	if opts.Trigger == "" {
		opts.Trigger = "manual"
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Trigger:   opts.Trigger,
		Mode:      string(opts.Mode),
		DryRun:    opts.DryRun,
		StartedAt: s.deps.Now().UTC(),
	}
	l := s.deps.Logger.With(zap.String("run_id", report.RunID))
	l.Info("Sync run started",
		zap.String("mode", report.Mode),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("local", opts.Local),
		zap.Bool("remote", opts.Remote),
	)

	err := s.execute(ctx, opts, report, l)
	if err != nil {
		report.Error = err.Error()
	}
	report.FinishedAt = s.deps.Now().UTC()

	if s.deps.History != nil && !opts.DryRun {
		if histErr := s.deps.History.Record(ctx, report); histErr != nil {
			l.Warn("Failed to record run history", zap.Error(histErr))
		}
	}

	l.Info("Sync run finished",
		zap.Bool("failed", report.Failed()),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, err
}

func (s *Service) execute(ctx context.Context, opts RunOptions, report *Report, l *zap.Logger) error {
	records, err := s.deps.Source.Scrape(ctx)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	report.Fixtures = len(records)

	desired, err := s.deps.Codec.ToEvents(records)
	if err != nil {
		return err
	}

	// Desired keys are checked once up front so neither target is touched
	// when the scrape produced a collision.
	if _, err := reconcile.NewEventSet(desired); err != nil {
		return err
	}

	recOpts := reconcile.Options{Mode: opts.Mode, Now: s.deps.Now}

	if opts.Local && s.deps.Store != nil {
		report.Local = s.syncLocal(ctx, desired, recOpts, opts.DryRun, l)
	} else {
		report.Local = &TargetReport{Target: TargetLocal, Skipped: true}
	}

	switch {
	case opts.Remote && s.deps.Remote != nil:
		report.Remote = s.syncRemote(ctx, desired, recOpts, opts, l)
	case opts.Remote && s.deps.RemoteErr != nil:
		report.Remote = &TargetReport{
			Target: TargetRemote,
			Error:  fmt.Sprintf("remote calendar unavailable: %v", s.deps.RemoteErr),
		}
		l.Error("Remote target unavailable", zap.Error(s.deps.RemoteErr))
	default:
		report.Remote = &TargetReport{Target: TargetRemote, Skipped: true}
	}

	return nil
}

func (s *Service) syncLocal(ctx context.Context, desired []reconcile.Event, recOpts reconcile.Options, dryRun bool, l *zap.Logger) *TargetReport {
	t := &TargetReport{Target: TargetLocal, Path: s.deps.Store.Path()}

	res, err := s.deps.Store.Persist(desired, recOpts, dryRun)
	if err != nil {
		t.Error = err.Error()
		l.Error("Local sync failed", zap.Error(err))
		return t
	}
	t.fromDiff(res.Diff.Summary())
	t.Written = res.Written

	if dryRun || s.deps.Publisher == nil {
		return t
	}
	if err := s.deps.Publisher.Publish(ctx, res.Data); err != nil {
		l.Warn("Failed to publish calendar", zap.Error(err))
		t.fail(s.deps.Publisher.Object(), "publish", err)
		return t
	}
	t.Published = true
	return t
}

func (s *Service) syncRemote(ctx context.Context, desired []reconcile.Event, recOpts reconcile.Options, opts RunOptions, l *zap.Logger) *TargetReport {
	t := &TargetReport{Target: TargetRemote}

	// The handle is memoized for one run only. Dry runs only look the calendar
	// up; they never create it or write the cache.
	s.resolver.Reset()
	var h handle.Handle
	var err error
	if opts.DryRun {
		h, err = s.resolver.Lookup(ctx)
	} else {
		h, err = s.resolver.Resolve(ctx)
	}

	existing := reconcile.EventSet{}
	switch {
	case err == nil:
		t.Calendar = &h
		l.Info("Calendar resolved", zap.String("id", h.ID), zap.String("provenance", string(h.Provenance)))

		_, err = s.deps.Retry.Do(ctx, func(ctx context.Context) error {
			var listErr error
			existing, listErr = s.deps.Remote.ListEvents(ctx, h.ID)
			return listErr
		})
		if err != nil {
			t.Error = fmt.Sprintf("failed to list events: %v", err)
			l.Error("Listing remote events failed", zap.Error(err))
			return t
		}
	case opts.DryRun && errors.Is(err, handle.ErrCalendarNotFound):
		l.Info("Calendar does not exist yet, every event would be created")
	default:
		t.Error = err.Error()
		l.Error("Calendar resolution failed", zap.Error(err))
		return t
	}

	diff, err := reconcile.Reconcile(desired, existing, recOpts)
	if err != nil {
		t.Error = err.Error()
		return t
	}

	if opts.DryRun {
		t.fromDiff(diff.Summary())
		return t
	}

	result := reconcile.ApplyDiff(ctx, s.deps.Remote, h.ID, diff, reconcile.ApplyOptions{
		Retry:       s.deps.Retry,
		Concurrency: opts.Concurrency,
		Logger:      l,
	})
	t.fromApply(result)
	return t
}
