package handle

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrCalendarNotFound is returned by a Directory when no calendar matches.
var ErrCalendarNotFound = errors.New("calendar not found")

// Provenance tells how a handle was obtained.
type Provenance string

const (
	FromCache    Provenance = "from-cache"
	FoundByName  Provenance = "found-by-name"
	NewlyCreated Provenance = "newly-created"
)

// Handle identifies the remote calendar a run writes to.
type Handle struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Provenance Provenance `json:"provenance"`
}

// Calendar is a remote calendar as seen by the directory.
type Calendar struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"timeZone,omitempty"`
}

// NewCalendar describes a calendar to create.
type NewCalendar struct {
	Name        string
	Description string
	TimeZone    string
	ColorID     string
}

// Directory looks up and creates remote calendars.
type Directory interface {
	GetCalendar(ctx context.Context, id string) (*Calendar, error)
	FindCalendarByName(ctx context.Context, name string) (*Calendar, error)
	CreateCalendar(ctx context.Context, spec NewCalendar) (*Calendar, error)
}

// CacheInconsistencyError reports a cached id the remote service no longer knows.
type CacheInconsistencyError struct {
	Key string
	ID  string
	Err error
}

func (e *CacheInconsistencyError) Error() string {
	return fmt.Sprintf("cached calendar id %s (%s) is not valid remotely: %v", e.ID, e.Key, e.Err)
}

func (e *CacheInconsistencyError) Unwrap() error {
	return e.Err
}

// Resolver finds or creates the run's calendar. The result is memoized until
// Reset, so a long-lived owner resets it at the start of each run. Concurrent
// Resolve calls share one resolution.
type Resolver struct {
	dir    Directory
	kv     KV
	key    string
	spec   NewCalendar
	logger *zap.Logger

	mu       sync.Mutex
	resolved *Handle
	sf       singleflight.Group
}

// NewResolver creates a resolver that caches the id under key in kv.
func NewResolver(dir Directory, kv KV, key string, spec NewCalendar, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{dir: dir, kv: kv, key: key, spec: spec, logger: logger}
}

// Resolve returns the calendar handle, resolving it on first use.
func (r *Resolver) Resolve(ctx context.Context) (Handle, error) {
	if h, ok := r.cached(); ok {
		return h, nil
	}

	v, err, _ := r.sf.Do("resolve", func() (any, error) {
		if h, ok := r.cached(); ok {
			return h, nil
		}
		h, err := r.resolve(ctx, true)
		if err != nil {
			return Handle{}, err
		}
		r.mu.Lock()
		r.resolved = &h
		r.mu.Unlock()
		return h, nil
	})
	if err != nil {
		return Handle{}, err
	}
	return v.(Handle), nil
}

// Lookup finds the calendar by cached id or by name without creating it and
// without writing the cache. It returns an error wrapping ErrCalendarNotFound
// when no calendar exists yet. The result is not memoized.
func (r *Resolver) Lookup(ctx context.Context) (Handle, error) {
	if h, ok := r.cached(); ok {
		return h, nil
	}
	return r.resolve(ctx, false)
}

// Reset drops the memoized handle and keeps the cached id.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.resolved = nil
	r.mu.Unlock()
}

func (r *Resolver) cached() (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved == nil {
		return Handle{}, false
	}
	return *r.resolved, true
}

// resolve walks cache, name and creation. With write unset it stops before
// creating and leaves the cache untouched.
func (r *Resolver) resolve(ctx context.Context, write bool) (Handle, error) {
	if r.kv != nil {
		id, err := r.kv.Get(ctx, r.key)
		switch {
		case err == nil:
			cal, getErr := r.dir.GetCalendar(ctx, id)
			if getErr == nil {
				r.logger.Debug("Calendar resolved from cache", zap.String("id", cal.ID))
				return Handle{ID: cal.ID, Name: cal.Name, Provenance: FromCache}, nil
			}
			if !errors.Is(getErr, ErrCalendarNotFound) {
				return Handle{}, fmt.Errorf("failed to validate cached calendar %s: %w", id, getErr)
			}
			inconsistency := &CacheInconsistencyError{Key: r.key, ID: id, Err: getErr}
			if !write {
				r.logger.Warn("Ignoring stale cached calendar id", zap.Error(inconsistency))
				break
			}
			r.logger.Warn("Discarding cached calendar id", zap.Error(inconsistency))
			if delErr := r.kv.Delete(ctx, r.key); delErr != nil && !errors.Is(delErr, ErrReadOnly) {
				r.logger.Warn("Failed to clear calendar cache", zap.Error(delErr))
			}
		case errors.Is(err, ErrNotFound):
		default:
			r.logger.Warn("Calendar cache unreadable", zap.String("key", r.key), zap.Error(err))
		}
	}

	cal, err := r.dir.FindCalendarByName(ctx, r.spec.Name)
	switch {
	case err == nil:
		if write {
			r.remember(ctx, cal.ID)
		}
		return Handle{ID: cal.ID, Name: cal.Name, Provenance: FoundByName}, nil
	case !errors.Is(err, ErrCalendarNotFound):
		return Handle{}, fmt.Errorf("failed to look up calendar %q: %w", r.spec.Name, err)
	case !write:
		return Handle{}, fmt.Errorf("calendar %q: %w", r.spec.Name, ErrCalendarNotFound)
	}

	cal, err = r.dir.CreateCalendar(ctx, r.spec)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to create calendar %q: %w", r.spec.Name, err)
	}
	r.logger.Info("Calendar created", zap.String("id", cal.ID), zap.String("name", cal.Name))
	r.remember(ctx, cal.ID)
	return Handle{ID: cal.ID, Name: cal.Name, Provenance: NewlyCreated}, nil
}

func (r *Resolver) remember(ctx context.Context, id string) {
	if r.kv == nil {
		return
	}
	if err := r.kv.Set(ctx, r.key, id); err != nil && !errors.Is(err, ErrReadOnly) {
		r.logger.Warn("Failed to cache calendar id", zap.String("key", r.key), zap.Error(err))
	}
}

// Forget drops the memoized handle and the cached id.
func (r *Resolver) Forget(ctx context.Context) error {
	r.Reset()

	if r.kv == nil {
		return nil
	}
	if err := r.kv.Delete(ctx, r.key); err != nil && !errors.Is(err, ErrReadOnly) {
		return err
	}
	return nil
}
