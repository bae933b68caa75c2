package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"match-calendar/core/retry"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OpType is the kind of remote mutation.
type OpType string

const (
	// OpDelete removes an event from the remote calendar.
	OpDelete OpType = "delete"
	// OpCreate inserts a new event.
	OpCreate OpType = "create"
	// OpUpdate replaces the content of an existing event.
	OpUpdate OpType = "update"
)

// phaseOrder is the mandatory execution order.
var phaseOrder = []OpType{OpDelete, OpCreate, OpUpdate}

// Mutator applies single-event mutations to a remote calendar.
type Mutator interface {
	CreateEvent(ctx context.Context, calendarID string, ev Event) error
	UpdateEvent(ctx context.Context, calendarID string, ev Event) error
	DeleteEvent(ctx context.Context, calendarID, key string) error
}

// ApplyOptions controls ApplyDiff.
type ApplyOptions struct {
	// Retry is the per-operation retry policy.
	Retry retry.Policy

	// Concurrency bounds parallel operations inside one phase.
	// Values below 2 run sequentially.
	Concurrency int

	// Logger receives per-operation logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Failure describes an operation that did not succeed.
type Failure struct {
	Key      string `json:"key"`
	Op       OpType `json:"op"`
	Attempts int    `json:"attempts"`
	Cause    string `json:"cause"`
	Err      error  `json:"-"`
}

// ApplyResult summarizes a remote apply.
type ApplyResult struct {
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Deleted   int       `json:"deleted"`
	Unchanged int       `json:"unchanged"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures"`
}

// FailedKeys returns the keys of failed operations.
func (r *ApplyResult) FailedKeys() []string {
	keys := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		keys = append(keys, f.Key)
	}
	return keys
}

// Err joins the failure causes, or returns nil when everything succeeded.
func (r *ApplyResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s %s: %w", f.Op, f.Key, f.Err))
	}
	return errors.Join(errs...)
}

type operation struct {
	key string
	op  OpType
	run func(ctx context.Context) error
}

// ApplyDiff executes diff against the calendar identified by calendarID.
//
// Deletes run first, then creates, then updates, with a barrier between
// phases. Every operation is attempted independently: failures are retried
// according to the policy, then recorded, and never stop the batch.
func ApplyDiff(ctx context.Context, m Mutator, calendarID string, diff *Diff, opts ApplyOptions) *ApplyResult {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}

	result := &ApplyResult{Failures: []Failure{}}
	if diff == nil {
		return result
	}
	result.Unchanged = len(diff.Unchanged)

	phases := map[OpType][]operation{}
	for _, key := range diff.ToDelete {
		key := key
		phases[OpDelete] = append(phases[OpDelete], operation{key: key, op: OpDelete, run: func(ctx context.Context) error {
			return m.DeleteEvent(ctx, calendarID, key)
		}})
	}
	for _, ev := range diff.ToCreate {
		ev := ev
		phases[OpCreate] = append(phases[OpCreate], operation{key: ev.Key, op: OpCreate, run: func(ctx context.Context) error {
			return m.CreateEvent(ctx, calendarID, ev)
		}})
	}
	for _, u := range diff.ToUpdate {
		ev := u.Event
		phases[OpUpdate] = append(phases[OpUpdate], operation{key: u.Key, op: OpUpdate, run: func(ctx context.Context) error {
			return m.UpdateEvent(ctx, calendarID, ev)
		}})
	}

	var mu sync.Mutex
	record := func(o operation, attempts int, err error) {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, Failure{
				Key:      o.key,
				Op:       o.op,
				Attempts: attempts,
				Cause:    err.Error(),
				Err:      err,
			})
			l.Warn("Remote operation failed",
				zap.String("op", string(o.op)),
				zap.String("key", o.key),
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
			return
		}

		switch o.op {
		case OpDelete:
			result.Deleted++
		case OpCreate:
			result.Created++
		case OpUpdate:
			result.Updated++
		}
		l.Debug("Remote operation applied",
			zap.String("op", string(o.op)),
			zap.String("key", o.key),
			zap.Int("attempts", attempts),
		)
	}

	for _, phase := range phaseOrder {
		ops := phases[phase]
		if len(ops) == 0 {
			continue
		}
		runPhase(ctx, ops, opts, record)
	}

	rank := map[OpType]int{OpDelete: 0, OpCreate: 1, OpUpdate: 2}
	sort.SliceStable(result.Failures, func(i, j int) bool {
		a, b := result.Failures[i], result.Failures[j]
		if a.Op != b.Op {
			return rank[a.Op] < rank[b.Op]
		}
		return a.Key < b.Key
	})

	return result
}

func runPhase(ctx context.Context, ops []operation, opts ApplyOptions, record func(operation, int, error)) {
	if opts.Concurrency < 2 {
		for _, o := range ops {
			attempts, err := opts.Retry.Do(ctx, o.run)
			record(o, attempts, err)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)
	for _, o := range ops {
		o := o
		g.Go(func() error {
			attempts, err := opts.Retry.Do(ctx, o.run)
			record(o, attempts, err)
			return nil
		})
	}
	_ = g.Wait()
}
