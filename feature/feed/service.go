package feed

import (
	"context"

	"match-calendar/feature/calendar/codec"
	"match-calendar/feature/calendar/ics"
	"match-calendar/feature/fixtures"
	"match-calendar/feature/sync"

	"go.uber.org/zap"
)

// Runner triggers sync runs and exposes their history.
type Runner interface {
	DefaultOptions() (sync.RunOptions, error)
	TryRun(ctx context.Context, opts sync.RunOptions) (*sync.Report, error)
	History() *sync.History
}

// Service backs the feed handlers.
type Service struct {
	runner Runner
	store  *ics.Store
	codec  *codec.Codec
	logger *zap.Logger
}

// NewService creates a new feed service.
func NewService(runner Runner, store *ics.Store, c *codec.Codec, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		runner: runner,
		store:  store,
		codec:  c,
		logger: logger,
	}
}

// Fixtures decodes the local calendar into match records, ordered by start.
func (s *Service) Fixtures() ([]fixtures.MatchRecord, error) {
	set, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return s.codec.FromEvents(set)
}
