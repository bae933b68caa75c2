package fixtures

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// KeyFunc computes the identity used to match a fixture across pages.
type KeyFunc func(MatchRecord) string

// Scraper fetches both source pages and produces the merged fixture list.
type Scraper struct {
	cfg       Config
	fetcher   Fetcher
	extractor *Extractor
	key       KeyFunc
	logger    *zap.Logger
}

// NewScraper wires a scraper. A nil key falls back to a plain
// date/teams/competition identity.
func NewScraper(cfg Config, fetcher Fetcher, key KeyFunc, logger *zap.Logger) (*Scraper, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == nil {
		key = fixtureID
	}
	return &Scraper{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: NewExtractor(cfg.Season, loc, logger),
		key:       key,
		logger:    logger,
	}, nil
}

// Scrape fetches the results and calendar pages and merges them.
// Any extraction failure aborts the scrape.
func (s *Scraper) Scrape(ctx context.Context) ([]MatchRecord, error) {
	s.logger.Info("Fetching results page", zap.String("url", s.cfg.ResultsURL))
	body, err := s.fetcher.Fetch(ctx, s.cfg.ResultsURL)
	if err != nil {
		return nil, err
	}
	results, err := s.extractor.Extract(body, PageResults)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetching calendar page", zap.String("url", s.cfg.CalendarURL))
	body, err = s.fetcher.Fetch(ctx, s.cfg.CalendarURL)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.extractor.Extract(body, PageCalendar)
	if err != nil {
		return nil, err
	}

	merged := Merge(results, upcoming, s.key)
	s.logger.Info("Scraped fixtures",
		zap.Int("results", len(results)),
		zap.Int("upcoming", len(upcoming)),
		zap.Int("merged", len(merged)),
	)
	return merged, nil
}

// Merge combines both pages. A fixture present on both keeps the finished
// record, inheriting a confirmed kickoff from the calendar page. Duplicates
// within one page are left for the reconciler to reject.
func Merge(results, upcoming []MatchRecord, key KeyFunc) []MatchRecord {
	if key == nil {
		key = fixtureID
	}

	finished := make(map[string]int, len(results))
	out := make([]MatchRecord, 0, len(results)+len(upcoming))
	for _, r := range results {
		finished[key(r)] = len(out)
		out = append(out, r)
	}

	for _, u := range upcoming {
		idx, ok := finished[key(u)]
		if !ok {
			out = append(out, u)
			continue
		}
		if u.TimeConfirmed && !out[idx].TimeConfirmed {
			out[idx].ScheduledAt = u.ScheduledAt
			out[idx].TimeConfirmed = true
		}
	}
	return out
}

// ParseFile extracts fixtures from a saved page, mostly for offline runs.
func (s *Scraper) ParseFile(content []byte, page PageKind) ([]MatchRecord, error) {
	records, err := s.extractor.Extract(content, page)
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", page, err)
	}
	return records, nil
}
