package fixtures

import (
	"fmt"
	"time"
)

// Config holds configuration for the fixture scraper.
type Config struct {
	// ResultsURL is the page listing played fixtures.
	ResultsURL string `mapstructure:"results_url" default:"https://www.espn.com.br/futebol/time/resultados/_/id/9169/bra.mirassol"`
	// CalendarURL is the page listing upcoming fixtures.
	CalendarURL string `mapstructure:"calendar_url" default:"https://www.espn.com.br/futebol/time/calendario/_/id/9169/bra.mirassol"`
	// Season is the year assumed when a date has none.
	Season int `mapstructure:"season" default:"2026"`
	// Timezone is the IANA zone of the source dates.
	Timezone string `mapstructure:"timezone" default:"America/Sao_Paulo"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	// Referer is sent with every request.
	Referer string `mapstructure:"referer" default:"https://www.espn.com.br/"`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// MaxRetries is the number of retries on throttling and server errors.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// PageDelayMs is the minimum spacing between two requests.
	PageDelayMs int `mapstructure:"page_delay_ms" default:"2000"`
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scraper timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
