package calendar

import (
	"fmt"
	"time"
)

// Config holds the calendar identity and event layout settings.
type Config struct {
	// Name is the remote calendar name, also used for lookup by name.
	Name string `mapstructure:"name" default:"MirassolFC"`
	// Description is set on a newly created remote calendar.
	Description string `mapstructure:"description" default:"Calendário de jogos do Mirassol FC"`
	// Timezone is the IANA zone of the calendar and of placeholder kickoffs.
	Timezone string `mapstructure:"timezone" default:"America/Sao_Paulo"`
	// ColorID is the Google Calendar colour applied after creation.
	ColorID string `mapstructure:"color_id" default:"4"`
	// ICSPath is the local calendar file.
	ICSPath string `mapstructure:"ics_path" default:"mirassol_futebol_clube.ics"`
	// UIDDomain is appended to identity keys to form ICS UIDs.
	UIDDomain string `mapstructure:"uid_domain" default:"mirassol.local"`
	// ProductID is written as the ICS PRODID.
	ProductID string `mapstructure:"product_id" default:"-//Mirassol FC Games//PT"`
	// MatchMinutes is the event duration.
	MatchMinutes int `mapstructure:"match_minutes" default:"120"`
	// PlaceholderKickoff is used while the kickoff is unconfirmed (HH:MM).
	PlaceholderKickoff string `mapstructure:"placeholder_kickoff" default:"18:00"`
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Duration returns the event length, two hours when unset.
func (c Config) Duration() time.Duration {
	if c.MatchMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.MatchMinutes) * time.Minute
}

// Placeholder parses PlaceholderKickoff.
func (c Config) Placeholder() (hour, minute int, err error) {
	if c.PlaceholderKickoff == "" {
		return 18, 0, nil
	}
	t, err := time.Parse("15:04", c.PlaceholderKickoff)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid placeholder kickoff %q: %w", c.PlaceholderKickoff, err)
	}
	return t.Hour(), t.Minute(), nil
}
