package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"match-calendar/core/reconcile"
	"match-calendar/feature/calendar"
	"match-calendar/feature/fixtures"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	separator       = " | "
	noteTentative   = "Horário a definir"
	noteScheduled   = "Jogo agendado"
	resultPrefix    = "Resultado: "
	noCompetition   = "sem-competicao"
	titleSeparator  = " vs "
	keyDateLayout   = "2006-01-02"
	keyTeamsDivider = "-vs-"
)

var (
	nonSlug      = regexp.MustCompile(`[^a-z0-9]+`)
	titlePattern = regexp.MustCompile(`^(.+?) vs (.+?)(?: (\d+)-(\d+))?$`)
)

// Codec maps fixtures to calendar events and back.
type Codec struct {
	loc      *time.Location
	duration time.Duration
	phHour   int
	phMinute int
}

// New builds a codec from the calendar configuration.
func New(cfg calendar.Config) (*Codec, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	h, m, err := cfg.Placeholder()
	if err != nil {
		return nil, err
	}
	return &Codec{loc: loc, duration: cfg.Duration(), phHour: h, phMinute: m}, nil
}

// IdentityKey derives the stable key of a fixture from its date,
// competition and teams. Score, venue and kickoff time are not part of it.
func IdentityKey(r fixtures.MatchRecord) string {
	comp := Slug(r.Competition)
	if comp == "" {
		comp = noCompetition
	}
	return r.ScheduledAt.Format(keyDateLayout) + "/" + comp + "/" + Slug(r.HomeTeam) + keyTeamsDivider + Slug(r.AwayTeam)
}

// Slug folds accents, lower-cases and joins alphanumeric runs with dashes.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = nonSlug.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(folded, "-")
}

// ToEvent maps a valid record to its calendar event. LastModified is left
// zero; the reconciler assigns it.
func (c *Codec) ToEvent(r fixtures.MatchRecord) reconcile.Event {
	start := r.ScheduledAt.In(c.loc)
	if !r.TimeConfirmed {
		day := r.ScheduledAt
		start = time.Date(day.Year(), day.Month(), day.Day(), c.phHour, c.phMinute, 0, 0, c.loc)
	}

	home := reconcile.NormalizeText(r.HomeTeam)
	away := reconcile.NormalizeText(r.AwayTeam)

	title := home + titleSeparator + away
	if r.Status == fixtures.StatusFinished && r.Score != nil {
		title += " " + r.Score.String()
	}

	return reconcile.Event{
		Key:         IdentityKey(r),
		Title:       title,
		Start:       start,
		End:         start.Add(c.duration),
		Description: c.description(r, home, away),
		Location:    reconcile.NormalizeText(r.Venue),
		Tentative:   r.Status == fixtures.StatusScheduled && !r.TimeConfirmed,
	}
}

func (c *Codec) description(r fixtures.MatchRecord, home, away string) string {
	var parts []string
	if comp := reconcile.NormalizeText(r.Competition); comp != "" {
		parts = append(parts, comp)
	}
	switch {
	case r.Status == fixtures.StatusFinished && r.Score != nil:
		parts = append(parts, fmt.Sprintf("%s%s %s %s", resultPrefix, home, r.Score.String(), away))
	case !r.TimeConfirmed:
		parts = append(parts, noteScheduled, noteTentative)
	default:
		parts = append(parts, noteScheduled)
	}
	return strings.Join(parts, separator)
}

// ToEvents validates and maps every record.
func (c *Codec) ToEvents(records []fixtures.MatchRecord) ([]reconcile.Event, error) {
	events := make([]reconcile.Event, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s vs %s: %w", r.HomeTeam, r.AwayTeam, err)
		}
		events = append(events, c.ToEvent(r))
	}
	return events, nil
}

// FromEvent recovers the record an event was built from.
// Finished events come back with the event start as a confirmed kickoff.
func (c *Codec) FromEvent(ev reconcile.Event) (fixtures.MatchRecord, error) {
	m := titlePattern.FindStringSubmatch(reconcile.NormalizeText(ev.Title))
	if m == nil {
		return fixtures.MatchRecord{}, fmt.Errorf("event %s: unrecognized title %q", ev.Key, ev.Title)
	}

	rec := fixtures.MatchRecord{
		HomeTeam: m[1],
		AwayTeam: m[2],
		Venue:    ev.Location,
		Status:   fixtures.StatusScheduled,
	}
	if m[3] != "" {
		home, _ := strconv.Atoi(m[3])
		away, _ := strconv.Atoi(m[4])
		rec.Status = fixtures.StatusFinished
		rec.Score = &fixtures.Score{Home: home, Away: away}
	}

	var notes []string
	for _, part := range strings.Split(ev.Description, separator) {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case part == noteScheduled, part == noteTentative, strings.HasPrefix(part, resultPrefix):
			notes = append(notes, part)
		case rec.Competition == "" && len(notes) == 0:
			rec.Competition = part
		}
	}

	tentative := ev.Tentative
	for _, n := range notes {
		if n == noteTentative {
			tentative = true
		}
	}

	start := ev.Start.In(c.loc)
	if tentative && rec.Status == fixtures.StatusScheduled {
		rec.ScheduledAt = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, c.loc)
	} else {
		rec.ScheduledAt = start
		rec.TimeConfirmed = true
	}

	if err := rec.Validate(); err != nil {
		return fixtures.MatchRecord{}, fmt.Errorf("event %s: %w", ev.Key, err)
	}
	return rec, nil
}

// FromEvents decodes every event of a set, sorted by start.
func (c *Codec) FromEvents(set reconcile.EventSet) ([]fixtures.MatchRecord, error) {
	records := make([]fixtures.MatchRecord, 0, len(set))
	for _, ev := range set.Sorted() {
		rec, err := c.FromEvent(ev)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
