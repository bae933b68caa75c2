package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedEvent is returned when an event misses a required field.
var ErrMalformedEvent = errors.New("malformed event")

// Event is the calendar representation of a fixture.
// Key is derived from the fixture itself, never from a remote-assigned id.
type Event struct {
	// Key is the stable identity key of the fixture.
	Key string `json:"key"`

	// Title is the event summary, e.g. "Mirassol vs Palmeiras 2-1".
	Title string `json:"title"`

	// Start is the kickoff instant.
	Start time.Time `json:"start"`

	// End is the expected final whistle.
	End time.Time `json:"end"`

	// Description carries the competition and supplementary notes.
	Description string `json:"description"`

	// Location is the venue, when known.
	Location string `json:"location,omitempty"`

	// Tentative is set while the kickoff time is a placeholder.
	Tentative bool `json:"tentative"`

	// LastModified is the instant the content last changed (UTC, second precision).
	LastModified time.Time `json:"last_modified"`
}

// Validate checks the required fields.
func (e Event) Validate() error {
	switch {
	case strings.TrimSpace(e.Key) == "":
		return fmt.Errorf("%w: missing key", ErrMalformedEvent)
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: %s: missing title", ErrMalformedEvent, e.Key)
	case e.Start.IsZero():
		return fmt.Errorf("%w: %s: missing start time", ErrMalformedEvent, e.Key)
	case !e.End.After(e.Start):
		return fmt.Errorf("%w: %s: end must be after start", ErrMalformedEvent, e.Key)
	}
	return nil
}

// Changes lists the content fields that differ between e and other.
// LastModified is ignored; text is compared after whitespace normalization
// and times by instant.
func (e Event) Changes(other Event) []string {
	var changes []string
	if NormalizeText(e.Title) != NormalizeText(other.Title) {
		changes = append(changes, fmt.Sprintf("title: %q -> %q", other.Title, e.Title))
	}
	if !e.Start.Equal(other.Start) {
		changes = append(changes, fmt.Sprintf("start: %s -> %s", other.Start.UTC().Format(time.RFC3339), e.Start.UTC().Format(time.RFC3339)))
	}
	if !e.End.Equal(other.End) {
		changes = append(changes, fmt.Sprintf("end: %s -> %s", other.End.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339)))
	}
	if NormalizeText(e.Description) != NormalizeText(other.Description) {
		changes = append(changes, fmt.Sprintf("description: %q -> %q", other.Description, e.Description))
	}
	if NormalizeText(e.Location) != NormalizeText(other.Location) {
		changes = append(changes, fmt.Sprintf("location: %q -> %q", other.Location, e.Location))
	}
	return changes
}

// SameContent reports whether both events carry the same content.
func (e Event) SameContent(other Event) bool {
	return len(e.Changes(other)) == 0
}

// NormalizeText trims and collapses whitespace runs.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// EventSet maps identity keys to events.
type EventSet map[string]Event

// NewEventSet indexes events by key and fails on the first collision.
func NewEventSet(events []Event) (EventSet, error) {
	set := make(EventSet, len(events))
	for _, ev := range events {
		if prev, ok := set[ev.Key]; ok {
			return nil, &DuplicateKeyError{Key: ev.Key, First: prev.Title, Second: ev.Title}
		}
		set[ev.Key] = ev
	}
	return set, nil
}

// Keys returns the keys in ascending order.
func (s EventSet) Keys() []string {
	return sortedKeys(s)
}

// Sorted returns the events ordered by start time, then key.
func (s EventSet) Sorted() []Event {
	events := make([]Event, 0, len(s))
	for _, ev := range s {
		events = append(events, ev)
	}
	sortByStart(events)
	return events
}

// Clone returns a shallow copy of the set.
func (s EventSet) Clone() EventSet {
	out := make(EventSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// DuplicateKeyError is returned when two desired events share an identity key.
type DuplicateKeyError struct {
	Key    string
	First  string
	Second string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate identity key %q (%q and %q)", e.Key, e.First, e.Second)
}

// Mode selects how existing-only events are treated.
type Mode string

const (
	// ModeMerge leaves existing-only events untouched.
	ModeMerge Mode = "merge"
	// ModeClear deletes existing-only events.
	ModeClear Mode = "clear"
)

// ParseMode accepts "", "merge" and "clear".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeClear:
		return ModeClear, nil
	default:
		return "", fmt.Errorf("unknown reconcile mode %q", s)
	}
}

// Options controls a reconcile pass.
type Options struct {
	// Mode defaults to ModeMerge.
	Mode Mode

	// Now supplies the timestamp for created and updated events.
	// Defaults to time.Now.
	Now func() time.Time
}

func (o Options) stamp() time.Time {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return now().UTC().Truncate(time.Second)
}

// Update is a planned content change for an existing key.
type Update struct {
	// Key is the identity key of the event.
	Key string `json:"key"`

	// Event is the new content, carrying a fresh LastModified.
	Event Event `json:"event"`

	// Changes describes the differing fields.
	Changes []string `json:"changes"`
}

// Diff is the minimal set of operations that converges existing onto desired.
type Diff struct {
	// ToCreate holds desired events absent from existing.
	ToCreate []Event `json:"to_create"`

	// ToUpdate holds desired events whose content differs from existing.
	ToUpdate []Update `json:"to_update"`

	// Unchanged holds keys whose content already matches.
	Unchanged []string `json:"unchanged"`

	// ToDelete holds existing-only keys, populated in clear mode only.
	ToDelete []string `json:"to_delete"`
}

// Empty reports whether applying the diff would change anything.
func (d *Diff) Empty() bool {
	return len(d.ToCreate) == 0 && len(d.ToUpdate) == 0 && len(d.ToDelete) == 0
}

// DiffSummary provides aggregate counts of a Diff.
type DiffSummary struct {
	Create    int `json:"create"`
	Update    int `json:"update"`
	Unchanged int `json:"unchanged"`
	Delete    int `json:"delete"`
}

// Summary returns the operation counts.
func (d *Diff) Summary() DiffSummary {
	return DiffSummary{
		Create:    len(d.ToCreate),
		Update:    len(d.ToUpdate),
		Unchanged: len(d.Unchanged),
		Delete:    len(d.ToDelete),
	}
}
