package google

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"match-calendar/core/reconcile"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
)

// Private extended properties stored on every managed event.
const (
	PropKey          = "fixtureKey"
	PropLastModified = "lastModified"
	PropSource       = "source"
	PropTentative    = "tentative"

	// Source tags events written by this program.
	Source = "match-calendar"
)

// EventID derives the remote event id from the identity key. Hex digits are
// a subset of the base32hex alphabet Google requires.
func EventID(key string) string {
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func toRemote(ev reconcile.Event) *calendar.Event {
	status := "confirmed"
	if ev.Tentative {
		status = "tentative"
	}
	return &calendar.Event{
		Id:          EventID(ev.Key),
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Status:      status,
		Start:       &calendar.EventDateTime{DateTime: ev.Start.UTC().Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: ev.End.UTC().Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				PropKey:          ev.Key,
				PropLastModified: ev.LastModified.UTC().Format(time.RFC3339),
				PropSource:       Source,
				PropTentative:    strconv.FormatBool(ev.Tentative),
			},
		},
	}
}

// fromRemote maps a managed remote event back. ok is false for events this
// program did not write.
func fromRemote(item *calendar.Event) (reconcile.Event, bool, error) {
	if item.ExtendedProperties == nil || item.ExtendedProperties.Private[PropKey] == "" {
		return reconcile.Event{}, false, nil
	}
	props := item.ExtendedProperties.Private

	start, err := parseEventTime(item.Start)
	if err != nil {
		return reconcile.Event{}, true, fmt.Errorf("event %s: start: %w", item.Id, err)
	}
	end, err := parseEventTime(item.End)
	if err != nil {
		return reconcile.Event{}, true, fmt.Errorf("event %s: end: %w", item.Id, err)
	}

	ev := reconcile.Event{
		Key:         props[PropKey],
		Title:       item.Summary,
		Start:       start,
		End:         end,
		Description: item.Description,
		Location:    item.Location,
		Tentative:   props[PropTentative] == "true" || item.Status == "tentative",
	}
	if ts, err := time.Parse(time.RFC3339, props[PropLastModified]); err == nil {
		ev.LastModified = ts.UTC()
	}
	return ev, true, nil
}

func parseEventTime(dt *calendar.EventDateTime) (time.Time, error) {
	if dt == nil {
		return time.Time{}, fmt.Errorf("missing time")
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		if err != nil {
			return time.Time{}, err
		}
		return t.UTC(), nil
	}
	if dt.Date != "" {
		return time.Parse("2006-01-02", dt.Date)
	}
	return time.Time{}, fmt.Errorf("missing time")
}

// ListEvents returns the managed events of a calendar keyed by identity key.
// Events without the fixture key property are ignored.
func (s *Service) ListEvents(ctx context.Context, calendarID string) (reconcile.EventSet, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	set := reconcile.EventSet{}
	call := s.api.Events.List(calendarID).
		PrivateExtendedProperty(PropSource + "=" + Source).
		ShowDeleted(false).
		MaxResults(2500).
		Context(ctx)

	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			ev, managed, err := fromRemote(item)
			if !managed {
				continue
			}
			if err != nil {
				return err
			}
			if _, dup := set[ev.Key]; dup {
				s.logger.Warn("Duplicate remote event ignored", zap.String("key", ev.Key), zap.String("id", item.Id))
				continue
			}
			set[ev.Key] = ev
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return set, nil
}

// CreateEvent inserts the event under its deterministic id. An id that
// already exists, for instance a previously deleted event, is updated in place.
func (s *Service) CreateEvent(ctx context.Context, calendarID string, ev reconcile.Event) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	remote := toRemote(ev)
	_, err := s.api.Events.Insert(calendarID, remote).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if !isConflict(err) {
		return classify(err)
	}

	s.logger.Debug("Event id exists, updating in place", zap.String("key", ev.Key))
	if _, err := s.api.Events.Update(calendarID, remote.Id, remote).Context(ctx).Do(); err != nil {
		return classify(err)
	}
	return nil
}

// UpdateEvent replaces the event. A missing event is inserted.
func (s *Service) UpdateEvent(ctx context.Context, calendarID string, ev reconcile.Event) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	remote := toRemote(ev)
	_, err := s.api.Events.Update(calendarID, remote.Id, remote).Context(ctx).Do()
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return classify(err)
	}

	if _, err := s.api.Events.Insert(calendarID, remote).Context(ctx).Do(); err != nil {
		return classify(err)
	}
	return nil
}

// DeleteEvent removes the event. An already missing event is not an error.
func (s *Service) DeleteEvent(ctx context.Context, calendarID, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.api.Events.Delete(calendarID, EventID(key)).Context(ctx).Do()
	if err != nil && !isNotFound(err) {
		return classify(err)
	}
	return nil
}
