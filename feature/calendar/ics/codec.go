package ics

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"match-calendar/core/reconcile"
	"match-calendar/feature/calendar"

	ical "github.com/arran4/golang-ical"
)

const utcLayout = "20060102T150405Z"

// Meta is the calendar-level information written to the file header.
type Meta struct {
	Name        string
	Description string
	Timezone    string
	ProductID   string
	Domain      string
}

// MetaFromConfig builds the header settings from the calendar configuration.
func MetaFromConfig(cfg calendar.Config) Meta {
	return Meta{
		Name:        cfg.Name,
		Description: cfg.Description,
		Timezone:    cfg.Timezone,
		ProductID:   cfg.ProductID,
		Domain:      cfg.UIDDomain,
	}
}

// UID returns the ICS UID of an identity key.
func (m Meta) UID(key string) string {
	if strings.Contains(key, "@") || m.Domain == "" {
		return key
	}
	return key + "@" + m.Domain
}

// Key strips the UID domain.
func (m Meta) Key(uid string) string {
	if m.Domain == "" {
		return uid
	}
	return strings.TrimSuffix(uid, "@"+m.Domain)
}

// Encode serializes the set. Events are ordered by start then key and all
// times are written in UTC, so equal sets always produce identical bytes.
func Encode(set reconcile.EventSet, meta Meta) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if meta.ProductID != "" {
		cal.SetProductId(meta.ProductID)
	}
	if meta.Name != "" {
		cal.SetXWRCalName(meta.Name)
	}
	if meta.Description != "" {
		cal.SetXWRCalDesc(meta.Description)
	}
	if meta.Timezone != "" {
		cal.SetXWRTimezone(meta.Timezone)
	}

	for _, ev := range set.Sorted() {
		vev := cal.AddEvent(meta.UID(ev.Key))
		vev.SetDtStampTime(ev.LastModified)
		vev.SetModifiedAt(ev.LastModified)
		vev.SetStartAt(ev.Start)
		vev.SetEndAt(ev.End)
		vev.SetSummary(ev.Title)
		if ev.Description != "" {
			vev.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vev.SetLocation(ev.Location)
		}
		if ev.Tentative {
			vev.SetStatus(ical.ObjectStatusTentative)
		} else {
			vev.SetStatus(ical.ObjectStatusConfirmed)
		}
	}

	return []byte(cal.Serialize())
}

// Decode parses a calendar file into an event set.
func Decode(data []byte, meta Meta) (reconcile.EventSet, error) {
	set := reconcile.EventSet{}
	if len(bytes.TrimSpace(data)) == 0 {
		return set, nil
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	for _, vev := range cal.Events() {
		uid := vev.Id()
		if uid == "" {
			return nil, fmt.Errorf("event without UID")
		}

		start, err := vev.GetStartAt()
		if err != nil {
			return nil, fmt.Errorf("event %s: invalid DTSTART: %w", uid, err)
		}
		end, err := vev.GetEndAt()
		if err != nil {
			return nil, fmt.Errorf("event %s: invalid DTEND: %w", uid, err)
		}

		ev := reconcile.Event{
			Key:         meta.Key(uid),
			Title:       propText(vev, ical.ComponentPropertySummary),
			Start:       start.UTC(),
			End:         end.UTC(),
			Description: propText(vev, ical.ComponentPropertyDescription),
			Location:    propText(vev, ical.ComponentPropertyLocation),
			Tentative:   strings.EqualFold(propText(vev, ical.ComponentPropertyStatus), string(ical.ObjectStatusTentative)),
		}
		if raw := propText(vev, ical.ComponentPropertyLastModified); raw != "" {
			if ts, err := time.Parse(utcLayout, raw); err == nil {
				ev.LastModified = ts
			}
		}

		if _, dup := set[ev.Key]; dup {
			return nil, &reconcile.DuplicateKeyError{Key: ev.Key, First: set[ev.Key].Title, Second: ev.Title}
		}
		set[ev.Key] = ev
	}

	return set, nil
}

func propText(vev *ical.VEvent, prop ical.ComponentProperty) string {
	p := vev.GetProperty(prop)
	if p == nil {
		return ""
	}
	// The parser has already unescaped TEXT values.
	return p.Value
}
