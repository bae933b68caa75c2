package reconcile

import (
	"fmt"
	"sort"
)

// Reconcile computes the Diff that converges existing onto desired.
//
// A desired key absent from existing is created. A key present in both is
// unchanged when the content matches (existing LastModified kept verbatim)
// and updated otherwise, with a fresh LastModified. Existing-only keys are
// deleted in clear mode and left alone in merge mode.
//
// Reconcile performs no I/O. It fails on duplicate desired keys and on
// malformed events.
func Reconcile(desired []Event, existing EventSet, opts Options) (*Diff, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeMerge
	}
	if mode != ModeMerge && mode != ModeClear {
		return nil, fmt.Errorf("unknown reconcile mode %q", mode)
	}

	wanted, err := NewEventSet(desired)
	if err != nil {
		return nil, err
	}
	for _, key := range wanted.Keys() {
		if err := wanted[key].Validate(); err != nil {
			return nil, err
		}
	}

	now := opts.stamp()
	diff := &Diff{
		ToCreate:  []Event{},
		ToUpdate:  []Update{},
		Unchanged: []string{},
		ToDelete:  []string{},
	}

	for _, key := range wanted.Keys() {
		ev := wanted[key]
		current, ok := existing[key]
		if !ok {
			ev.LastModified = now
			diff.ToCreate = append(diff.ToCreate, ev)
			continue
		}

		changes := ev.Changes(current)
		if len(changes) == 0 {
			diff.Unchanged = append(diff.Unchanged, key)
			continue
		}

		ev.LastModified = now
		diff.ToUpdate = append(diff.ToUpdate, Update{Key: key, Event: ev, Changes: changes})
	}

	if mode == ModeClear {
		for _, key := range existing.Keys() {
			if _, ok := wanted[key]; !ok {
				diff.ToDelete = append(diff.ToDelete, key)
			}
		}
	}

	return diff, nil
}

// Converge returns the event set obtained by applying diff to existing.
// Unchanged events are carried over verbatim.
func Converge(existing EventSet, diff *Diff) EventSet {
	out := existing.Clone()
	if diff == nil {
		return out
	}
	for _, key := range diff.ToDelete {
		delete(out, key)
	}
	for _, ev := range diff.ToCreate {
		out[ev.Key] = ev
	}
	for _, u := range diff.ToUpdate {
		out[u.Key] = u.Event
	}
	return out
}

func sortedKeys(s EventSet) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].Key < events[j].Key
	})
}
