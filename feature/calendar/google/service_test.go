package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"match-calendar/core/reconcile"
	"match-calendar/core/retry"
	"match-calendar/feature/calendar/handle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// fakeAPI is an in-memory stand-in for the parts of the Calendar API the
// service uses.
type fakeAPI struct {
	mu        sync.Mutex
	calendars map[string]*calendar.Calendar
	events    map[string]*calendar.Event
	acl       []*calendar.AclRule
	patches   []string
	failNext  map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calendars: map[string]*calendar.Calendar{
			"cal-1": {Id: "cal-1", Summary: "MirassolFC", TimeZone: "America/Sao_Paulo"},
			"cal-2": {Id: "cal-2", Summary: "Feriados"},
		},
		events:   map[string]*calendar.Event{},
		failNext: map[string]int{},
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, reason string) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": http.StatusText(code),
			"errors":  []map[string]string{{"reason": reason, "message": http.StatusText(code)}},
		},
	})
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var items []*calendar.CalendarListEntry
		for _, id := range []string{"cal-1", "cal-2", "cal-new"} {
			if c, ok := f.calendars[id]; ok {
				items = append(items, &calendar.CalendarListEntry{Id: c.Id, Summary: c.Summary})
			}
		}
		writeJSON(w, http.StatusOK, calendar.CalendarList{Items: items})
	})

	mux.HandleFunc("PATCH /users/me/calendarList/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var entry calendar.CalendarListEntry
		_ = json.NewDecoder(r.Body).Decode(&entry)
		f.patches = append(f.patches, r.PathValue("id")+":"+entry.ColorId)
		writeJSON(w, http.StatusOK, entry)
	})

	mux.HandleFunc("GET /calendars/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c, ok := f.calendars[r.PathValue("id")]
		if !ok {
			writeError(w, http.StatusNotFound, "notFound")
			return
		}
		writeJSON(w, http.StatusOK, c)
	})

	mux.HandleFunc("POST /calendars", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var c calendar.Calendar
		_ = json.NewDecoder(r.Body).Decode(&c)
		c.Id = "cal-new"
		f.calendars[c.Id] = &c
		writeJSON(w, http.StatusOK, c)
	})

	mux.HandleFunc("DELETE /calendars/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.calendars[r.PathValue("id")]; !ok {
			writeError(w, http.StatusNotFound, "notFound")
			return
		}
		delete(f.calendars, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /calendars/{id}/acl", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, calendar.Acl{Items: f.acl})
	})

	mux.HandleFunc("POST /calendars/{id}/acl", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var rule calendar.AclRule
		_ = json.NewDecoder(r.Body).Decode(&rule)
		f.acl = append(f.acl, &rule)
		writeJSON(w, http.StatusOK, rule)
	})

	mux.HandleFunc("GET /calendars/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		items := []*calendar.Event{{
			Id:      "foreign",
			Summary: "Aniversário",
			Start:   &calendar.EventDateTime{Date: "2026-03-01"},
			End:     &calendar.EventDateTime{Date: "2026-03-02"},
		}}
		for _, ev := range f.events {
			if ev.Status != "cancelled" {
				items = append(items, ev)
			}
		}
		writeJSON(w, http.StatusOK, calendar.Events{Items: items})
	})

	mux.HandleFunc("POST /calendars/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		var ev calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		f.mu.Lock()
		defer f.mu.Unlock()
		if code := f.takeFailure(ev.Id); code != 0 {
			writeError(w, code, "backendError")
			return
		}
		if _, exists := f.events[ev.Id]; exists {
			writeError(w, http.StatusConflict, "duplicate")
			return
		}
		f.events[ev.Id] = &ev
		writeJSON(w, http.StatusOK, ev)
	})

	mux.HandleFunc("PUT /calendars/{id}/events/{eventID}", func(w http.ResponseWriter, r *http.Request) {
		var ev calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		f.mu.Lock()
		defer f.mu.Unlock()
		id := r.PathValue("eventID")
		if code := f.takeFailure(id); code != 0 {
			writeError(w, code, "backendError")
			return
		}
		if _, exists := f.events[id]; !exists {
			writeError(w, http.StatusNotFound, "notFound")
			return
		}
		ev.Id = id
		f.events[id] = &ev
		writeJSON(w, http.StatusOK, ev)
	})

	mux.HandleFunc("DELETE /calendars/{id}/events/{eventID}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		ev, exists := f.events[r.PathValue("eventID")]
		if !exists || ev.Status == "cancelled" {
			writeError(w, http.StatusGone, "deleted")
			return
		}
		ev.Status = "cancelled"
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func (f *fakeAPI) takeFailure(id string) int {
	code := f.failNext[id]
	delete(f.failNext, id)
	return code
}

func newTestService(t *testing.T) (*Service, *fakeAPI) {
	t.Helper()
	fake := newFakeAPI()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	svc, err := NewWithOptions(context.Background(), nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc, fake
}

func sampleEvent(key, title string, tentative bool) reconcile.Event {
	start := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	return reconcile.Event{
		Key:          key,
		Title:        title,
		Start:        start,
		End:          start.Add(2 * time.Hour),
		Description:  "Brasileirão | Jogo agendado",
		Tentative:    tentative,
		LastModified: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestEventID(t *testing.T) {
	id := EventID("2026-03-10/brasileirao/mirassol-vs-palmeiras")
	assert.Len(t, id, 40)
	assert.Regexp(t, "^[0-9a-f]+$", id)
	assert.Equal(t, id, EventID("2026-03-10/brasileirao/mirassol-vs-palmeiras"))
	assert.NotEqual(t, id, EventID("2026-03-10/brasileirao/mirassol-vs-santos"))
}

func TestEvents_ApplyAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	desired := []reconcile.Event{
		sampleEvent("2026-03-10/brasileirao/mirassol-vs-palmeiras", "Mirassol vs Palmeiras", true),
		sampleEvent("2026-03-17/brasileirao/santos-vs-mirassol", "Santos vs Mirassol", false),
	}

	existing, err := svc.ListEvents(ctx, "cal-1")
	require.NoError(t, err)
	assert.Empty(t, existing, "foreign events are ignored")

	diff, err := reconcile.Reconcile(desired, existing, reconcile.Options{})
	require.NoError(t, err)
	res := reconcile.ApplyDiff(ctx, svc, "cal-1", diff, reconcile.ApplyOptions{Retry: retry.Policy{MaxAttempts: 1}})
	require.NoError(t, res.Err())
	assert.Equal(t, 2, res.Created)

	listed, err := svc.ListEvents(ctx, "cal-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)

	got := listed["2026-03-10/brasileirao/mirassol-vs-palmeiras"]
	assert.True(t, got.Tentative)
	assert.True(t, got.Start.Equal(desired[0].Start))
	assert.Equal(t, "Mirassol vs Palmeiras", got.Title)

	again, err := reconcile.Reconcile(desired, listed, reconcile.Options{})
	require.NoError(t, err)
	assert.True(t, again.Empty())
	assert.Len(t, again.Unchanged, 2)
}

func TestCreateEvent_ConflictUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	svc, fake := newTestService(t)
	ev := sampleEvent("2026-03-10/brasileirao/mirassol-vs-palmeiras", "Mirassol vs Palmeiras", false)

	require.NoError(t, svc.CreateEvent(ctx, "cal-1", ev))
	require.NoError(t, svc.DeleteEvent(ctx, "cal-1", ev.Key))

	ev.Title = "Mirassol vs Palmeiras 1-0"
	require.NoError(t, svc.CreateEvent(ctx, "cal-1", ev))

	fake.mu.Lock()
	stored := fake.events[EventID(ev.Key)]
	fake.mu.Unlock()
	assert.Equal(t, "confirmed", stored.Status)
	assert.Equal(t, "Mirassol vs Palmeiras 1-0", stored.Summary)
}

func TestUpdateEvent_MissingInserts(t *testing.T) {
	ctx := context.Background()
	svc, fake := newTestService(t)
	ev := sampleEvent("k", "Mirassol vs Palmeiras", false)

	require.NoError(t, svc.UpdateEvent(ctx, "cal-1", ev))
	fake.mu.Lock()
	_, ok := fake.events[EventID("k")]
	fake.mu.Unlock()
	assert.True(t, ok)
}

func TestDeleteEvent_Missing(t *testing.T) {
	svc, _ := newTestService(t)
	assert.NoError(t, svc.DeleteEvent(context.Background(), "cal-1", "never-created"))
}

func TestEvents_TransientFailureRetried(t *testing.T) {
	ctx := context.Background()
	svc, fake := newTestService(t)
	ev := sampleEvent("k", "Mirassol vs Palmeiras", false)
	fake.failNext[EventID("k")] = http.StatusServiceUnavailable

	diff := &reconcile.Diff{ToCreate: []reconcile.Event{ev}}
	policy := retry.Policy{MaxAttempts: 3, Sleep: func(context.Context, time.Duration) error { return nil }}
	res := reconcile.ApplyDiff(ctx, svc, "cal-1", diff, reconcile.ApplyOptions{Retry: policy})
	require.NoError(t, res.Err())
	assert.Equal(t, 1, res.Created)
}

func TestEvents_PermanentFailureRecorded(t *testing.T) {
	ctx := context.Background()
	svc, fake := newTestService(t)
	ev := sampleEvent("k", "Mirassol vs Palmeiras", false)
	fake.failNext[EventID("k")] = http.StatusBadRequest

	diff := &reconcile.Diff{ToCreate: []reconcile.Event{ev}}
	res := reconcile.ApplyDiff(ctx, svc, "cal-1", diff, reconcile.ApplyOptions{Retry: retry.Policy{MaxAttempts: 3}})
	require.Len(t, res.Failures, 1)
	assert.Equal(t, 1, res.Failures[0].Attempts)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		class retry.Class
	}{
		{"RateLimit429", &googleapi.Error{Code: 429}, retry.Transient},
		{"ServerError", &googleapi.Error{Code: 503}, retry.Transient},
		{"Forbidden rate limit", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "userRateLimitExceeded"}}}, retry.Transient},
		{"Forbidden", &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "forbidden"}}}, retry.Permanent},
		{"BadRequest", &googleapi.Error{Code: 400}, retry.Permanent},
		{"Unauthorized", &googleapi.Error{Code: 401}, retry.Permanent},
		{"Wrapped", fmt.Errorf("insert: %w", &googleapi.Error{Code: 500}), retry.Transient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.class, retry.Classify(classify(tt.err)))
		})
	}

	plain := errors.New("boom")
	assert.Equal(t, plain, classify(plain))
	assert.Nil(t, classify(nil))
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	svc, fake := newTestService(t)

	cal, err := svc.GetCalendar(ctx, "cal-1")
	require.NoError(t, err)
	assert.Equal(t, "MirassolFC", cal.Name)

	_, err = svc.GetCalendar(ctx, "gone")
	assert.ErrorIs(t, err, handle.ErrCalendarNotFound)

	found, err := svc.FindCalendarByName(ctx, "mirassolfc")
	require.NoError(t, err)
	assert.Equal(t, "cal-1", found.ID)

	_, err = svc.FindCalendarByName(ctx, "Palmeiras")
	assert.ErrorIs(t, err, handle.ErrCalendarNotFound)

	created, err := svc.CreateCalendar(ctx, handle.NewCalendar{Name: "Outro", TimeZone: "America/Sao_Paulo", ColorID: "4"})
	require.NoError(t, err)
	assert.Equal(t, "cal-new", created.ID)
	assert.Equal(t, []string{"cal-new:4"}, fake.patches)

	cals, err := svc.ListCalendars(ctx)
	require.NoError(t, err)
	assert.Len(t, cals, 3)

	require.NoError(t, svc.DeleteCalendar(ctx, "cal-new"))
	assert.ErrorIs(t, svc.DeleteCalendar(ctx, "cal-new"), handle.ErrCalendarNotFound)
}

func TestShareAndUsage(t *testing.T) {
	ctx := context.Background()
	svc, fake := newTestService(t)

	assert.Error(t, svc.ShareCalendar(ctx, "cal-1", "a@example.com", "admin"))
	assert.Error(t, svc.ShareCalendar(ctx, "cal-1", "", "reader"))
	require.NoError(t, svc.ShareCalendar(ctx, "cal-1", "a@example.com", ""))

	fake.mu.Lock()
	fake.acl = append(fake.acl,
		&calendar.AclRule{Role: "reader", Scope: &calendar.AclRuleScope{Type: "group", Value: "g@example.com"}},
		&calendar.AclRule{Role: "reader", Scope: &calendar.AclRuleScope{Type: "default"}},
	)
	fake.mu.Unlock()

	stats, err := svc.CalendarUsage(ctx, "cal-1")
	require.NoError(t, err)
	assert.Equal(t, UsageStats{Users: 1, Groups: 1, Public: true, Entries: 3}, *stats)
}

func TestSubscribeLink(t *testing.T) {
	assert.Equal(t,
		"https://calendar.google.com/calendar/u/0?cid=abc%40group.calendar.google.com",
		SubscribeLink("abc@group.calendar.google.com"))
}

func TestCredentialOptions(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }
	none := func(string) bool { return false }
	all := func(string) bool { return true }

	_, _, err := Config{CredentialsFile: "service-account.json"}.credentialOptions(getenv, none)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, source, err := Config{CredentialsFile: "service-account.json"}.credentialOptions(getenv, all)
	require.NoError(t, err)
	assert.Equal(t, "service-account.json", source)

	env["GOOGLE_APPLICATION_CREDENTIALS"] = "/etc/sa.json"
	_, source, err = Config{}.credentialOptions(getenv, none)
	require.NoError(t, err)
	assert.Equal(t, "GOOGLE_APPLICATION_CREDENTIALS", source)

	env["SERVICE_ACCOUNT_KEY"] = `{"type":"service_account"}`
	_, source, err = Config{}.credentialOptions(getenv, none)
	require.NoError(t, err)
	assert.Equal(t, "SERVICE_ACCOUNT_KEY", source)

	_, source, err = Config{Endpoint: "http://localhost:1"}.credentialOptions(getenv, none)
	require.NoError(t, err)
	assert.Equal(t, "endpoint", source)
}
