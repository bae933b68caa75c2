// Package google talks to the Google Calendar API v3.
//
// Service resolves and manages calendars (handle.Directory plus the
// list, delete, share and usage operations of the calendar command) and
// mutates events (reconcile.Mutator).
//
// Managed events carry private extended properties: fixtureKey (the identity
// key), lastModified, tentative and source. The remote event id is the hex
// SHA-1 of the identity key, so creates are naturally idempotent. Events
// without fixtureKey belong to someone else and are never listed or touched.
//
// API errors are classified for the retry policy: 429, 5xx and 403 rate
// limits are transient; every other status is permanent.
package google
