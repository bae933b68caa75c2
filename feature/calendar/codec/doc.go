// Package codec converts fixtures into calendar events and back.
//
// The identity key has the form
//
//	2026-03-10/brasileirao/mirassol-vs-palmeiras
//
// and only depends on the calendar date, the competition and the two teams,
// so a fixture keeps its key when its score, venue or kickoff time change.
//
// Fixtures without a confirmed kickoff are placed at the configured
// placeholder time and flagged "Horário a definir" in the description; when
// the real time is published the event content changes and is updated.
package codec
