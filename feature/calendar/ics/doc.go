// Package ics reads and writes the local iCalendar file.
//
// The file is the local copy of the event set: every VEVENT carries
// UID <identity-key>@<domain>, DTSTAMP and LAST-MODIFIED equal to the
// event's LastModified, UTC DTSTART/DTEND and a TENTATIVE or CONFIRMED
// STATUS. Output is deterministic, so a run against an unchanged source
// rewrites nothing.
package ics
