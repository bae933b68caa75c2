// Package feed serves the calendar over HTTP.
//
// Routes:
//
//	GET  /health        liveness
//	GET  /calendar.ics  the local calendar file, with a sha256 ETag
//	GET  /fixtures      the fixtures decoded from the local calendar
//	GET  /runs          recent sync runs (requires a database)
//	POST /sync          triggers a run; 409 while another run is active
//
// The calendar feed and health check are public; /sync sits behind the API
// key middleware.
package feed
