// Package middleware groups the fiber handlers that run before the feed and
// integrity routes.
//
// rayid tags every request with an X-Ray-ID (taken from the request when the
// caller sends one) so log lines of one request can be correlated. auth
// checks the configured API key, read from X-API-Key or a Bearer token, on
// every route outside the public prefixes. By default only /health,
// /calendar.ics and the swagger UI are public, so calendar subscribers need no
// key while POST /sync does.
package middleware
