// Package server holds the HTTP server configuration.
//
// The serve command reads the listen address and the API key from here.
// Paths listed in PublicPaths (the health check, the .ics feed and the
// Swagger UI by default) are reachable without the key so calendar apps
// can subscribe to the feed.
package server
