// Package logger builds the zap logger shared by the CLI, the sync runs and
// the server.
//
// Level "debug" switches to zap's development preset; any other level uses
// the production preset. Format "console" is meant for interactive CLI runs,
// "json" for the scheduled server. Timestamps are ISO8601.
//
// Handlers call WithRayID to attach the request's ray id, and sync runs add
// their run_id field, so a single run can be followed across the scrape, the
// local write and the remote apply:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Sync run aborted", zap.Error(err))
package logger
