// Package sync runs the scrape-and-sync pipeline.
//
// A run scrapes both fixture pages, encodes the records as events, then
// converges each enabled target on them: the local .ics file (optionally
// published to object storage) and the remote Google Calendar. Each target
// computes its own diff against its own current state.
//
// Extraction errors and duplicate identity keys abort the run before any
// target is touched. Failures inside a target are collected in the Report,
// and the remaining work continues. Runs never overlap: Run waits for the
// previous one and TryRun refuses with ErrRunInProgress.
//
// Dry runs compute the same diffs without writing anything. The remote
// calendar is only looked up, so a missing calendar shows every event as a
// create instead of being created.
//
// When a database is configured every non-dry run is stored in sync_runs.
package sync
