// Package integrity provides health checks over the resources a sync run
// depends on.
//
// # Checks Provided
//
//   - Calendar: the local .ics file parses, has no duplicate UIDs and every event is well formed.
//   - Storage: the publishing bucket exists and the feed object is present.
//   - Schema: the sync_runs and kv_entries tables match their GORM models.
//   - Cache: the calendar id is remembered and, on request, still exists remotely.
//
// Checks whose resource is not configured are skipped by CheckAll and
// answer 503 on their own endpoint.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks (supports ?remote=true).
//   - GET /integrity/calendar
//   - GET /integrity/storage : Supports ?fix=true to create the bucket.
//   - GET /integrity/schema
//   - GET /integrity/cache : Supports ?remote=true.
package integrity
