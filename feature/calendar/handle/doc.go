// Package handle resolves the remote calendar a run writes to.
//
// Resolution order is cached id, then lookup by name, then creation. A cached
// id the remote service rejects as unknown is reported as a
// CacheInconsistencyError, cleared, and resolution continues by name.
//
// The cache is a small KV abstraction with file, environment, database
// (gorm, table kv_entries) and object storage backends.
package handle
