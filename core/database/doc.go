// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL or SQLite connections from the application's
// configuration. The database is optional: it backs run history and the
// db cache backend, and the application runs without it.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table on either dialect.
// MissingColumns compares a GORM model with its live table; the integrity
// check uses it on the run history and cache tables.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Database unavailable", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "sync_runs")
package database
