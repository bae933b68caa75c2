package handle

import (
	"errors"
	"fmt"

	"match-calendar/core/storage"

	"gorm.io/gorm"
)

const (
	BackendFile   = "file"
	BackendEnv    = "env"
	BackendDB     = "db"
	BackendObject = "object"
)

// Config selects and configures the calendar-id cache.
type Config struct {
	// Backend is one of file, env, db, object.
	Backend string `mapstructure:"backend" default:"file"`
	// Dir is the directory of the file backend.
	Dir string `mapstructure:"dir" default:"."`
	// Key names the cached calendar id.
	Key string `mapstructure:"key" default:"mirassolfc_calendar_id"`
	// EnvVar is read by the env backend.
	EnvVar string `mapstructure:"env_var" default:"CALENDAR_ID"`
	// ObjectPrefix is the object key prefix of the object backend.
	ObjectPrefix string `mapstructure:"object_prefix" default:"cache"`
}

// CacheKey returns the configured key or the default one.
func (c Config) CacheKey() string {
	if c.Key == "" {
		return "mirassolfc_calendar_id"
	}
	return c.Key
}

// Open builds the configured store. db and client are only required by
// the backends that use them.
func (c Config) Open(db *gorm.DB, client storage.Client, bucket string) (KV, error) {
	switch c.Backend {
	case "", BackendFile:
		return NewFileStore(c.Dir), nil
	case BackendEnv:
		return NewEnvStore(c.EnvVar), nil
	case BackendDB:
		if db == nil {
			return nil, errors.New("cache backend db requires a database connection")
		}
		store := NewDBStore(db)
		if err := store.Migrate(); err != nil {
			return nil, fmt.Errorf("failed to migrate kv_entries: %w", err)
		}
		return store, nil
	case BackendObject:
		if client == nil {
			return nil, errors.New("cache backend object requires storage")
		}
		return NewObjectStore(client, bucket, c.ObjectPrefix), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}
