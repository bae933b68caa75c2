package config

import (
	"reflect"
	"strings"

	"match-calendar/core/database"
	"match-calendar/core/logger"
	"match-calendar/core/retry"
	"match-calendar/core/server"
	"match-calendar/core/storage"
	"match-calendar/feature/calendar"
	"match-calendar/feature/calendar/google"
	"match-calendar/feature/calendar/handle"
	"match-calendar/feature/fixtures"
	"match-calendar/feature/sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage used to publish the feed.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run history and cache database.
	Database database.Config `mapstructure:"database"`
	// Scraper holds the fixture source settings.
	Scraper fixtures.Config `mapstructure:"scraper"`
	// Calendar holds the calendar identity and event layout.
	Calendar calendar.Config `mapstructure:"calendar"`
	// Google holds the Google Calendar connection.
	Google google.Config `mapstructure:"google"`
	// Cache selects where the calendar id is remembered.
	Cache handle.Config `mapstructure:"cache"`
	// Retry bounds retries of remote calls.
	Retry retry.Config `mapstructure:"retry"`
	// Sync holds the run defaults.
	Sync sync.Config `mapstructure:"sync"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SCRAPER_SEASON -> scraper.season)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
