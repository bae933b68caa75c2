// Package config provides configuration management for match-calendar.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// every section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port and API key
//   - Database: MySQL or SQLite connection for run history and the id cache
//   - Storage: S3/MinIO credentials and the bucket the feed is published to
//   - Log: Logging level and format
//   - Scraper: fixture page URLs, season and HTTP behaviour
//   - Calendar: calendar name, timezone and event layout
//   - Google: Google Calendar credentials
//   - Cache: backend of the remembered calendar id
//   - Retry: backoff of remote calls
//   - Sync: run defaults and schedule
//
// Nested keys map to environment variables by replacing dots with
// underscores, so scraper.season is read from SCRAPER_SEASON.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Calendar.Name)
package config
