package google

import (
	"errors"
	"os"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Config holds the Google Calendar connection settings.
type Config struct {
	// Enabled turns on the remote target.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// CredentialsFile is a service-account key file, used when it exists.
	CredentialsFile string `mapstructure:"credentials_file" default:"service-account.json"`
	// CredentialsJSON is an inline service-account key.
	CredentialsJSON string `mapstructure:"credentials_json" default:""`
	// Endpoint overrides the API base URL.
	Endpoint string `mapstructure:"endpoint" default:""`
	// TimeoutSeconds bounds every API request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// ErrNoCredentials is returned when no credential source is configured.
var ErrNoCredentials = errors.New("no Google credentials: provide service-account.json, SERVICE_ACCOUNT_KEY or GOOGLE_APPLICATION_CREDENTIALS")

// Timeout returns the request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// credentialOptions picks the first available credential source:
// the key file, inline JSON (config or SERVICE_ACCOUNT_KEY), then
// GOOGLE_APPLICATION_CREDENTIALS. It returns the option and a label
// naming the source.
func (c Config) credentialOptions(getenv func(string) string, exists func(string) bool) ([]option.ClientOption, string, error) {
	if c.Endpoint != "" {
		return []option.ClientOption{option.WithEndpoint(c.Endpoint), option.WithoutAuthentication()}, "endpoint", nil
	}

	scopes := option.WithScopes(calendar.CalendarScope)

	if c.CredentialsFile != "" && exists(c.CredentialsFile) {
		return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile), scopes}, c.CredentialsFile, nil
	}

	inline := c.CredentialsJSON
	if inline == "" {
		inline = getenv("SERVICE_ACCOUNT_KEY")
	}
	if inline != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(inline)), scopes}, "SERVICE_ACCOUNT_KEY", nil
	}

	if path := getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
		return []option.ClientOption{option.WithCredentialsFile(path), scopes}, "GOOGLE_APPLICATION_CREDENTIALS", nil
	}

	return nil, "", ErrNoCredentials
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
