package sync

// Config holds the run defaults.
type Config struct {
	// Mode is merge or clear.
	Mode string `mapstructure:"mode" default:"merge"`
	// Concurrency is the number of parallel remote operations within a phase.
	Concurrency int `mapstructure:"concurrency" default:"1"`
	// Local enables the .ics target.
	Local bool `mapstructure:"local" default:"true"`
	// Remote enables the Google Calendar target.
	Remote bool `mapstructure:"remote" default:"true"`
	// Publish uploads the written .ics to object storage.
	Publish bool `mapstructure:"publish" default:"false"`
	// ObjectName is the object key of the published calendar.
	ObjectName string `mapstructure:"object_name" default:"mirassol_futebol_clube.ics"`
	// Schedule is the cron expression used by serve.
	Schedule string `mapstructure:"schedule" default:""`
	// History stores a row per run when a database is available.
	History bool `mapstructure:"history" default:"true"`
}
