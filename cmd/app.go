package cmd

import (
	"context"
	"fmt"

	"match-calendar/core/config"
	"match-calendar/core/database"
	"match-calendar/core/logger"
	"match-calendar/core/storage"
	"match-calendar/feature/calendar/codec"
	"match-calendar/feature/calendar/google"
	"match-calendar/feature/calendar/handle"
	"match-calendar/feature/calendar/ics"
	"match-calendar/feature/fixtures"
	"match-calendar/feature/integrity"
	"match-calendar/feature/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the wired collaborators shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	storage   storage.Client
	codec     *codec.Codec
	meta      ics.Meta
	store     *ics.Store
	publisher *ics.Publisher
	google    *google.Service
	googleErr error
	cache     handle.KV
	history   *sync.History
	sync      *sync.Service
}

// bootOptions selects the optional collaborators a command needs.
type bootOptions struct {
	remote bool
}

// bootstrap loads the configuration and wires every collaborator.
// Optional resources that fail to initialise are logged and left nil. A Google
// service that is enabled but cannot be built fails every run asking for the
// remote target.
func bootstrap(ctx context.Context, opts bootOptions) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logg}

	if cfg.Database.Enabled {
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			a.db = conn
			logg.Info("Connected to database", zap.String("driver", conn.Dialector.Name()))
		}
	}

	if cfg.Sync.Publish || cfg.Cache.Backend == handle.BackendObject {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		a.storage = client
	}

	a.codec, err = codec.New(cfg.Calendar)
	if err != nil {
		return nil, err
	}
	a.meta = ics.MetaFromConfig(cfg.Calendar)
	a.store = ics.NewStore(cfg.Calendar.ICSPath, a.meta, logg)

	if cfg.Sync.Publish && a.storage != nil {
		a.publisher = ics.NewPublisher(a.storage, cfg.Storage.Bucket, cfg.Sync.ObjectName)
	}

	if opts.remote && cfg.Google.Enabled {
		if svc, err := google.New(ctx, cfg.Google, logg); err != nil {
			logg.Error("Google Calendar unavailable", zap.Error(err))
			a.googleErr = err
		} else {
			a.google = svc
		}
	}

	a.cache, err = cfg.Cache.Open(a.db, a.storage, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}

	if a.db != nil && cfg.Sync.History {
		history := sync.NewHistory(a.db)
		if err := history.Migrate(); err != nil {
			logg.Warn("Failed to migrate run history", zap.Error(err))
		} else {
			a.history = history
		}
	}

	scraper, err := fixtures.NewScraper(cfg.Scraper, fixtures.NewHTTPFetcher(cfg.Scraper, logg), codec.IdentityKey, logg)
	if err != nil {
		return nil, err
	}

	deps := sync.Deps{
		Source:    scraper,
		Codec:     a.codec,
		Store:     a.store,
		Publisher: a.publisher,
		RemoteErr: a.googleErr,
		Cache:     a.cache,
		CacheKey:  cfg.Cache.CacheKey(),
		Calendar:  a.newCalendar(),
		History:   a.history,
		Retry:     cfg.Retry.Policy(),
		Logger:    logg,
	}
	// A nil *google.Service must not become a non-nil Remote.
	if a.google != nil {
		deps.Remote = a.google
	}
	a.sync = sync.NewService(cfg.Sync, deps)

	return a, nil
}

func (a *app) newCalendar() handle.NewCalendar {
	return handle.NewCalendar{
		Name:        a.cfg.Calendar.Name,
		Description: a.cfg.Calendar.Description,
		TimeZone:    a.cfg.Calendar.Timezone,
		ColorID:     a.cfg.Calendar.ColorID,
	}
}

// resolver returns the calendar resolver the sync service uses.
func (a *app) resolver() (*handle.Resolver, error) {
	r := a.sync.Resolver()
	if r == nil {
		return nil, fmt.Errorf("google calendar is not configured")
	}
	return r, nil
}

func (a *app) integrity() *integrity.Service {
	deps := integrity.Deps{
		ICSPath:  a.cfg.Calendar.ICSPath,
		Meta:     a.meta,
		Bucket:   a.cfg.Storage.Bucket,
		Region:   a.cfg.Storage.Region,
		Object:   a.cfg.Sync.ObjectName,
		DB:       a.db,
		Cache:    a.cache,
		CacheKey: a.cfg.Cache.CacheKey(),
		Logger:   a.logger,
	}
	if a.storage != nil {
		deps.Client = a.storage
	}
	if a.google != nil {
		deps.Directory = a.google
	}
	return integrity.NewService(deps)
}

func (a *app) close() {
	_ = a.logger.Sync()
}
