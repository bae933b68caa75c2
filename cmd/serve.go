package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"match-calendar/core/loader"
	"match-calendar/core/logger"
	"match-calendar/core/middleware/auth"
	"match-calendar/core/middleware/rayid"
	"match-calendar/feature/feed"
	"match-calendar/feature/integrity"
	"match-calendar/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "match-calendar/docs/swagger"
)

var scheduleFlag string

// @title Match Calendar API
// @version 1.0
// @description Scrapes Mirassol FC fixtures and keeps an .ics feed and a Google Calendar in sync.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"start"},
	Short:   "Serve the calendar feed and run scheduled syncs",
	Long: `Starts the HTTP server with the .ics feed, the sync trigger and the
integrity checks. With a schedule, syncs also run on a cron expression.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), bootOptions{remote: true})
		if err != nil {
			return err
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		schedule := a.cfg.Sync.Schedule
		if cmd.Flags().Changed("schedule") {
			schedule = scheduleFlag
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(feed.NewFeature(feed.NewService(a.sync, a.store, a.codec, logg)))
		mgr.Register(integrity.NewFeature(a.integrity()))

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Public: a.cfg.Server.Public()}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		var scheduler *cron.Cron
		if schedule != "" {
			scheduler, err = startScheduler(a.sync, schedule, logg)
			if err != nil {
				return err
			}
			defer func() { <-scheduler.Stop().Done() }()
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			errCh <- app.Listen(a.cfg.Server.Address())
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case <-c:
		case err := <-errCh:
			return err
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

// startScheduler runs a sync on every tick of spec. A tick that fires
// while the previous run is still going is skipped.
func startScheduler(svc *sync.Service, spec string, logg *zap.Logger) (*cron.Cron, error) {
	opts, err := svc.DefaultOptions()
	if err != nil {
		return nil, err
	}
	opts.Trigger = "schedule"

	scheduler := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	_, err = scheduler.AddFunc(spec, func() {
		_, err := svc.TryRun(context.Background(), opts)
		if errors.Is(err, sync.ErrRunInProgress) {
			logg.Info("Scheduled sync skipped, a run is in progress")
			return
		}
		if err != nil {
			logg.Error("Scheduled sync aborted", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	logg.Info("Sync scheduled", zap.String("schedule", spec))
	return scheduler, nil
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&scheduleFlag, "schedule", "", "Cron expression for automatic syncs (e.g. \"0 */6 * * *\")")
}
