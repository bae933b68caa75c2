package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"strconv"

	"match-calendar/core/logger"
	"match-calendar/core/reconcile"
	"match-calendar/feature/calendar/ics"
	"match-calendar/feature/fixtures"
	"match-calendar/feature/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the calendar feed.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = sync.Report{}
	var _ = fixtures.MatchRecord{}
	return &Handler{service: service}
}

// RegisterRoutes registers the feed routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	app.Get("/calendar.ics", h.HandleCalendar)
	app.Get("/fixtures", h.HandleFixtures)
	app.Get("/runs", h.HandleRuns)
	app.Post("/sync", h.HandleSync)
}

// HandleHealth reports liveness.
// @Summary Health
// @Tags feed
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleCalendar serves the local calendar file.
// @Summary Calendar Feed
// @Description Serves the local .ics file. Supports conditional requests through ETag.
// @Tags feed
// @Produce text/calendar
// @Success 200 {string} string "iCalendar document"
// @Success 304 "Not Modified"
// @Failure 404 {object} map[string]string "Calendar not generated yet"
// @Router /calendar.ics [get]
func (h *Handler) HandleCalendar(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	data, err := os.ReadFile(h.service.store.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "calendar not generated yet"})
	}
	if err != nil {
		l.Error("Failed to read calendar", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	sum := sha256.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`
	c.Set(fiber.HeaderETag, etag)
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")

	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderContentType, ics.ContentType)
	return c.Send(data)
}

// HandleFixtures lists the fixtures currently in the local calendar.
// @Summary List Fixtures
// @Description Decodes the local calendar back into match records.
// @Tags feed
// @Produce json
// @Success 200 {array} fixtures.MatchRecord
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /fixtures [get]
func (h *Handler) HandleFixtures(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.Fixtures()
	if err != nil {
		l.Error("Failed to decode fixtures", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(records)
}

// HandleRuns lists recent sync runs.
// @Summary Run History
// @Tags feed
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {array} sync.SyncRun
// @Failure 503 {object} map[string]string "History disabled"
// @Router /runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	history := h.service.runner.History()
	if history == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "run history is disabled"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	runs, err := history.Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleSync triggers a sync run.
// @Summary Trigger Sync
// @Description Runs scrape and sync now. Clear mode deletes events missing from the source and requires confirm=true.
// @Tags feed
// @Produce json
// @Param mode query string false "merge or clear"
// @Param confirm query boolean false "Confirm clear mode"
// @Param dry_run query boolean false "Compute the diff without writing"
// @Success 200 {object} sync.Report
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "A run is in progress"
// @Failure 500 {object} sync.Report "Run aborted"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts, err := h.service.runner.DefaultOptions()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if raw := c.Query("mode"); raw != "" {
		mode, err := reconcile.ParseMode(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		opts.Mode = mode
	}
	if opts.Mode == reconcile.ModeClear && !c.QueryBool("confirm") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "clear mode requires confirm=true"})
	}
	opts.DryRun = c.QueryBool("dry_run")
	opts.Trigger = "http"

	report, err := h.service.runner.TryRun(c.UserContext(), opts)
	if errors.Is(err, sync.ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Sync run aborted", zap.Error(err))
		if report != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(report)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Sync run completed", zap.String("run_id", report.RunID), zap.Bool("failed", report.Failed()))
	return c.JSON(report)
}
