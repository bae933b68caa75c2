package integrity

import (
	"errors"

	"match-calendar/core/logger"
	"match-calendar/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/calendar", h.HandleCalendarCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/cache", h.HandleCacheCheck)
}

func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotConfigured) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Runs every configured check (Calendar, Storage, Schema, Cache).
// @Tags integrity
// @Produce json
// @Param remote query boolean false "Verify the cached calendar id against Google Calendar"
// @Success 200 {object} Report "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.CheckAll(c.UserContext(), c.QueryBool("remote"))
	if !report.Healthy() {
		l.Warn("Integrity issues found")
	}
	return c.JSON(report)
}

// HandleCalendarCheck validates the local calendar file.
// @Summary Check Calendar File
// @Description Parses the local .ics file and validates every event.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.CalendarReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/calendar [get]
func (h *Handler) HandleCalendarCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckCalendar()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Calendar check failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the publishing bucket.
// @Summary Check Storage
// @Description Checks the bucket and the published feed. Optionally creates the missing bucket.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.StorageReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ctx := c.UserContext()

	report, err := h.service.CheckStorage(ctx)
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return fail(c, err)
	}

	if !report.BucketExists && c.QueryBool("fix") {
		l.Info("Attempting to create missing bucket", zap.String("bucket", report.Bucket))
		if err := h.service.FixStorage(ctx); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		if report, err = h.service.CheckStorage(ctx); err != nil {
			return fail(c, err)
		}
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the database schema.
// @Summary Check Database Schema
// @Description Checks that sync_runs and kv_entries match their models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Database not configured"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckSchema()
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Schema check failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(report)
}

// HandleCacheCheck checks the remembered calendar id.
// @Summary Check Calendar Id Cache
// @Tags integrity
// @Produce json
// @Param remote query boolean false "Verify the id against Google Calendar"
// @Success 200 {object} checks.CacheReport
// @Failure 503 {object} map[string]string "Cache not configured"
// @Router /integrity/cache [get]
func (h *Handler) HandleCacheCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckCache(c.UserContext(), c.QueryBool("remote"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}
