package google

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"match-calendar/feature/calendar/handle"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Service is the Google Calendar implementation of the remote calendar.
// It serves as handle.Directory and reconcile.Mutator.
type Service struct {
	api     *calendar.Service
	timeout time.Duration
	logger  *zap.Logger
}

// New authenticates with the first available credential source and
// creates the API client.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, source, err := cfg.credentialOptions(os.Getenv, fileExists)
	if err != nil {
		return nil, err
	}

	api, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	logger.Info("Authenticated with Google Calendar", zap.String("source", source))
	return &Service{api: api, timeout: cfg.Timeout(), logger: logger}, nil
}

// NewWithOptions creates a service from explicit client options.
func NewWithOptions(ctx context.Context, logger *zap.Logger, opts ...option.ClientOption) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	api, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return &Service{api: api, timeout: 30 * time.Second, logger: logger}, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// GetCalendar returns the calendar or an error wrapping handle.ErrCalendarNotFound.
func (s *Service) GetCalendar(ctx context.Context, id string) (*handle.Calendar, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cal, err := s.api.Calendars.Get(id).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", handle.ErrCalendarNotFound, id)
		}
		return nil, classify(err)
	}
	return &handle.Calendar{ID: cal.Id, Name: cal.Summary, Description: cal.Description, TimeZone: cal.TimeZone}, nil
}

// ListCalendars returns every calendar in the account's calendar list.
func (s *Service) ListCalendars(ctx context.Context) ([]handle.Calendar, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var out []handle.Calendar
	err := s.api.CalendarList.List().Context(ctx).Pages(ctx, func(page *calendar.CalendarList) error {
		for _, entry := range page.Items {
			out = append(out, handle.Calendar{
				ID:          entry.Id,
				Name:        entry.Summary,
				Description: entry.Description,
				TimeZone:    entry.TimeZone,
			})
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// FindCalendarByName matches calendar names case-insensitively.
func (s *Service) FindCalendarByName(ctx context.Context, name string) (*handle.Calendar, error) {
	cals, err := s.ListCalendars(ctx)
	if err != nil {
		return nil, err
	}
	for _, cal := range cals {
		if strings.EqualFold(cal.Name, name) {
			return &cal, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", handle.ErrCalendarNotFound, name)
}

// CreateCalendar creates a calendar and applies its colour. A colour
// failure is logged and does not fail the creation.
func (s *Service) CreateCalendar(ctx context.Context, spec handle.NewCalendar) (*handle.Calendar, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	created, err := s.api.Calendars.Insert(&calendar.Calendar{
		Summary:     spec.Name,
		Description: spec.Description,
		TimeZone:    spec.TimeZone,
	}).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}

	if spec.ColorID != "" {
		_, err := s.api.CalendarList.Patch(created.Id, &calendar.CalendarListEntry{ColorId: spec.ColorID}).Context(ctx).Do()
		if err != nil {
			s.logger.Warn("Failed to set calendar colour", zap.String("id", created.Id), zap.Error(err))
		}
	}

	return &handle.Calendar{ID: created.Id, Name: created.Summary, Description: created.Description, TimeZone: created.TimeZone}, nil
}

// DeleteCalendar removes a secondary calendar.
func (s *Service) DeleteCalendar(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.api.Calendars.Delete(id).Context(ctx).Do(); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", handle.ErrCalendarNotFound, id)
		}
		return classify(err)
	}
	return nil
}

var validRoles = map[string]bool{"freeBusyReader": true, "reader": true, "writer": true, "owner": true}

// ShareCalendar grants role to a user by e-mail.
func (s *Service) ShareCalendar(ctx context.Context, id, email, role string) error {
	if role == "" {
		role = "reader"
	}
	if !validRoles[role] {
		return fmt.Errorf("invalid role %q", role)
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.api.Acl.Insert(id, &calendar.AclRule{
		Role:  role,
		Scope: &calendar.AclRuleScope{Type: "user", Value: email},
	}).Context(ctx).Do()
	if err != nil {
		return classify(err)
	}
	return nil
}

// UsageStats summarizes who can see a calendar.
type UsageStats struct {
	Users   int  `json:"users"`
	Groups  int  `json:"groups"`
	Domains int  `json:"domains"`
	Public  bool `json:"public"`
	Entries int  `json:"entries"`
}

// CalendarUsage counts the ACL entries of a calendar by scope type.
func (s *Service) CalendarUsage(ctx context.Context, id string) (*UsageStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stats := &UsageStats{}
	err := s.api.Acl.List(id).Context(ctx).Pages(ctx, func(page *calendar.Acl) error {
		for _, rule := range page.Items {
			stats.Entries++
			if rule.Scope == nil {
				continue
			}
			switch rule.Scope.Type {
			case "user":
				stats.Users++
			case "group":
				stats.Groups++
			case "domain":
				stats.Domains++
			case "default":
				stats.Public = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return stats, nil
}

// SubscribeLink returns the URL that adds the calendar to a Google account.
func SubscribeLink(id string) string {
	return "https://calendar.google.com/calendar/u/0?cid=" + url.QueryEscape(id)
}
