package cmd

import (
	"context"
	"errors"
	"fmt"

	"match-calendar/feature/calendar/google"
	"match-calendar/feature/calendar/handle"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	shareRole  string
	deleteYes  bool
	createName string
)

// calendarCmd groups the Google Calendar management commands
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Manage the Google Calendar",
}

// remoteApp bootstraps with the Google service and fails when it is missing.
func remoteApp(ctx context.Context) (*app, error) {
	a, err := bootstrap(ctx, bootOptions{remote: true})
	if err != nil {
		return nil, err
	}
	if a.google == nil {
		a.close()
		if a.googleErr != nil {
			return nil, fmt.Errorf("google calendar unavailable: %w", a.googleErr)
		}
		return nil, errors.New("google calendar is not configured")
	}
	return a, nil
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the calendars visible to the service account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := remoteApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		calendars, err := a.google.ListCalendars(cmd.Context())
		if err != nil {
			return err
		}
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "ID", "Timezone"})
		for _, c := range calendars {
			t.AppendRow(table.Row{c.Name, c.ID, c.TimeZone})
		}
		t.Render()
		return nil
	},
}

var calendarInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Resolve the configured calendar and print its id and subscribe link",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := remoteApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		r, err := a.resolver()
		if err != nil {
			return err
		}
		h, err := r.Resolve(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:       %s\n", h.Name)
		fmt.Fprintf(out, "ID:         %s\n", h.ID)
		fmt.Fprintf(out, "Resolved:   %s\n", h.Provenance)
		fmt.Fprintf(out, "Subscribe:  %s\n", google.SubscribeLink(h.ID))
		return nil
	},
}

var calendarCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a calendar without touching the cached id",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := remoteApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		spec := a.newCalendar()
		if createName != "" {
			spec.Name = createName
		}
		c, err := a.google.CreateCalendar(cmd.Context(), spec)
		if err != nil {
			return err
		}
		a.logger.Info("Calendar created", zap.String("name", c.Name), zap.String("id", c.ID))
		fmt.Fprintln(cmd.OutOrStdout(), c.ID)
		return nil
	},
}

var calendarDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a calendar, the configured one by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := remoteApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		r, err := a.resolver()
		if err != nil {
			return err
		}

		id := ""
		configured := len(args) == 0
		if configured {
			h, err := r.Resolve(ctx)
			if err != nil {
				return err
			}
			id = h.ID
		} else {
			id = args[0]
		}

		if !deleteYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete calendar %s and all its events?", id)) {
			return errAborted
		}
		if err := a.google.DeleteCalendar(ctx, id); err != nil {
			return err
		}

		cached, err := a.cache.Get(ctx, a.cfg.Cache.CacheKey())
		if configured || (err == nil && cached == id) {
			if err := r.Forget(ctx); err != nil && !errors.Is(err, handle.ErrReadOnly) {
				a.logger.Warn("Failed to clear cached calendar id", zap.Error(err))
			}
		}
		a.logger.Info("Calendar deleted", zap.String("id", id))
		return nil
	},
}

var calendarShareCmd = &cobra.Command{
	Use:   "share [email]",
	Short: "Share the configured calendar with a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := remoteApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		r, err := a.resolver()
		if err != nil {
			return err
		}
		h, err := r.Resolve(ctx)
		if err != nil {
			return err
		}
		if err := a.google.ShareCalendar(ctx, h.ID, args[0], shareRole); err != nil {
			return err
		}
		a.logger.Info("Calendar shared", zap.String("email", args[0]), zap.String("role", shareRole))
		return nil
	},
}

var calendarStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count who the configured calendar is shared with",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := remoteApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		r, err := a.resolver()
		if err != nil {
			return err
		}
		h, err := r.Resolve(ctx)
		if err != nil {
			return err
		}
		stats, err := a.google.CalendarUsage(ctx, h.ID)
		if err != nil {
			return err
		}
		events, err := a.google.ListEvents(ctx, h.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n=== %s ===\n", h.Name)
		fmt.Fprintf(out, "Events:   %d\n", len(events))
		fmt.Fprintf(out, "Users:    %d\n", stats.Users)
		fmt.Fprintf(out, "Groups:   %d\n", stats.Groups)
		fmt.Fprintf(out, "Domains:  %d\n", stats.Domains)
		fmt.Fprintf(out, "Public:   %v\n", stats.Public)
		fmt.Fprintf(out, "ACL rules: %d\n", stats.Entries)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(calendarCmd)
	calendarCmd.AddCommand(calendarListCmd, calendarInfoCmd, calendarCreateCmd, calendarDeleteCmd, calendarShareCmd, calendarStatsCmd)

	calendarCreateCmd.Flags().StringVar(&createName, "name", "", "Calendar name (defaults to the configured one)")
	calendarDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation")
	calendarShareCmd.Flags().StringVar(&shareRole, "role", "reader", "freeBusyReader, reader, writer or owner")
}
