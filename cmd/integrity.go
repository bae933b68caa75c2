package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"match-calendar/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag    bool
	remoteFlag bool
	jsonFlag   bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the calendar file, storage, database and cached calendar id",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, func(ctx context.Context, svc *integrity.Service) (any, bool, error) {
			report := svc.CheckAll(ctx, remoteFlag)
			return report, report.Healthy(), nil
		})
	},
}

var integrityCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Validate the local .ics file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, func(_ context.Context, svc *integrity.Service) (any, bool, error) {
			report, err := svc.CheckCalendar()
			if err != nil {
				return nil, false, err
			}
			return report, report.Status == "ok", nil
		})
	},
}

var integrityStorageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check the publishing bucket and feed object",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, func(ctx context.Context, svc *integrity.Service) (any, bool, error) {
			report, err := svc.CheckStorage(ctx)
			if err != nil {
				return nil, false, err
			}
			if !report.BucketExists && fixFlag {
				if err := svc.FixStorage(ctx); err != nil {
					return nil, false, err
				}
				if report, err = svc.CheckStorage(ctx); err != nil {
					return nil, false, err
				}
			}
			return report, report.Status == "ok", nil
		})
	},
}

var integritySchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the run history and cache tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, func(_ context.Context, svc *integrity.Service) (any, bool, error) {
			report, err := svc.CheckSchema()
			if err != nil {
				return nil, false, err
			}
			return report, report.Matched, nil
		})
	},
}

var integrityCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Check the cached calendar id",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrity(cmd, func(ctx context.Context, svc *integrity.Service) (any, bool, error) {
			report, err := svc.CheckCache(ctx, remoteFlag)
			if err != nil {
				return nil, false, err
			}
			return report, report.Status == "ok", nil
		})
	},
}

type integrityCheck func(ctx context.Context, svc *integrity.Service) (report any, healthy bool, err error)

func runIntegrity(cmd *cobra.Command, check integrityCheck) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx, bootOptions{remote: remoteFlag})
	if err != nil {
		return err
	}
	defer a.close()

	report, healthy, err := check(ctx, a.integrity())
	if errors.Is(err, integrity.ErrNotConfigured) {
		return fmt.Errorf("%s check: %w", cmd.Name(), err)
	}
	if err != nil {
		return err
	}

	if jsonFlag {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		a.logger.Info("Integrity report", zap.Any("report", report))
	}

	if !healthy {
		return errors.New("integrity issues found")
	}
	a.logger.Info("No integrity issues found")
	return nil
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(integrityCalendarCmd, integrityStorageCmd, integritySchemaCmd, integrityCacheCmd)

	integrityCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print the report as JSON")
	integrityCmd.PersistentFlags().BoolVar(&remoteFlag, "remote", false, "Verify the cached id against Google Calendar")
	integrityStorageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
}
