package cmd

import (
	"errors"
	"fmt"
	"strings"

	"match-calendar/core/reconcile"
	"match-calendar/feature/sync"

	"github.com/spf13/cobra"
)

var (
	syncClear       bool
	syncYes         bool
	syncDryRun      bool
	syncLocalOnly   bool
	syncRemoteOnly  bool
	syncConcurrency int
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scrape fixtures and sync the .ics file and Google Calendar",
	Long: `Scrapes both fixture pages and converges the local .ics file and the
Google Calendar on them. Merge mode (default) never deletes; --clear also
removes events that are no longer listed and asks for confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncLocalOnly && syncRemoteOnly {
			return errors.New("--local-only and --remote-only are mutually exclusive")
		}

		a, err := bootstrap(cmd.Context(), bootOptions{remote: !syncLocalOnly})
		if err != nil {
			return err
		}
		defer a.close()

		opts, err := a.sync.DefaultOptions()
		if err != nil {
			return err
		}
		opts.Trigger = "cli"
		opts.DryRun = syncDryRun
		if syncClear {
			opts.Mode = reconcile.ModeClear
		}
		if syncLocalOnly {
			opts.Remote = false
		}
		if syncRemoteOnly {
			opts.Local = false
		}
		if cmd.Flags().Changed("concurrency") {
			opts.Concurrency = syncConcurrency
		}

		if opts.Mode == reconcile.ModeClear && !opts.DryRun {
			if err := confirmClear(cmd.InOrStdin(), cmd.OutOrStdout(), "local and remote", syncYes); err != nil {
				return err
			}
		}

		return runAndPrint(cmd, a.sync, opts)
	},
}

// runAndPrint runs a sync, prints the report and fails when anything failed.
func runAndPrint(cmd *cobra.Command, svc *sync.Service, opts sync.RunOptions) error {
	report, err := svc.Run(cmd.Context(), opts)
	if report != nil {
		report.Print(cmd.OutOrStdout())
	}
	if err != nil {
		return err
	}
	if report.Failed() {
		if keys := report.FailedKeys(); len(keys) > 0 {
			return fmt.Errorf("sync finished with failures: %s", strings.Join(keys, ", "))
		}
		return errors.New("sync finished with failures")
	}
	return nil
}

func init() {
	RootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&syncClear, "clear", false, "Delete events that are no longer listed")
	syncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "Skip the clear mode confirmation")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print the diff without writing")
	syncCmd.Flags().BoolVar(&syncLocalOnly, "local-only", false, "Only sync the .ics file")
	syncCmd.Flags().BoolVar(&syncRemoteOnly, "remote-only", false, "Only sync Google Calendar")
	syncCmd.Flags().IntVar(&syncConcurrency, "concurrency", 1, "Parallel remote operations per phase")
}
