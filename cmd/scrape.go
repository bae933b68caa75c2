package cmd

import (
	"match-calendar/core/reconcile"
	"match-calendar/feature/sync"

	"github.com/spf13/cobra"
)

var (
	scrapeClear  bool
	scrapeYes    bool
	scrapeDryRun bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape fixtures into the local .ics file",
	Long:  `Scrapes both fixture pages and updates the local .ics file only. Google Calendar is not touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if scrapeClear && !scrapeDryRun {
			if err := confirmClear(cmd.InOrStdin(), cmd.OutOrStdout(), "local", scrapeYes); err != nil {
				return err
			}
		}

		a, err := bootstrap(cmd.Context(), bootOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		opts := sync.RunOptions{
			Mode:    reconcile.ModeMerge,
			Local:   true,
			DryRun:  scrapeDryRun,
			Trigger: "cli",
		}
		if scrapeClear {
			opts.Mode = reconcile.ModeClear
		}
		return runAndPrint(cmd, a.sync, opts)
	},
}

func init() {
	RootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&scrapeClear, "clear", false, "Drop events that are no longer listed")
	scrapeCmd.Flags().BoolVarP(&scrapeYes, "yes", "y", false, "Skip the clear mode confirmation")
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "Print the diff without writing")
}
