package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"match-calendar/feature/calendar/codec"
	"match-calendar/feature/fixtures"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	fixturesJSON bool
	parsePage    string
)

// fixturesCmd represents the fixtures command
var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "List the fixtures in the local .ics file",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), bootOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		set, err := a.store.Load()
		if err != nil {
			return err
		}
		records, err := a.codec.FromEvents(set)
		if err != nil {
			return err
		}
		return printFixtures(cmd.OutOrStdout(), records, fixturesJSON)
	},
}

// parseCmd represents the fixtures parse command
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extract fixtures from a saved ESPN page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context(), bootOptions{})
		if err != nil {
			return err
		}
		defer a.close()

		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		scraper, err := fixtures.NewScraper(a.cfg.Scraper, nil, codec.IdentityKey, a.logger)
		if err != nil {
			return err
		}
		records, err := scraper.ParseFile(content, fixtures.PageKind(parsePage))
		if err != nil {
			return err
		}
		return printFixtures(cmd.OutOrStdout(), records, fixturesJSON)
	},
}

func printFixtures(w io.Writer, records []fixtures.MatchRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Date", "Kickoff", "Match", "Competition", "Status", "Score"})
	for _, r := range records {
		kickoff := "TBD"
		if r.TimeConfirmed {
			kickoff = r.ScheduledAt.Format("15:04")
		}
		score := "-"
		if r.Score != nil {
			score = r.Score.String()
		}
		t.AppendRow(table.Row{r.Date(), kickoff, r.HomeTeam + " vs " + r.AwayTeam, r.Competition, r.Status, score})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d fixtures", len(records))})
	t.Render()
	return nil
}

func init() {
	RootCmd.AddCommand(fixturesCmd)
	fixturesCmd.AddCommand(parseCmd)

	fixturesCmd.PersistentFlags().BoolVar(&fixturesJSON, "json", false, "Print JSON instead of a table")
	parseCmd.Flags().StringVar(&parsePage, "page", string(fixtures.PageResults), "Page layout: results or calendar")
}
