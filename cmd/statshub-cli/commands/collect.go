package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"statshub-collector/lib/outputs"
	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/scrapers/statshub/catalog"
	"statshub-collector/lib/serviceutil"
	"statshub-collector/services/collector"

	"github.com/spf13/cobra"
)

var (
	collectDate      string
	collectStats     []string
	collectOutput    string
	collectBoth      bool
	collectHomeTab   string
	collectAwayTab   string
	collectOpponent  bool
	collectMinAvg    float64
	collectColor     bool
	collectFormation string
	collectHomeForm  string
	collectAwayForm  string
)

var collectCmd = &cobra.Command{
	Use:   "collect <match url or team name>",
	Short: "Collect per-position stats for both teams of one match.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		date, err := statshub.ParseDateFilter(collectDate)
		if err != nil {
			serviceutil.Fatal("failed to parse date", err)
		}
		stats := parseStatsFlag(collectStats)

		session, client := launchSession()
		defer session.Close()

		match := resolveMatch(ctx, client, args[0], date)
		if collectHomeTab != "" {
			match.HomeTab = collectHomeTab
		}
		if collectAwayTab != "" {
			match.AwayTab = collectAwayTab
		}

		service := collector.NewService(client, openStore(), collector.Options{
			Stats:    stats,
			Progress: os.Stderr,
		})
		result, err := service.Collect(ctx, match)
		if err != nil {
			serviceutil.Fatal("failed to collect match", err)
		}

		saveCollectOutput(result)

		summarized := result.Stats
		if collectOpponent {
			summarized = result.OpponentStats
		}
		minAverage := collectMinAvg
		if minAverage == 0 {
			minAverage = config.MinAverage
		}
		err = outputs.RenderSummary(os.Stdout, summarized, outputs.SummaryOptions{
			MinAverage:     minAverage,
			Color:          collectColor,
			Formation:      collectFormation,
			TeamFormations: teamFormations(result.Match),
		})
		if err != nil {
			serviceutil.Fatal("failed to render summary", err)
		}
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectDate, "date", "today", "fixture list searched when matching by name (today or tomorrow)")
	collectCmd.Flags().StringSliceVar(&collectStats, "stats", nil, fmt.Sprintf(
		"stat keys to collect (%s)", strings.Join(catalog.StatKeys(), ", "),
	))
	collectCmd.Flags().StringVarP(&collectOutput, "output", "o", "", "write the full result to this .json or .csv file")
	collectCmd.Flags().BoolVar(&collectBoth, "both-formats", false, "also write the sibling json/csv next to --output")
	collectCmd.Flags().StringVar(&collectHomeTab, "home-tab", "", "exact home tab label, skips reading it off the page")
	collectCmd.Flags().StringVar(&collectAwayTab, "away-tab", "", "exact away tab label, skips reading it off the page")
	collectCmd.Flags().BoolVar(&collectOpponent, "opponent", false, "summarize stats conceded by the opposing team instead")
	collectCmd.Flags().Float64Var(&collectMinAvg, "min-average", 0, "hide summary rows below this average")
	collectCmd.Flags().BoolVar(&collectColor, "color", false, "mark averages against --min-average instead of hiding rows")
	collectCmd.Flags().StringVar(&collectFormation, "formation", "", "limit the summary to one formation's positions")
	collectCmd.Flags().StringVar(&collectHomeForm, "home-formation", "", "formation filter for the home team only")
	collectCmd.Flags().StringVar(&collectAwayForm, "away-formation", "", "formation filter for the away team only")
	rootCmd.AddCommand(collectCmd)
}

func teamFormations(match statshub.Match) map[string]string {
	formations := map[string]string{}
	if collectHomeForm != "" && match.HomeTab != "" {
		formations[match.HomeTab] = collectHomeForm
	}
	if collectAwayForm != "" && match.AwayTab != "" {
		formations[match.AwayTab] = collectAwayForm
	}
	if len(formations) == 0 {
		return nil
	}
	return formations
}

func saveCollectOutput(result collector.Result) {
	if collectOutput == "" {
		return
	}
	doc := outputs.Document{
		Match:         result.Match,
		CollectedAt:   time.Now(),
		Stats:         result.Stats,
		OpponentStats: result.OpponentStats,
	}

	err := outputs.Save(collectOutput, doc)
	if err != nil {
		serviceutil.Fatal("failed to write output", err)
	}
	slog.Info("wrote output", "path", collectOutput)

	if !collectBoth {
		return
	}
	alt, ok := outputs.DeriveAltPath(collectOutput)
	if !ok {
		return
	}
	err = outputs.Save(alt, doc)
	if err != nil {
		serviceutil.Fatal("failed to write output", err)
	}
	slog.Info("wrote output", "path", alt)
}
