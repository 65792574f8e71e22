package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"statshub-collector/lib/outputs"
	"statshub-collector/lib/resultstore"
	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	statsHistory   bool
	statsOpponent  bool
	statsMinAvg    float64
	statsColor     bool
	statsFormation string
)

var statsCmd = &cobra.Command{
	Use:   "stats <match url>",
	Short: "Show stored stats for a previously collected match.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		store := openStore()

		if statsHistory {
			runs, err := store.History(ctx, args[0])
			if err != nil {
				serviceutil.Fatal("failed to read history", err)
			}
			if len(runs) == 0 {
				fmt.Println("no stored runs for this match")
				return
			}
			t := newTable()
			t.AppendHeader(table.Row{"Run", "Collected", "Home", "Away"})
			for _, run := range runs {
				t.AppendRow(table.Row{
					run.Id,
					run.CollectedAt.Local().Format(time.RFC822),
					run.HomeTeam,
					run.AwayTeam,
				})
			}
			t.Render()
			return
		}

		stored, err := store.Latest(ctx, args[0])
		if errors.Is(err, resultstore.ErrNoRuns) {
			fmt.Println("no stored runs for this match, collect it first")
			return
		}
		if err != nil {
			serviceutil.Fatal("failed to read stored run", err)
		}

		stats := stored.Stats
		if statsOpponent {
			stats = statshub.OpponentView(stats, stored.HomeTeam, stored.AwayTeam)
		}
		err = outputs.RenderSummary(os.Stdout, stats, outputs.SummaryOptions{
			MinAverage: statsMinAvg,
			Color:      statsColor,
			Formation:  statsFormation,
		})
		if err != nil {
			serviceutil.Fatal("failed to render summary", err)
		}
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsHistory, "history", false, "list stored runs instead of rendering the latest")
	statsCmd.Flags().BoolVar(&statsOpponent, "opponent", false, "show stats conceded by the opposing team instead")
	statsCmd.Flags().Float64Var(&statsMinAvg, "min-average", 0, "hide rows below this average")
	statsCmd.Flags().BoolVar(&statsColor, "color", false, "mark averages against --min-average instead of hiding rows")
	statsCmd.Flags().StringVar(&statsFormation, "formation", "", "limit the summary to one formation's positions")
	rootCmd.AddCommand(statsCmd)
}
