package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"statshub-collector/lib/notify"
	"statshub-collector/lib/outputs"
	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/scrapers/statshub/catalog"
	"statshub-collector/lib/serviceutil"
	"statshub-collector/lib/textutil"
	"statshub-collector/services/collector"

	"github.com/spf13/cobra"
)

var (
	batchDate      string
	batchStats     []string
	batchFilter    string
	batchSort      string
	batchCount     int
	batchOutputDir string
	batchSkipFresh time.Duration
	batchEmail     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Collect every fixture listed for a date.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		date, err := statshub.ParseDateFilter(batchDate)
		if err != nil {
			serviceutil.Fatal("failed to parse date", err)
		}
		// a batch run keeps going on a partially bad stat list
		keys := batchStats
		if len(keys) == 0 {
			keys = config.Stats
		}
		stats, unknown := catalog.ParseStatsLenient(keys)
		if len(unknown) > 0 {
			slog.Warn("ignoring unknown stat keys", "keys", unknown)
		}

		session, client := launchSession()
		defer session.Close()

		matches, err := client.DiscoverMatches(ctx, date)
		if err != nil {
			serviceutil.Fatal("failed to discover fixtures", err)
		}
		matches = arrangeMatches(matches)
		if len(matches) == 0 {
			slog.InfoContext(ctx, "no fixtures listed", "date", date)
			return
		}

		service := collector.NewService(client, openStore(), collector.Options{
			Stats:     stats,
			SkipFresh: batchSkipFresh,
			Progress:  os.Stderr,
		})
		report := service.CollectBatch(ctx, matches)

		saveBatchOutputs(report)
		fmt.Println(report.Summary())
		emailReport(ctx, report)

		if len(report.Succeeded) == 0 && len(report.Failed) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchDate, "date", "today", "fixture list to collect (today or tomorrow)")
	batchCmd.Flags().StringSliceVar(&batchStats, "stats", nil, "stat keys to collect for every match")
	batchCmd.Flags().StringVar(&batchFilter, "filter", "", "only collect fixtures whose name contains this")
	batchCmd.Flags().StringVar(&batchSort, "sort", "", "collection order, alpha or kickoff (default: page order)")
	batchCmd.Flags().IntVar(&batchCount, "count", 0, "collect at most this many fixtures")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "", "write one json file per collected match into this directory")
	batchCmd.Flags().DurationVar(&batchSkipFresh, "skip-fresh", 0, "skip matches with a stored run younger than this (e.g. 6h)")
	batchCmd.Flags().BoolVar(&batchEmail, "email", false, "email the batch report using the smtp config")
	rootCmd.AddCommand(batchCmd)
}

// arrangeMatches applies the filter, sort and count flags in that order.
func arrangeMatches(matches []statshub.Match) []statshub.Match {
	if batchFilter != "" {
		kept := matches[:0]
		for _, match := range matches {
			if textutil.ContainsFold(match.Label(), batchFilter) {
				kept = append(kept, match)
			}
		}
		matches = kept
	}

	switch batchSort {
	case "alpha":
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Label() < matches[j].Label()
		})
	case "kickoff":
		sort.SliceStable(matches, func(i, j int) bool {
			return kickoffMinutes(matches[i].Kickoff) < kickoffMinutes(matches[j].Kickoff)
		})
	case "":
	default:
		serviceutil.Fatal("failed to parse sort", fmt.Errorf("unknown order %q, use alpha or kickoff", batchSort))
	}

	if batchCount > 0 && len(matches) > batchCount {
		matches = matches[:batchCount]
	}
	return matches
}

// kickoffMinutes orders "HH:MM" kickoff strings, sending matches without
// one to the end.
func kickoffMinutes(kickoff string) int {
	hh, mm, ok := strings.Cut(kickoff, ":")
	if !ok {
		return 1 << 16
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 1 << 16
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 1 << 16
	}
	return hours*60 + minutes
}

func saveBatchOutputs(report collector.BatchReport) {
	if batchOutputDir == "" {
		return
	}
	for _, outcome := range report.Succeeded {
		if outcome.Skipped {
			continue
		}
		path := filepath.Join(batchOutputDir, outputName(outcome.Match))
		err := outputs.Save(path, outputs.Document{
			Match:         outcome.Match,
			CollectedAt:   time.Now(),
			Stats:         outcome.Result.Stats,
			OpponentStats: outcome.Result.OpponentStats,
		})
		if err != nil {
			slog.Warn("failed to write output", "path", path, "err", err)
			continue
		}
		slog.Info("wrote output", "path", path)
	}
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9-]+`)

func outputName(match statshub.Match) string {
	name := unsafeFileChars.ReplaceAllString(strings.ToLower(match.Label()), "-")
	name = strings.Trim(name, "-")
	if match.Id != "" {
		name = fmt.Sprintf("%s-%s", name, match.Id)
	}
	return name + ".json"
}

func emailReport(ctx context.Context, report collector.BatchReport) {
	if !batchEmail {
		return
	}
	mailer, err := notify.NewMailer(config.Smtp)
	if err != nil {
		slog.WarnContext(ctx, "email report skipped", "err", err)
		return
	}

	subject := fmt.Sprintf("statshub batch: %d/%d matches collected",
		len(report.Succeeded), report.Total())
	err = mailer.Send(ctx, notify.Message{Subject: subject, Body: report.Summary()})
	if err != nil {
		slog.WarnContext(ctx, "failed to email report", "err", err)
		return
	}
	slog.InfoContext(ctx, "emailed batch report", "recipients", len(config.Smtp.To))
}
