// Package collector orchestrates full collection runs: it drives a statshub
// session through every requested team and stat combination, derives the
// opponent view and persists finished runs.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"statshub-collector/lib/resultstore"
	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/scrapers/statshub/catalog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/collector")

// Session is the slice of the statshub client the orchestrator drives.
// Narrowing it to an interface keeps the orchestration logic testable
// without a browser.
type Session interface {
	OpenMatchURL(ctx context.Context, url string) error
	ExtractTeamTabs(ctx context.Context) (first, second string, err error)
	SelectTeamTab(ctx context.Context, label string) error
	SelectStat(ctx context.Context, stat catalog.Stat) error
	CollectPositions(ctx context.Context, hooks statshub.CollectHooks) ([]statshub.PositionStats, error)
}

var _ Session = (*statshub.Client)(nil)

type Options struct {
	// Stats to collect for each team. Empty means catalog.DefaultStats.
	Stats []catalog.Stat
	// SkipFresh makes CollectBatch reuse a stored run instead of scraping
	// when the latest run for a match is younger than this. Zero disables
	// the check.
	SkipFresh time.Duration
	// Progress receives live tracker rendering. Nil disables it.
	Progress io.Writer
}

type Service struct {
	session Session
	store   *resultstore.Store
	opts    Options
}

// NewService wires a session to an optional result store. Pass a nil store
// to skip persistence.
func NewService(session Session, store *resultstore.Store, opts Options) Service {
	if len(opts.Stats) == 0 {
		opts.Stats = append([]catalog.Stat(nil), catalog.DefaultStats...)
	}
	return Service{
		session: session,
		store:   store,
		opts:    opts,
	}
}

// Result is one match worth of collected data. Stats is keyed by the team
// whose players produced the numbers, OpponentStats by the team that
// conceded them.
type Result struct {
	Match         statshub.Match
	Stats         statshub.MatchStats
	OpponentStats statshub.MatchStats
	Duration      time.Duration
}

// Collect scrapes every requested stat for both teams of one match. When
// the context is canceled mid-run the records gathered so far travel back
// alongside the error.
func (s Service) Collect(ctx context.Context, match statshub.Match) (Result, error) {
	ctx, span := tracer.Start(ctx, "Collect")
	defer span.End()
	span.SetAttributes(attribute.String("match", match.Label()))

	started := time.Now()

	if err := s.session.OpenMatchURL(ctx, match.Url); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{Match: match}, err
	}

	if match.HomeTab == "" || match.AwayTab == "" {
		first, second, err := s.session.ExtractTeamTabs(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Result{Match: match}, err
		}
		if match.HomeTab == "" {
			match.HomeTab = first
		}
		if match.AwayTab == "" {
			match.AwayTab = second
		}
	}

	var reporter *Reporter
	if s.opts.Progress != nil {
		reporter = NewReporter(s.opts.Progress)
		defer reporter.Stop()
	}

	stats := make(statshub.MatchStats)
	collectErr := func() error {
		for _, stat := range s.opts.Stats {
			for _, tab := range []string{match.HomeTab, match.AwayTab} {
				if err := ctx.Err(); err != nil {
					return err
				}

				records, err := s.collectTeamStat(ctx, tab, stat, reporter)
				if len(records) > 0 {
					byStat := stats[tab]
					if byStat == nil {
						byStat = make(statshub.TeamStats)
						stats[tab] = byStat
					}
					byStat[stat.Display()] = records
				}
				if err != nil {
					return fmt.Errorf("collect %s for %s: %w", stat.Display(), tab, err)
				}
			}
		}
		return nil
	}()

	result := Result{
		Match:         match,
		Stats:         stats,
		OpponentStats: statshub.OpponentView(stats, match.HomeTab, match.AwayTab),
		Duration:      time.Since(started),
	}

	if collectErr != nil {
		span.RecordError(collectErr)
		span.SetStatus(codes.Error, collectErr.Error())
		return result, collectErr
	}

	if s.store != nil {
		err := s.store.Push(ctx, resultstore.PushRequest{
			Match:       match,
			Stats:       result.Stats,
			CollectedAt: time.Now(),
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to persist collection run",
				"match", match.Label(), "err", err)
		}
	}

	slog.InfoContext(ctx, "collected match",
		"match", match.Label(), "duration", result.Duration)
	return result, nil
}

func (s Service) collectTeamStat(
	ctx context.Context,
	tab string,
	stat catalog.Stat,
	reporter *Reporter,
) ([]statshub.PositionStats, error) {
	slog.DebugContext(ctx, "collecting team stat", "team", tab, "stat", stat.Key())

	if err := s.session.SelectTeamTab(ctx, tab); err != nil {
		return nil, err
	}
	if err := s.session.SelectStat(ctx, stat); err != nil {
		return nil, err
	}

	var hooks statshub.CollectHooks
	if reporter != nil {
		reporter.StartPass(fmt.Sprintf("%s / %s", tab, stat.Display()), len(catalog.Positions))
		defer reporter.FinishPass()
		hooks.OnPosition = func(pos catalog.Position, index, total int) {
			reporter.Step(pos)
		}
	}

	return s.session.CollectPositions(ctx, hooks)
}

// MatchOutcome ties one match of a batch to how its collection ended.
type MatchOutcome struct {
	Match statshub.Match
	// Result holds whatever was gathered, even for failed matches.
	Result Result
	Err    error
	// Skipped marks outcomes served from the store instead of a scrape.
	Skipped bool
}

// BatchReport partitions a batch run into succeeded and failed matches.
type BatchReport struct {
	Succeeded []MatchOutcome
	Failed    []MatchOutcome
	Duration  time.Duration
}

func (r BatchReport) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// CollectBatch runs Collect over each match in order. A failing match never
// aborts the batch; cancellation is honored between matches and marks the
// remainder failed so nothing silently disappears.
func (s Service) CollectBatch(ctx context.Context, matches []statshub.Match) BatchReport {
	ctx, span := tracer.Start(ctx, "CollectBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("matches", len(matches)))

	started := time.Now()
	var report BatchReport

	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, MatchOutcome{Match: match, Err: err})
			continue
		}

		if outcome, ok := s.storedOutcome(ctx, match); ok {
			report.Succeeded = append(report.Succeeded, outcome)
			continue
		}

		slog.InfoContext(ctx, "collecting match", "match", match.Label())
		result, err := s.Collect(ctx, match)
		if err != nil {
			slog.WarnContext(ctx, "match collection failed",
				"match", match.Label(), "err", err)
			report.Failed = append(report.Failed, MatchOutcome{
				Match:  match,
				Result: result,
				Err:    err,
			})
			continue
		}
		report.Succeeded = append(report.Succeeded, MatchOutcome{
			Match:  match,
			Result: result,
		})
	}

	report.Duration = time.Since(started)
	return report
}

// storedOutcome serves a match from the result store when its latest run is
// still fresh enough.
func (s Service) storedOutcome(ctx context.Context, match statshub.Match) (MatchOutcome, bool) {
	if s.store == nil || s.opts.SkipFresh <= 0 {
		return MatchOutcome{}, false
	}

	stored, err := s.store.Latest(ctx, match.Url)
	if errors.Is(err, resultstore.ErrNoRuns) {
		return MatchOutcome{}, false
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to check collection history",
			"match", match.Label(), "err", err)
		return MatchOutcome{}, false
	}

	age := time.Since(stored.CollectedAt)
	if age >= s.opts.SkipFresh {
		return MatchOutcome{}, false
	}

	slog.InfoContext(ctx, "reusing stored collection run",
		"match", match.Label(), "age", age)
	return MatchOutcome{
		Match: match,
		Result: Result{
			Match:         match,
			Stats:         stored.Stats,
			OpponentStats: statshub.OpponentView(stored.Stats, stored.HomeTeam, stored.AwayTeam),
		},
		Skipped: true,
	}, true
}
