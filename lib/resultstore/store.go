// Package resultstore persists collection runs in sqlite so repeated runs
// against the same match can be compared and recent ones skipped.
package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/scrapers/statshub/catalog"
)

// ErrNoRuns is returned by Latest when nothing has been stored for the
// requested match yet.
var ErrNoRuns = errors.New("no stored collection runs")

type Store struct {
	db *sql.DB
}

// NewStore wraps an already opened sqlite database. The caller is expected
// to have applied db.Schema, usually via sqliteutil.OpenWithSchema.
func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type PushRequest struct {
	Match       statshub.Match
	Stats       statshub.MatchStats
	CollectedAt time.Time
}

// Push stores one finished collection run. Records are written in team,
// stat, position order so reads reassemble them exactly as collected.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO collection_runs (collected_at, match_url, match_id, home_team, away_team)
		 VALUES (?, ?, ?, ?, ?)`,
		req.CollectedAt.Unix(),
		req.Match.Url,
		req.Match.Id,
		req.Match.HomeTab,
		req.Match.AwayTab,
	)
	if err != nil {
		return err
	}
	runId, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, team := range sortedKeys(req.Stats) {
		byStat := req.Stats[team]
		for _, stat := range sortedKeys(byStat) {
			for i, record := range byStat[stat] {
				_, err := tx.ExecContext(
					ctx,
					`INSERT INTO position_records (run_id, team, stat, position, ord, total, average, highest, no_data)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					runId,
					team,
					stat,
					record.Position,
					i,
					record.Total,
					record.Average,
					record.Highest,
					record.NoData,
				)
				if err != nil {
					return err
				}
			}
		}
	}
	return tx.Commit()
}

type Run struct {
	Id          int64
	CollectedAt time.Time
	MatchUrl    string
	MatchId     string
	HomeTeam    string
	AwayTeam    string
}

// History returns every stored run for the match, newest first.
func (s Store) History(ctx context.Context, matchUrl string) ([]Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, collected_at, match_url, match_id, home_team, away_team
		 FROM collection_runs
		 WHERE match_url = ?
		 ORDER BY collected_at DESC, id DESC`,
		matchUrl,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var collectedAt int64
		err := rows.Scan(
			&run.Id,
			&collectedAt,
			&run.MatchUrl,
			&run.MatchId,
			&run.HomeTeam,
			&run.AwayTeam,
		)
		if err != nil {
			return nil, err
		}
		run.CollectedAt = time.Unix(collectedAt, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type StoredRun struct {
	Run
	Stats statshub.MatchStats
}

// Latest returns the most recent run for the match together with its
// reassembled records. Returns ErrNoRuns when the match has never been
// collected.
func (s Store) Latest(ctx context.Context, matchUrl string) (StoredRun, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, collected_at, match_url, match_id, home_team, away_team
		 FROM collection_runs
		 WHERE match_url = ?
		 ORDER BY collected_at DESC, id DESC
		 LIMIT 1`,
		matchUrl,
	)

	var run Run
	var collectedAt int64
	err := row.Scan(
		&run.Id,
		&collectedAt,
		&run.MatchUrl,
		&run.MatchId,
		&run.HomeTeam,
		&run.AwayTeam,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredRun{}, ErrNoRuns
	}
	if err != nil {
		return StoredRun{}, err
	}
	run.CollectedAt = time.Unix(collectedAt, 0)

	stats, err := s.runRecords(ctx, run.Id)
	if err != nil {
		return StoredRun{}, err
	}
	return StoredRun{Run: run, Stats: stats}, nil
}

func (s Store) runRecords(ctx context.Context, runId int64) (statshub.MatchStats, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT team, stat, position, total, average, highest, no_data
		 FROM position_records
		 WHERE run_id = ?
		 ORDER BY team, stat, ord`,
		runId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(statshub.MatchStats)
	for rows.Next() {
		var team, stat, position string
		var total, average, highest sql.NullFloat64
		var noData bool
		err := rows.Scan(&team, &stat, &position, &total, &average, &highest, &noData)
		if err != nil {
			return nil, err
		}

		record := statshub.PositionStats{Position: catalog.Position(position), NoData: noData}
		if total.Valid {
			v := total.Float64
			record.Total = &v
		}
		if average.Valid {
			v := average.Float64
			record.Average = &v
		}
		if highest.Valid {
			v := highest.Float64
			record.Highest = &v
		}

		byStat := stats[team]
		if byStat == nil {
			byStat = make(statshub.TeamStats)
			stats[team] = byStat
		}
		byStat[stat] = append(byStat[stat], record)
	}
	return stats, rows.Err()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
