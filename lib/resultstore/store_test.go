package resultstore

import (
	"context"
	"testing"
	"time"

	"statshub-collector/lib/resultstore/db"
	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/sqliteutil"
	"statshub-collector/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func sampleStats(tackleTotal float64) statshub.MatchStats {
	return statshub.MatchStats{
		"Arsenal": statshub.TeamStats{
			"Tackles": []statshub.PositionStats{
				{
					Position: "GK",
					Total:    floatPtr(tackleTotal),
					Average:  floatPtr(1.2),
					Highest:  floatPtr(3),
				},
				{Position: "RWB", NoData: true},
			},
		},
		"Chelsea": statshub.TeamStats{
			"Tackles": []statshub.PositionStats{
				{
					Position: "GK",
					Total:    floatPtr(9),
					Average:  floatPtr(0.6),
					Highest:  floatPtr(2),
				},
			},
		},
	}
}

func TestStore(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:resultstore")
	defer cleanup()

	sqlite, err := sqliteutil.OpenWithSchema(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	matchUrl := "https://www.statshub.com/fixture/arsenal-vs-chelsea/10254300"
	match := statshub.Match{
		Url:      matchUrl,
		Id:       "10254300",
		HomeName: "Arsenal",
		AwayName: "Chelsea",
		HomeTab:  "Arsenal",
		AwayTab:  "Chelsea",
	}

	{
		_, err := store.Latest(ctx, matchUrl)
		require.ErrorIs(t, err, ErrNoRuns)

		runs, err := store.History(ctx, matchUrl)
		require.NoError(t, err)
		require.Len(t, runs, 0)
	}

	older := time.Now().Add(-time.Hour)
	newer := time.Now()

	{
		err := store.Push(ctx, PushRequest{
			Match:       match,
			Stats:       sampleStats(40),
			CollectedAt: older,
		})
		require.NoError(t, err)

		err = store.Push(ctx, PushRequest{
			Match:       match,
			Stats:       sampleStats(46),
			CollectedAt: newer,
		})
		require.NoError(t, err)
	}

	{
		runs, err := store.History(ctx, matchUrl)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		require.Equal(t, newer.Unix(), runs[0].CollectedAt.Unix())
		require.Equal(t, older.Unix(), runs[1].CollectedAt.Unix())
		require.Equal(t, "Arsenal", runs[0].HomeTeam)
		require.Equal(t, "Chelsea", runs[0].AwayTeam)
	}

	{
		stored, err := store.Latest(ctx, matchUrl)
		require.NoError(t, err)
		require.Equal(t, newer.Unix(), stored.CollectedAt.Unix())
		require.Equal(t, "10254300", stored.MatchId)

		diff := cmp.Diff(sampleStats(46), stored.Stats)
		require.Empty(t, diff)
	}

	{
		// runs for other matches stay invisible
		_, err := store.Latest(ctx, "https://www.statshub.com/fixture/leeds-vs-derby/999")
		require.ErrorIs(t, err, ErrNoRuns)
	}
}
