package collector

import (
	"errors"
	"testing"
	"time"

	"statshub-collector/lib/scrapers/statshub"

	"github.com/stretchr/testify/require"
)

func TestBatchReportSummary(t *testing.T) {
	report := BatchReport{
		Succeeded: []MatchOutcome{
			{
				Match:  statshub.Match{HomeName: "Leeds", AwayName: "Everton"},
				Result: Result{Duration: time.Second * 95},
			},
			{
				Match:   statshub.Match{HomeName: "Carlisle", AwayName: "York"},
				Skipped: true,
			},
		},
		Failed: []MatchOutcome{
			{
				Match: statshub.Match{HomeName: "Luton", AwayName: "Barnet"},
				Err:   errors.New("page kept spinning"),
			},
		},
		Duration: time.Minute * 3,
	}

	summary := report.Summary()
	require.Contains(t, summary, "collected 2/3 matches in 3m0s")
	require.Contains(t, summary, "ok     Leeds vs Everton (1m35s)")
	require.Contains(t, summary, "fresh  Carlisle vs York")
	require.Contains(t, summary, "failed Luton vs Barnet: page kept spinning")
}
