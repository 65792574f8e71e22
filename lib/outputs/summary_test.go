package outputs

import (
	"bytes"
	"strings"
	"testing"

	"statshub-collector/lib/scrapers/statshub"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/require"
)

func summaryStats() statshub.MatchStats {
	return statshub.MatchStats{
		"Leeds": statshub.TeamStats{
			"Tackles": []statshub.PositionStats{
				{Position: "GK", Total: floatPtr(12), Average: floatPtr(0.5), Highest: floatPtr(2)},
				{Position: "CB", Total: floatPtr(70), Average: floatPtr(2.8), Highest: floatPtr(6)},
				{Position: "ST", Total: floatPtr(25), Average: floatPtr(1), Highest: floatPtr(3)},
				{Position: "RWB", NoData: true},
			},
		},
	}
}

func TestRenderSummarySortsByAverage(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, summaryStats(), SummaryOptions{})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "Leeds / Tackles")

	// rows ordered by average descending, the no-data row last
	cb := strings.Index(out, "CB")
	st := strings.Index(out, "ST")
	gk := strings.Index(out, "GK")
	rwb := strings.Index(out, "RWB")
	require.True(t, cb < st && st < gk && gk < rwb)
}

func TestRenderSummaryMinAverage(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, summaryStats(), SummaryOptions{MinAverage: 0.9})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "CB")
	require.Contains(t, out, "ST")
	require.NotContains(t, out, "GK")
	require.NotContains(t, out, "RWB")
}

func TestRenderSummaryFormationFilter(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, summaryStats(), SummaryOptions{Formation: "4-3-3"})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "GK")
	// wing backs are not part of a 4-3-3 lineup
	require.NotContains(t, out, "RWB")
}

func TestRenderSummaryUnknownFormation(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, summaryStats(), SummaryOptions{Formation: "2-3-5"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "2-3-5")
}

func TestRenderSummaryColorKeepsRows(t *testing.T) {
	text.EnableColors()
	defer text.DisableColors()

	var buf bytes.Buffer
	err := RenderSummary(&buf, summaryStats(), SummaryOptions{MinAverage: 0.9, Color: true})
	require.NoError(t, err)

	// color mode marks averages against the threshold instead of
	// hiding rows
	out := buf.String()
	require.Contains(t, out, "GK")
	require.Contains(t, out, "RWB")
	require.Contains(t, out, text.FgGreen.Sprint("2.8"))
	require.Contains(t, out, text.FgRed.Sprint("0.5"))
}

func TestRenderSummaryTeamFormations(t *testing.T) {
	stats := summaryStats()
	stats["Everton"] = statshub.TeamStats{
		"Tackles": []statshub.PositionStats{
			{Position: "GK", Total: floatPtr(5), Average: floatPtr(0.2), Highest: floatPtr(1)},
			{Position: "RWB", Total: floatPtr(31), Average: floatPtr(1.2), Highest: floatPtr(4)},
		},
	}

	var buf bytes.Buffer
	err := RenderSummary(&buf, stats, SummaryOptions{
		Formation:      "4-3-3",
		TeamFormations: map[string]string{"Everton": "5-3-2"},
	})
	require.NoError(t, err)

	out := buf.String()
	leeds := out[strings.Index(out, "Leeds / Tackles"):]
	everton := out[strings.Index(out, "Everton / Tackles"):strings.Index(out, "Leeds / Tackles")]
	require.NotContains(t, leeds, "RWB")
	require.Contains(t, everton, "RWB")
}

func TestRenderSummaryUnknownTeamFormation(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSummary(&buf, summaryStats(), SummaryOptions{
		TeamFormations: map[string]string{"Leeds": "9-9"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "9-9")
}
