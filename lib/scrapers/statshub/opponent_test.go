package statshub

import (
	"testing"

	"statshub-collector/lib/scrapers/statshub/catalog"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func sampleStats() MatchStats {
	return MatchStats{
		"Arsenal": TeamStats{
			"Tackles": {
				{Position: catalog.RB, Total: floatPtr(46), Average: floatPtr(2.9), Highest: floatPtr(5)},
				{Position: catalog.CB, NoData: true},
			},
		},
		"Chelsea": TeamStats{
			"Tackles": {
				{Position: catalog.RB, Total: floatPtr(31), Average: floatPtr(1.8), Highest: floatPtr(4)},
			},
		},
	}
}

func TestOpponentViewSwapsTeams(t *testing.T) {
	orig := sampleStats()
	swapped := OpponentView(orig, "Arsenal", "Chelsea")

	require.Len(t, swapped, 2)
	require.Equal(t, orig["Arsenal"], swapped["Chelsea"])
	require.Equal(t, orig["Chelsea"], swapped["Arsenal"])
}

func TestOpponentViewInvolution(t *testing.T) {
	orig := sampleStats()
	back := OpponentView(OpponentView(orig, "Arsenal", "Chelsea"), "Arsenal", "Chelsea")
	if diff := cmp.Diff(orig, back); diff != "" {
		t.Fatalf("double swap did not restore the input (-want +got):\n%s", diff)
	}
}

func TestOpponentViewUnrelatedKeysPassThrough(t *testing.T) {
	orig := sampleStats()
	orig["Referees"] = TeamStats{}

	swapped := OpponentView(orig, "Arsenal", "Chelsea")
	require.Contains(t, swapped, "Referees")
	require.Equal(t, orig["Referees"], swapped["Referees"])
}

func TestOpponentViewPartialCollection(t *testing.T) {
	orig := MatchStats{"Arsenal": sampleStats()["Arsenal"]}
	swapped := OpponentView(orig, "Arsenal", "Chelsea")

	require.Len(t, swapped, 1)
	require.NotContains(t, swapped, "Arsenal")
	require.Equal(t, orig["Arsenal"], swapped["Chelsea"])
}

func TestOpponentViewDoesNotMutateInput(t *testing.T) {
	orig := sampleStats()
	_ = OpponentView(orig, "Arsenal", "Chelsea")
	require.Contains(t, orig, "Arsenal")
	require.Contains(t, orig, "Chelsea")
	require.NotNil(t, orig["Arsenal"]["Tackles"])
}
