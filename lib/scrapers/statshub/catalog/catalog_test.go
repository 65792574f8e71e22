package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormationsAreElevenWithKeeperFirst(t *testing.T) {
	for name := range Formations {
		lineup, ok := PositionsForFormation(name)
		require.True(t, ok, name)
		require.Len(t, lineup, 11, name)
		require.Equal(t, GK, lineup[0], name)
		for _, p := range lineup {
			require.True(t, Known(p), "%s: %s", name, p)
		}
	}
}

func TestPositionsForFormation(t *testing.T) {
	lineup, ok := PositionsForFormation("4-3-3")
	require.True(t, ok)
	require.Len(t, lineup, 11)
	require.Equal(t, GK, lineup[0])

	lineup, ok = PositionsForFormation("2-3-5")
	require.False(t, ok)
	require.Nil(t, lineup)

	_, ok = PositionsForFormation("")
	require.False(t, ok)
}

func TestFormationVariants(t *testing.T) {
	lineup, ok := PositionsForFormation("3-4-2-1")
	require.True(t, ok)
	require.Contains(t, lineup, RF)
	require.Contains(t, lineup, LF)

	lineup, ok = PositionsForFormation("3-4-1-2")
	require.True(t, ok)
	require.Contains(t, lineup, CAM)
	require.Contains(t, lineup, RST)
	require.Contains(t, lineup, LST)
}

func TestPositionsForFormationReturnsACopy(t *testing.T) {
	lineup, ok := PositionsForFormation("4-4-2")
	require.True(t, ok)
	lineup[0] = ST

	again, ok := PositionsForFormation("4-4-2")
	require.True(t, ok)
	require.Equal(t, GK, again[0])
}

func TestKnown(t *testing.T) {
	require.True(t, Known(GK))
	require.True(t, Known(LST))
	require.False(t, Known(Position("SW")))
	require.False(t, Known(Position("")))
}

func TestStriker(t *testing.T) {
	require.True(t, ST.Striker())
	require.True(t, RST.Striker())
	require.True(t, LST.Striker())
	require.False(t, GK.Striker())
	require.False(t, CAM.Striker())
}

func TestMustFormationsRejectsBadTables(t *testing.T) {
	require.Panics(t, func() {
		mustFormations(map[string][]Position{"4-4-3": {GK, RB, CB, LB}})
	})
	require.Panics(t, func() {
		mustFormations(map[string][]Position{
			"4-3-3": {ST, RB, RCB, LCB, LB, RCM, CDM, LCM, RW, GK, LW},
		})
	})
	require.Panics(t, func() {
		mustFormations(map[string][]Position{
			"4-3-3": {GK, RB, RCB, LCB, LB, RCM, CDM, LCM, RW, ST, Position("XX")},
		})
	})
	require.Panics(t, func() {
		mustFormations(map[string][]Position{
			"4-3-3": {GK, RB, RCB, LCB, LB, RCM, CDM, LCM, RW, ST, ST},
		})
	})
}
