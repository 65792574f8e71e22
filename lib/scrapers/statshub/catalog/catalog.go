// Package catalog enumerates the position codes, formations and statistic
// types the stats site exposes. The tables here are validated when the
// package loads so a bad entry can never make it into a scan.
package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Position is a per-position filter code, spelled the way the site's
// position dialog spells them.
type Position string

const (
	GK   Position = "GK"
	RB   Position = "RB"
	RWB  Position = "RWB"
	RCB  Position = "RCB"
	CB   Position = "CB"
	LCB  Position = "LCB"
	LB   Position = "LB"
	LWB  Position = "LWB"
	CDM  Position = "CDM"
	RCDM Position = "RCDM"
	LCDM Position = "LCDM"
	RCM  Position = "RCM"
	CM   Position = "CM"
	LCM  Position = "LCM"
	RM   Position = "RM"
	LM   Position = "LM"
	CAM  Position = "CAM"
	RW   Position = "RW"
	LW   Position = "LW"
	RF   Position = "RF"
	LF   Position = "LF"
	ST   Position = "ST"
	RST  Position = "RST"
	LST  Position = "LST"
)

// Positions lists every selectable position in the order the site's dialog
// presents them. Scans toggle through positions in this order.
var Positions = []Position{
	GK, RB, RWB, RCB, CB, LCB, LB, LWB,
	CDM, RCDM, LCDM, RCM, CM, LCM, RM, LM,
	CAM, RW, LW, RF, LF, ST, RST, LST,
}

var positionSet = func() map[Position]struct{} {
	set := make(map[Position]struct{}, len(Positions))
	for _, p := range Positions {
		set[p] = struct{}{}
	}
	return set
}()

// Known reports whether code is a selectable position.
func Known(code Position) bool {
	_, ok := positionSet[code]
	return ok
}

// Striker reports whether the position sits in the striker block at the
// bottom of the position dialog. Those switches usually need the dialog
// scrolled down before they respond to clicks.
func (p Position) Striker() bool {
	return p == ST || p == RST || p == LST
}

// Formations maps a formation name to its eleven starting positions,
// goalkeeper first. Every code must come from Positions and appear once.
var Formations = mustFormations(map[string][]Position{
	"4-3-3":   {GK, RB, RCB, LCB, LB, RCM, CDM, LCM, RW, ST, LW},
	"4-4-2":   {GK, RB, RCB, LCB, LB, RM, RCM, LCM, LM, RST, LST},
	"4-2-3-1": {GK, RB, RCB, LCB, LB, RCDM, LCDM, RW, CAM, LW, ST},
	"4-1-4-1": {GK, RB, RCB, LCB, LB, CDM, RM, RCM, LCM, LM, ST},
	"4-3-1-2": {GK, RB, RCB, LCB, LB, RCM, CDM, LCM, CAM, RST, LST},
	"4-4-1-1": {GK, RB, RCB, LCB, LB, RM, RCM, LCM, LM, CAM, ST},
	"3-5-2":   {GK, RCB, CB, LCB, RWB, RCM, CDM, LCM, LWB, RST, LST},
	"3-4-3":   {GK, RCB, CB, LCB, RM, RCM, LCM, LM, RW, ST, LW},
	"3-4-2-1": {GK, RCB, CB, LCB, RM, RCM, LCM, LM, RF, LF, ST},
	"3-4-1-2": {GK, RCB, CB, LCB, RM, RCM, LCM, LM, CAM, RST, LST},
	"5-3-2":   {GK, RWB, RCB, CB, LCB, LWB, RCM, CM, LCM, RST, LST},
	"5-4-1":   {GK, RWB, RCB, CB, LCB, LWB, RM, RCM, LCM, LM, ST},
})

func mustFormations(table map[string][]Position) map[string][]Position {
	for name, lineup := range table {
		if len(lineup) != 11 {
			panic(fmt.Sprintf("formation %q has %d positions, want 11", name, len(lineup)))
		}
		if lineup[0] != GK {
			panic(fmt.Sprintf("formation %q does not start with the goalkeeper", name))
		}
		seen := make(map[Position]struct{}, len(lineup))
		for _, p := range lineup {
			if !Known(p) {
				panic(fmt.Sprintf("formation %q references unknown position %q", name, p))
			}
			if _, dup := seen[p]; dup {
				panic(fmt.Sprintf("formation %q repeats position %q", name, p))
			}
			seen[p] = struct{}{}
		}
	}
	return table
}

// PositionsForFormation returns the starting positions for a formation name,
// goalkeeper first. Unknown formations return ok=false and no positions.
func PositionsForFormation(name string) ([]Position, bool) {
	lineup, ok := Formations[strings.TrimSpace(name)]
	if !ok {
		return nil, false
	}
	out := make([]Position, len(lineup))
	copy(out, lineup)
	return out, true
}

// FormationNames returns the known formation names sorted for display.
func FormationNames() []string {
	names := make([]string, 0, len(Formations))
	for name := range Formations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
