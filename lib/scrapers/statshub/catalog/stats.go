package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Stat identifies a statistic by the value string the site's stat dropdown
// carries internally.
type Stat string

const (
	StatTackles          Stat = "totalTackle"
	StatFoulsCommitted   Stat = "fouls"
	StatFoulsWon         Stat = "wasFouled"
	StatShots            Stat = "shots"
	StatShotsOnTarget    Stat = "onTargetScoringAttempt"
	StatGoals            Stat = "goals"
	StatAssists          Stat = "goalAssist"
	StatScoredOrAssisted Stat = "scoredOrAssisted"
	StatTotalPasses      Stat = "totalPass"
	StatYellowCards      Stat = "yellowCard"
	StatDispossessed     Stat = "dispossessed"
)

// Stats lists every supported statistic in display order.
var Stats = []Stat{
	StatTackles,
	StatFoulsWon,
	StatFoulsCommitted,
	StatShots,
	StatShotsOnTarget,
	StatGoals,
	StatAssists,
	StatScoredOrAssisted,
	StatTotalPasses,
	StatYellowCards,
	StatDispossessed,
}

// DefaultStats is what a collection run gathers when the caller does not
// name specific statistics.
var DefaultStats = []Stat{
	StatFoulsWon,
	StatFoulsCommitted,
	StatTackles,
	StatShots,
	StatShotsOnTarget,
}

var statDisplay = map[Stat]string{
	StatTackles:          "Tackles",
	StatFoulsCommitted:   "Fouls Committed",
	StatFoulsWon:         "Fouls Won",
	StatShots:            "Shots",
	StatShotsOnTarget:    "Shots on Target",
	StatGoals:            "Goals",
	StatAssists:          "Assists",
	StatScoredOrAssisted: "Scored or Assisted",
	StatTotalPasses:      "Total Passes",
	StatYellowCards:      "Yellow Cards",
	StatDispossessed:     "Dispossessed",
}

// statKey is the canonical flag/config spelling for each statistic.
var statKey = map[Stat]string{
	StatTackles:          "tackles",
	StatFoulsCommitted:   "fouls-committed",
	StatFoulsWon:         "fouls-won",
	StatShots:            "shots",
	StatShotsOnTarget:    "shots-on-target",
	StatGoals:            "goals",
	StatAssists:          "assists",
	StatScoredOrAssisted: "scored-or-assisted",
	StatTotalPasses:      "total-passes",
	StatYellowCards:      "yellow-cards",
	StatDispossessed:     "dispossessed",
}

var keyToStat = func() map[string]Stat {
	out := make(map[string]Stat, len(statKey))
	for stat, key := range statKey {
		out[key] = stat
	}
	return out
}()

func init() {
	for _, s := range Stats {
		if _, ok := statDisplay[s]; !ok {
			panic(fmt.Sprintf("statistic %q has no display name", s))
		}
		if _, ok := statKey[s]; !ok {
			panic(fmt.Sprintf("statistic %q has no flag spelling", s))
		}
	}
	if len(statDisplay) != len(Stats) || len(statKey) != len(Stats) {
		panic("statistic tables disagree on the supported set")
	}
	for key, stat := range keyToStat {
		if statKey[stat] != key {
			panic(fmt.Sprintf("statistic key %q does not round-trip", key))
		}
	}
	for _, s := range DefaultStats {
		if _, ok := statDisplay[s]; !ok {
			panic(fmt.Sprintf("default statistic %q is not in the catalog", s))
		}
	}
}

// Display returns the human-readable name for the statistic. Unknown values
// fall back to the raw value string.
func (s Stat) Display() string {
	if name, ok := statDisplay[s]; ok {
		return name
	}
	return string(s)
}

// Key returns the canonical flag spelling for the statistic.
func (s Stat) Key() string {
	if key, ok := statKey[s]; ok {
		return key
	}
	return string(s)
}

// StatFromKey resolves a flag/config spelling to a statistic. Spellings are
// case-insensitive and accept underscores in place of dashes.
func StatFromKey(key string) (Stat, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
	stat, ok := keyToStat[normalized]
	return stat, ok
}

// StatKeys returns every flag spelling sorted for help output.
func StatKeys() []string {
	keys := make([]string, 0, len(keyToStat))
	for key := range keyToStat {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseStats resolves a list of flag spellings, failing on the first unknown
// one. An empty list yields the default set.
func ParseStats(keys []string) ([]Stat, error) {
	if len(keys) == 0 {
		return append([]Stat(nil), DefaultStats...), nil
	}
	out := make([]Stat, 0, len(keys))
	for _, key := range keys {
		stat, ok := StatFromKey(key)
		if !ok {
			return nil, fmt.Errorf(
				"unknown statistic %q, known: %s",
				key, strings.Join(StatKeys(), ", "),
			)
		}
		out = append(out, stat)
	}
	return out, nil
}

// ParseStatsLenient resolves what it can and reports the spellings it could
// not, so batch runs keep going on a partially bad list.
func ParseStatsLenient(keys []string) (stats []Stat, unknown []string) {
	for _, key := range keys {
		stat, ok := StatFromKey(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		stats = append(stats, stat)
	}
	if len(stats) == 0 && len(unknown) == 0 {
		stats = append(stats, DefaultStats...)
	}
	return stats, unknown
}
