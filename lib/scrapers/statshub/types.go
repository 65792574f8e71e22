package statshub

import (
	"fmt"

	"statshub-collector/lib/scrapers/statshub/catalog"
)

// Match identifies one fixture plus the exact tab labels needed to flip the
// stats panel between its two teams. The JSON tags are the batch-file
// shape, so descriptor files round-trip.
type Match struct {
	Url      string `json:"match_url"`
	Id       string `json:"match_id,omitempty"`
	HomeName string `json:"home_name,omitempty"`
	AwayName string `json:"away_name,omitempty"`
	HomeTab  string `json:"home_team_tab"`
	AwayTab  string `json:"away_team_tab"`
	Kickoff  string `json:"kickoff_time,omitempty"`
}

// Label renders the match for logs and report tables.
func (m Match) Label() string {
	home, away := m.HomeName, m.AwayName
	if home == "" {
		home = m.HomeTab
	}
	if away == "" {
		away = m.AwayTab
	}
	if home != "" && away != "" {
		return fmt.Sprintf("%s vs %s", home, away)
	}
	return m.Url
}

// PositionStats is one row of a team's per-position table for a single
// statistic. NoData means the site had nothing to show for the position;
// in that case all three numbers are nil, never fabricated zeros.
type PositionStats struct {
	Position catalog.Position `json:"position"`
	Total    *float64         `json:"total"`
	Average  *float64         `json:"average"`
	Highest  *float64         `json:"highest"`
	NoData   bool             `json:"no_data"`
}

// TeamStats maps a statistic's display name to its position records, in
// catalog scan order.
type TeamStats map[string][]PositionStats

// MatchStats maps a team tab label to everything collected for that team.
type MatchStats map[string]TeamStats
