package statshub

// OpponentView returns the collection keyed by the opposing team: each
// team's records appear under the other team's label. Useful when the
// panel's numbers describe what was conceded rather than what was done.
// Applying it twice restores the original keying. Team labels that are
// neither home nor away pass through untouched, as does a collection
// missing one of the two.
func OpponentView(stats MatchStats, home, away string) MatchStats {
	out := make(MatchStats, len(stats))
	for team, teamStats := range stats {
		switch team {
		case home:
			out[away] = teamStats
		case away:
			out[home] = teamStats
		default:
			out[team] = teamStats
		}
	}
	return out
}
