package outputs

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/scrapers/statshub/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SummaryOptions controls which rows a summary shows. Everything here
// applies to the rendering only, the records themselves stay untouched.
type SummaryOptions struct {
	// MinAverage hides rows whose average falls below it. Zero shows
	// everything, including rows that extracted nothing. With Color set
	// it stops hiding rows and marks them instead.
	MinAverage float64
	// Color renders averages green or red against MinAverage rather
	// than filtering rows out.
	Color bool
	// Formation limits every team to the lineup of one formation from
	// the catalog. Empty shows all positions.
	Formation string
	// TeamFormations limits single teams, keyed by their tab label. An
	// entry wins over Formation for that team.
	TeamFormations map[string]string
}

// RenderSummary writes one table per team and stat to out, rows sorted by
// average descending.
func RenderSummary(out io.Writer, stats statshub.MatchStats, opts SummaryOptions) error {
	for _, team := range sortedKeys(stats) {
		formation := opts.Formation
		if override, ok := opts.TeamFormations[team]; ok {
			formation = override
		}
		allowed, err := formationPositions(formation)
		if err != nil {
			return err
		}

		byStat := stats[team]
		for _, stat := range sortedKeys(byStat) {
			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleRounded)
			t.SetTitle("%s / %s", team, stat)
			t.AppendHeader(table.Row{"Position", "Total", "Average", "Highest"})
			for _, row := range summaryRows(byStat[stat], allowed, opts) {
				t.AppendRow(row)
			}
			t.Render()
		}
	}
	return nil
}

func formationPositions(name string) (map[catalog.Position]bool, error) {
	if name == "" {
		return nil, nil
	}
	positions, ok := catalog.PositionsForFormation(name)
	if !ok {
		return nil, fmt.Errorf(
			"unknown formation %q, known: %s",
			name, strings.Join(catalog.FormationNames(), ", "),
		)
	}
	allowed := make(map[catalog.Position]bool, len(positions))
	for _, pos := range positions {
		allowed[pos] = true
	}
	return allowed, nil
}

func summaryRows(
	records []statshub.PositionStats,
	allowed map[catalog.Position]bool,
	opts SummaryOptions,
) []table.Row {
	sorted := append([]statshub.PositionStats(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortValue(sorted[i].Average) > sortValue(sorted[j].Average)
	})

	var rows []table.Row
	for _, record := range sorted {
		if allowed != nil && !allowed[record.Position] {
			continue
		}
		if !opts.Color && opts.MinAverage > 0 &&
			(record.Average == nil || *record.Average < opts.MinAverage) {
			continue
		}

		average := summaryCell(record.Average)
		if opts.Color && record.Average != nil {
			color := text.FgRed
			if *record.Average >= opts.MinAverage {
				color = text.FgGreen
			}
			average = color.Sprint(average)
		}
		rows = append(rows, table.Row{
			record.Position,
			summaryCell(record.Total),
			average,
			summaryCell(record.Highest),
		})
	}
	return rows
}

// sortValue orders missing averages after every real one.
func sortValue(v *float64) float64 {
	if v == nil {
		return -1
	}
	return *v
}

func summaryCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
