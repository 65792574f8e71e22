package commands

import (
	"strings"

	"statshub-collector/lib/scrapers/statshub/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the supported statistics and formations.",
	Run: func(cmd *cobra.Command, args []string) {
		defaults := map[catalog.Stat]bool{}
		for _, stat := range catalog.DefaultStats {
			defaults[stat] = true
		}

		t := newTable()
		t.SetTitle("Statistics")
		t.AppendHeader(table.Row{"Key", "Display", "Site Value", "Default"})
		for _, stat := range catalog.Stats {
			def := ""
			if defaults[stat] {
				def = "yes"
			}
			t.AppendRow(table.Row{stat.Key(), stat.Display(), string(stat), def})
		}
		t.Render()

		f := newTable()
		f.SetTitle("Formations")
		f.AppendHeader(table.Row{"Formation", "Lineup"})
		for _, name := range catalog.FormationNames() {
			positions, _ := catalog.PositionsForFormation(name)
			codes := make([]string, len(positions))
			for i, pos := range positions {
				codes[i] = string(pos)
			}
			f.AppendRow(table.Row{name, strings.Join(codes, " ")})
		}
		f.Render()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
