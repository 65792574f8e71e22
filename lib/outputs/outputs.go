// Package outputs writes collection results to disk and renders them as
// terminal summaries. Presentation options never mutate the records they
// display.
package outputs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"statshub-collector/lib/scrapers/statshub"
)

// Format of an output file, inferred from its extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported output format %q, use .json or .csv", filepath.Ext(path))
	}
}

// DeriveAltPath returns the sibling path in the other format so one run can
// emit both files. Returns false for paths in neither format.
func DeriveAltPath(path string) (string, bool) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return base + ".csv", true
	case ".csv":
		return base + ".json", true
	default:
		return "", false
	}
}

// Document is one match worth of collected data as it lands in a file.
type Document struct {
	Match         statshub.Match      `json:"match"`
	CollectedAt   time.Time           `json:"collected_at"`
	Stats         statshub.MatchStats `json:"stats"`
	OpponentStats statshub.MatchStats `json:"opponent_stats,omitempty"`
}

// Save writes the document to path in the format its extension names,
// creating parent directories as needed.
func Save(path string, doc Document) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	os.MkdirAll(filepath.Dir(path), 0777)

	switch format {
	case FormatJSON:
		return saveJSON(path, doc)
	default:
		return saveCSV(path, doc)
	}
}

func saveJSON(path string, doc Document) error {
	buf, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	err = os.WriteFile(path, buf, 0666)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// csvHeader is the stable column layout of csv outputs.
var csvHeader = []string{"team", "stat", "position", "total", "average", "highest", "no_data"}

func saveCSV(path string, doc Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write(csvHeader)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	for _, team := range sortedKeys(doc.Stats) {
		byStat := doc.Stats[team]
		for _, stat := range sortedKeys(byStat) {
			for _, record := range byStat[stat] {
				row := []string{
					team,
					stat,
					string(record.Position),
					csvCell(record.Total),
					csvCell(record.Average),
					csvCell(record.Highest),
					strconv.FormatBool(record.NoData),
				}
				err = w.Write(row)
				if err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}

// csvCell renders a numeric cell, leaving it empty when no value was
// extracted.
func csvCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
