package outputs

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"statshub-collector/lib/scrapers/statshub"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func sampleDocument() Document {
	return Document{
		Match: statshub.Match{
			Url:     "https://www.statshub.com/fixture/leeds-vs-everton/1",
			HomeTab: "Leeds",
			AwayTab: "Everton",
		},
		CollectedAt: time.Date(2025, time.March, 8, 14, 30, 0, 0, time.UTC),
		Stats: statshub.MatchStats{
			"Leeds": statshub.TeamStats{
				"Tackles": []statshub.PositionStats{
					{Position: "GK", Total: floatPtr(40), Average: floatPtr(1.6), Highest: floatPtr(4)},
					{Position: "RWB", NoData: true},
				},
			},
			"Everton": statshub.TeamStats{
				"Tackles": []statshub.PositionStats{
					{Position: "GK", Total: floatPtr(28), Average: floatPtr(1.1), Highest: floatPtr(3)},
				},
			},
		},
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "match.json")
	doc := sampleDocument()

	require.NoError(t, Save(path, doc))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Document
	require.NoError(t, json.Unmarshal(buf, &loaded))
	require.Empty(t, cmp.Diff(doc, loaded))
}

func TestSaveCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "match.csv")
	require.NoError(t, Save(path, sampleDocument()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Equal(t, csvHeader, rows[0])
	// header plus three records across both teams
	require.Len(t, rows, 4)

	// teams come out sorted, Everton before Leeds
	require.Equal(t, []string{"Everton", "Tackles", "GK", "28", "1.1", "3", "false"}, rows[1])
	require.Equal(t, []string{"Leeds", "Tackles", "GK", "40", "1.6", "4", "false"}, rows[2])

	// a no-data record keeps its numeric cells empty
	require.Equal(t, []string{"Leeds", "Tackles", "RWB", "", "", "", "true"}, rows[3])
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "match.xml"), sampleDocument())
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	format, err := FormatFromPath("results/match.JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, format)

	format, err = FormatFromPath("match.csv")
	require.NoError(t, err)
	require.Equal(t, FormatCSV, format)

	_, err = FormatFromPath("match.txt")
	require.Error(t, err)
}

func TestDeriveAltPath(t *testing.T) {
	alt, ok := DeriveAltPath("results/match.json")
	require.True(t, ok)
	require.Equal(t, "results/match.csv", alt)

	alt, ok = DeriveAltPath("match.csv")
	require.True(t, ok)
	require.Equal(t, "match.json", alt)

	_, ok = DeriveAltPath("match.txt")
	require.False(t, ok)
}
