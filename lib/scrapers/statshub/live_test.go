package statshub

import (
	"context"
	"testing"
	"time"

	devenv "statshub-collector/dev/env"
	"statshub-collector/lib/browser"
	"statshub-collector/lib/scrapers/statshub/catalog"
	"statshub-collector/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// TestLiveCollect runs one stat pass against the real site. It only
// runs when a test config exists, since it needs a browser install and
// the site's fixture list changes by the hour.
func TestLiveCollect(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:lib/scrapers/statshub")
	defer cleanup()

	cfg, err := devenv.GetStateConfig[devenv.StatshubTestConfig]("statshub.json5")
	if err != nil {
		t.Skip("skipping test because no valid test config was found at dev/.state/statshub.json5")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute*5)
	defer cancel()

	session, err := browser.Launch(browser.Options{Headless: !cfg.Headed})
	require.NoError(t, err)
	defer session.Close()

	client := NewClient(session.Page(), Options{BaseUrl: cfg.BaseUrl, Jitter: true})

	matchUrl := cfg.MatchUrl
	if matchUrl == "" {
		matches, err := client.DiscoverMatches(ctx, DateToday)
		require.NoError(t, err)
		if len(matches) == 0 {
			t.Skip("no fixtures listed today")
		}
		matchUrl = matches[0].Url
	}

	err = client.OpenMatchURL(ctx, matchUrl)
	require.NoError(t, err)

	home, away, err := client.ExtractTeamTabs(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, home)
	require.NotEmpty(t, away)
	require.NotEqual(t, home, away)

	err = client.SelectTeamTab(ctx, home)
	require.NoError(t, err)
	err = client.SelectStat(ctx, catalog.StatTackles)
	require.NoError(t, err)

	records, err := client.CollectPositions(ctx, CollectHooks{})
	require.NoError(t, err)
	require.Len(t, records, len(catalog.Positions))
	for _, record := range records {
		if !record.NoData {
			hasValue := record.Total != nil || record.Average != nil || record.Highest != nil
			require.True(t, hasValue, "position %s", record.Position)
		}
	}
}
