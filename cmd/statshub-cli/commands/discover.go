package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	devenv "statshub-collector/dev/env"
	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/serviceutil"

	"github.com/dgraph-io/badger/v4"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	discoverDate      string
	discoverJson      bool
	discoverOutput    string
	discoverBrowser   bool
	discoverNoBrowser bool
	discoverNoCache   bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List fixtures that offer per-position stats.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		date, err := statshub.ParseDateFilter(discoverDate)
		if err != nil {
			serviceutil.Fatal("failed to parse date", err)
		}

		baseUrl := config.BaseUrl
		if baseUrl == "" {
			baseUrl = statshub.DefaultBaseUrl
		}

		cache, closeCache, cached := openDiscoveryCache()
		if cached {
			defer closeCache()

			matches, err := cache.Get(ctx, baseUrl, date)
			if err == nil {
				printMatches(matches)
				return
			}
			if !errors.Is(err, statshub.ErrCacheMiss) {
				slog.WarnContext(ctx, "discovery cache read failed", "err", err)
			}
		}

		matches := discoverFixtures(ctx, baseUrl, date)
		if cached {
			err := cache.Set(ctx, baseUrl, date, matches)
			if err != nil {
				slog.WarnContext(ctx, "discovery cache write failed", "err", err)
			}
		}
		printMatches(matches)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverDate, "date", "today", "fixture list to show (today or tomorrow)")
	discoverCmd.Flags().BoolVar(&discoverJson, "json", false, "print the fixture list as json")
	discoverCmd.Flags().StringVarP(&discoverOutput, "output", "o", "", "also write the fixture list to this json file")
	discoverCmd.Flags().BoolVar(&discoverBrowser, "browser", false, "skip plain http discovery and go straight to a browser")
	discoverCmd.Flags().BoolVar(&discoverNoBrowser, "no-browser", false, "never launch a browser, fail if http discovery cannot serve")
	discoverCmd.Flags().BoolVar(&discoverNoCache, "no-cache", false, "ignore the local discovery cache")
	rootCmd.AddCommand(discoverCmd)
}

// discoverFixtures tries the plain http path first since it is much
// cheaper than a browser. Date filters past today need the site's
// javascript, so those fall through.
func discoverFixtures(ctx context.Context, baseUrl string, date statshub.DateFilter) []statshub.Match {
	if !discoverBrowser {
		matches, err := statshub.NewHttpDiscovery(baseUrl).DiscoverMatches(ctx, date)
		if err == nil {
			return matches
		}
		if discoverNoBrowser {
			serviceutil.Fatal("failed to discover fixtures", err)
		}
		if !errors.Is(err, statshub.ErrDateNeedsBrowser) {
			slog.WarnContext(ctx, "plain http discovery failed, starting a browser", "err", err)
		}
	}
	if discoverNoBrowser {
		serviceutil.Fatal("failed to discover fixtures", errors.New("--no-browser and --browser do not mix"))
	}

	session, client := launchSession()
	defer session.Close()

	matches, err := client.DiscoverMatches(ctx, date)
	if err != nil {
		serviceutil.Fatal("failed to discover fixtures", err)
	}
	return matches
}

func openDiscoveryCache() (statshub.DiscoveryCache, func(), bool) {
	if discoverNoCache {
		return statshub.DiscoveryCache{}, nil, false
	}

	dir := config.CacheDir
	if dir == "" {
		dir = "<dev_state>/discovery_cache"
	}
	path, err := devenv.ResolvePath(dir)
	if err != nil {
		slog.Warn("discovery cache disabled", "err", err)
		return statshub.DiscoveryCache{}, nil, false
	}
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		slog.Warn("discovery cache disabled", "err", err)
		return statshub.DiscoveryCache{}, nil, false
	}
	return statshub.NewDiscoveryCache(db, cacheTtl()), func() { db.Close() }, true
}

func cacheTtl() time.Duration {
	if config.CacheTtl == "" {
		return statshub.DefaultDiscoveryTTL
	}
	ttl, err := time.ParseDuration(config.CacheTtl)
	if err != nil {
		slog.Warn("invalid cache_ttl in config", "value", config.CacheTtl, "err", err)
		return statshub.DefaultDiscoveryTTL
	}
	return ttl
}

func printMatches(matches []statshub.Match) {
	if discoverOutput != "" {
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			serviceutil.Fatal("failed to encode fixtures", err)
		}
		err = os.WriteFile(discoverOutput, append(data, '\n'), 0666)
		if err != nil {
			serviceutil.Fatal("failed to write fixtures", err)
		}
		slog.Info("wrote fixture list", "path", discoverOutput)
	}

	if discoverJson {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		err := encoder.Encode(matches)
		if err != nil {
			serviceutil.Fatal("failed to encode fixtures", err)
		}
		return
	}

	if len(matches) == 0 {
		fmt.Println("no fixtures listed")
		return
	}
	t := newTable()
	t.AppendHeader(table.Row{"#", "Match", "Kickoff", "Url"})
	for i, match := range matches {
		t.AppendRow(table.Row{i + 1, match.Label(), match.Kickoff, match.Url})
	}
	t.Render()
}
