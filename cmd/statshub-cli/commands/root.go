// Package commands implements the statshub-cli command tree.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	devenv "statshub-collector/dev/env"
	"statshub-collector/lib/browser"
	"statshub-collector/lib/configutil"
	"statshub-collector/lib/notify"
	"statshub-collector/lib/resultstore"
	resultsdb "statshub-collector/lib/resultstore/db"
	"statshub-collector/lib/restyutil"
	"statshub-collector/lib/scrapers/statshub"
	"statshub-collector/lib/scrapers/statshub/catalog"
	"statshub-collector/lib/serviceutil"
	"statshub-collector/lib/sqliteutil"
	"statshub-collector/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// Config is read from config.json5 in the working directory or any
// parent. Every field is optional.
type Config struct {
	// BaseUrl overrides the site root, mostly for mirrors.
	BaseUrl string `json:"base_url"`
	// Database is the sqlite file collection runs are stored in.
	// Defaults to <dev_state>/results.db.
	Database string `json:"database"`
	// Snapshots enables page dumps when a position row fails to parse.
	Snapshots bool `json:"snapshots"`
	// SnapshotsDir overrides where those dumps land.
	SnapshotsDir string `json:"snapshots_dir"`
	// CacheDir overrides where the discovery cache lives.
	CacheDir string `json:"cache_dir"`
	// CacheTtl is how long discovered fixture lists stay fresh, as a
	// duration string like "15m".
	CacheTtl string `json:"cache_ttl"`
	// Stats are the stat keys collected when --stats is not given.
	Stats []string `json:"stats"`
	// MinAverage hides summary rows below this average by default.
	MinAverage float64 `json:"min_average"`
	// Smtp is required for 'batch --email'.
	Smtp notify.SmtpConfig `json:"smtp"`
}

var (
	headed    bool
	verbose   bool
	snapshots bool

	configPath string
	dbPath     string

	config Config
)

var rootCmd = &cobra.Command{
	Use:   "statshub-cli",
	Short: "Scrapes per-position team stats off statshub match pages.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)

		err := telemetry.SetupFromEnv(cmd.Context(), "statshub-cli")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		if verbose {
			telemetry.InstrumentPerfStats(cmd.Context())
			statshub.SetHttpInstrumentOutput(restyutil.NewFilesystemOutput(
				"<dev_state>/resty_telemetry/statshub",
			))
		}

		config, err = configutil.ReadRecursively[Config](configPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			serviceutil.Fatal("failed to read config", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&headed, "headed", false, "run the browser with a visible window")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and http dumps")
	rootCmd.PersistentFlags().BoolVar(&snapshots, "debug-snapshots", false, "dump page markup and a screenshot when a position fails")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "config file searched for upwards from the working directory")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite file for collection runs, overrides the config")
}

// Execute runs the command tree and exits the process on failure.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	telemetry.Shutdown(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// launchSession starts a browser and attaches a statshub client to it.
// The caller owns closing the session.
func launchSession() (*browser.Session, *statshub.Client) {
	session, err := browser.Launch(browser.Options{Headless: !headed})
	if err != nil {
		serviceutil.Fatal("failed to launch browser", err)
	}

	opts := statshub.Options{BaseUrl: config.BaseUrl, Jitter: true}
	if snapshots || config.Snapshots {
		dir := config.SnapshotsDir
		if dir == "" {
			dir = "<dev_state>/snapshots"
		}
		opts.Snapshots = statshub.NewSnapshotWriter(dir)
	}
	return session, statshub.NewClient(session.Page(), opts)
}

func openStore() *resultstore.Store {
	path := dbPath
	if path == "" {
		path = config.Database
	}
	if path == "" {
		path = "<dev_state>/results.db"
	}
	resolved, err := devenv.ResolvePath(path)
	if err != nil {
		serviceutil.Fatal("failed to resolve database path", err)
	}
	database, err := sqliteutil.OpenWithSchema(resultsdb.Schema, resolved)
	if err != nil {
		serviceutil.Fatal("failed to open result store", err)
	}
	store := resultstore.NewStore(database)
	return &store
}

// resolveMatch turns a command line argument into a match. Urls pass
// through untouched, anything else is fuzzy-matched against the
// fixture list for the given date.
func resolveMatch(ctx context.Context, client *statshub.Client, arg string, date statshub.DateFilter) statshub.Match {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return statshub.Match{Url: arg}
	}

	matches, err := client.DiscoverMatches(ctx, date)
	if err != nil {
		serviceutil.Fatal("failed to discover fixtures", err)
	}
	match, ok := statshub.PickMatch(matches, arg)
	if !ok {
		serviceutil.Fatal("failed to find fixture", fmt.Errorf(
			"nothing matching %q in the %s list",
			arg, strings.ToLower(string(date)),
		))
	}
	return match
}

func parseStatsFlag(keys []string) []catalog.Stat {
	if len(keys) == 0 {
		keys = config.Stats
	}
	stats, err := catalog.ParseStats(keys)
	if err != nil {
		serviceutil.Fatal("failed to parse stats", err)
	}
	return stats
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
