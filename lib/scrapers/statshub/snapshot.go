package statshub

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	devenv "statshub-collector/dev/env"
	"statshub-collector/lib/scrapers/statshub/catalog"

	"github.com/playwright-community/playwright-go"
)

// SnapshotWriter dumps page state on per-position failures so a scan that
// went wrong can be replayed offline.
type SnapshotWriter struct {
	directory string
}

// NewSnapshotWriter resolves dir relative to the workspace dev state and
// recreates it empty, so each run's snapshots start clean.
func NewSnapshotWriter(dir string) *SnapshotWriter {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		panic(err)
	}
	os.RemoveAll(dir)
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		panic(err)
	}
	return &SnapshotWriter{directory: dir}
}

// Capture writes the page markup and a screenshot keyed by position code.
func (w *SnapshotWriter) Capture(ctx context.Context, page playwright.Page, pos catalog.Position) {
	html, err := page.Content()
	if err != nil {
		slog.WarnContext(ctx, "failed to read page markup for snapshot", "position", pos, "err", err)
	} else {
		path := filepath.Join(w.directory, fmt.Sprintf("debug_%s.html", pos))
		if err := os.WriteFile(path, []byte(html), 0600); err != nil {
			slog.WarnContext(ctx, "failed to write markup snapshot", "position", pos, "err", err)
		}
	}

	_, err = page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(filepath.Join(w.directory, fmt.Sprintf("debug_%s.png", pos))),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to write screenshot snapshot", "position", pos, "err", err)
	}
}
