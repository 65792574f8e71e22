// Package browser owns the playwright session lifecycle and the resilient
// click primitive the scrapers are built on.
package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// closeDeadline bounds Close. The driver process can hang on shutdown, so
// teardown is abandoned once this passes.
const closeDeadline = time.Second * 5

type Options struct {
	Headless bool
	// SlowMo inserts a pause (in milliseconds) between driver actions.
	// Useful with a headed browser when watching a run.
	SlowMo float64
	// Timeout is the default per-action timeout applied to the page.
	Timeout time.Duration
}

// Session is a single live browser page plus everything needed to tear it
// down again.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// Launch starts the playwright driver, a chromium instance and one page.
func Launch(opts Options) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright driver: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(opts.SlowMo)
	}
	chromium, err := pw.Chromium.Launch(launch)
	if err != nil {
		stopDriver(pw)
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	context, err := chromium.NewContext()
	if err != nil {
		chromium.Close()
		stopDriver(pw)
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	page, err := context.NewPage()
	if err != nil {
		context.Close()
		chromium.Close()
		stopDriver(pw)
		return nil, fmt.Errorf("create page: %w", err)
	}
	if opts.Timeout > 0 {
		page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
	}

	return &Session{
		pw:      pw,
		browser: chromium,
		context: context,
		page:    page,
	}, nil
}

func (s *Session) Page() playwright.Page {
	return s.page
}

// Close tears the session down with a hard deadline, abandoning whatever
// step is hanging once the deadline passes.
func (s *Session) Close() error {
	done := make(chan error, 1)
	go func() {
		var errs []error
		if s.page != nil {
			errs = append(errs, s.page.Close())
		}
		if s.context != nil {
			errs = append(errs, s.context.Close())
		}
		if s.browser != nil {
			errs = append(errs, s.browser.Close())
		}
		if s.pw != nil {
			errs = append(errs, s.pw.Stop())
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(closeDeadline):
		return errors.New("browser shutdown timed out")
	}
}

// stopDriver stops the playwright driver without letting a shutdown hang
// block the caller.
func stopDriver(pw *playwright.Playwright) {
	done := make(chan struct{})
	go func() {
		pw.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(closeDeadline):
	}
}

// Install downloads the playwright driver and a chromium build. Exposed so
// the CLI can offer first-run setup.
func Install() error {
	err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
	if err != nil {
		return fmt.Errorf("install playwright chromium: %w", err)
	}
	return nil
}
