// Package statshub scrapes the per-position statistic tables the stats site
// renders for each fixture. A Client wraps one live browser page; every
// operation takes the page through the same steps a person would click
// through, with bounded waits at each step.
package statshub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"statshub-collector/lib/browser"
	"statshub-collector/lib/scrapers/statshub/catalog"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://www.statshub.com"

// Button labels the site uses around the per-position panel.
const (
	opponentPanelButton  = "Opponent Stats NEW!"
	positionDialogButton = "Select positions"
)

const (
	navigateTimeout    = time.Second * 15
	settleTimeout      = time.Second * 8
	renderTimeout      = time.Second * 2
	settleGrace        = time.Second
	statControlTimeout = time.Second * 5
)

// DateFilter is a fixture-list date tab label.
type DateFilter string

const (
	DateToday    DateFilter = "Today"
	DateTomorrow DateFilter = "Tomorrow"
)

// ParseDateFilter resolves the flag spellings of a date filter.
func ParseDateFilter(s string) (DateFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return DateToday, nil
	case "tomorrow":
		return DateTomorrow, nil
	}
	return "", fmt.Errorf("unknown date filter %q, want today or tomorrow", s)
}

type Options struct {
	// BaseUrl overrides the site root, mostly for tests.
	BaseUrl string
	// Snapshots receives page dumps on per-position failures when set.
	Snapshots *SnapshotWriter
	// Jitter inserts a short random pause between position scans.
	Jitter bool
}

// Client drives one browser page through the site. It is not safe for
// concurrent use; a page can only be in one place at a time.
type Client struct {
	page playwright.Page
	opts Options
}

func NewClient(page playwright.Page, opts Options) *Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	opts.BaseUrl = strings.TrimSuffix(opts.BaseUrl, "/")
	return &Client{page: page, opts: opts}
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// OpenRoot loads the site's fixture list page.
func (c *Client) OpenRoot(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:OpenRoot")
	defer span.End()

	_, err := c.page.Goto(c.opts.BaseUrl+"/", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   ms(navigateTimeout),
	})
	if err != nil {
		nerr := &NavigationError{Stage: "goto root", Err: err}
		span.RecordError(nerr)
		span.SetStatus(codes.Error, "goto root failed")
		return nerr
	}
	c.settle(ctx, settleTimeout)
	return nil
}

// OpenMatchURL navigates straight to a fixture page and reveals the
// per-position stats panel.
func (c *Client) OpenMatchURL(ctx context.Context, url string) error {
	ctx, span := tracer.Start(ctx, "client:OpenMatchURL")
	defer span.End()

	full := c.resolveUrl(url)
	slog.DebugContext(ctx, "opening match", "url", full)

	_, err := c.page.Goto(full, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   ms(navigateTimeout),
	})
	if err != nil {
		nerr := &NavigationError{Stage: "goto match", Err: err}
		span.RecordError(nerr)
		span.SetStatus(codes.Error, "goto match failed")
		return nerr
	}
	c.settle(ctx, settleTimeout)

	if err := c.revealPositionPanel(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stats panel not reached")
		return err
	}
	return nil
}

// OpenMatchByName opens the fixture list under a date filter and follows
// the match link with the given accessible name.
func (c *Client) OpenMatchByName(ctx context.Context, date DateFilter, name string) error {
	ctx, span := tracer.Start(ctx, "client:OpenMatchByName")
	defer span.End()

	if err := c.OpenRoot(ctx); err != nil {
		return err
	}
	if err := c.ApplyDateFilter(ctx, date); err != nil {
		nerr := &NavigationError{Stage: "date filter", Err: err}
		span.RecordError(nerr)
		span.SetStatus(codes.Error, "date filter failed")
		return nerr
	}

	link := c.page.GetByRole(playwright.AriaRoleLink, playwright.PageGetByRoleOptions{
		Name: name,
	})
	if err := browser.Act(link.First(), browser.ActOptions{}); err != nil {
		nerr := &NavigationError{Stage: "match link", Err: err}
		span.RecordError(nerr)
		span.SetStatus(codes.Error, "match link failed")
		return nerr
	}
	c.settle(ctx, settleTimeout)

	if err := c.revealPositionPanel(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stats panel not reached")
		return err
	}
	return nil
}

// ApplyDateFilter clicks the fixture list onto a date tab. The control has
// shipped as plain text, a button and a tab at various times, so all three
// are tried.
func (c *Client) ApplyDateFilter(ctx context.Context, date DateFilter) error {
	ctx, span := tracer.Start(ctx, "client:ApplyDateFilter")
	defer span.End()

	candidates := []playwright.Locator{
		c.page.GetByText(string(date), playwright.PageGetByTextOptions{
			Exact: playwright.Bool(true),
		}),
		c.page.GetByRole(playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
			Name:  string(date),
			Exact: playwright.Bool(true),
		}),
		c.page.GetByRole(playwright.AriaRoleTab, playwright.PageGetByRoleOptions{
			Name:  string(date),
			Exact: playwright.Bool(true),
		}),
	}

	var attempts []error
	for _, candidate := range candidates {
		count, err := candidate.Count()
		if err != nil || count == 0 {
			continue
		}
		if err := browser.Act(candidate.First(), browser.ActOptions{}); err != nil {
			attempts = append(attempts, err)
			continue
		}
		c.settle(ctx, renderTimeout)
		return nil
	}

	serr := &SelectorNotFoundError{
		Kind: "date filter",
		Want: string(date),
		Err:  errors.Join(attempts...),
	}
	span.RecordError(serr)
	span.SetStatus(codes.Error, "date filter not found")
	return serr
}

// SelectTeamTab flips the stats panel to the team behind the given tab
// label. Selecting the already-active tab is a no-op.
func (c *Client) SelectTeamTab(ctx context.Context, label string) error {
	ctx, span := tracer.Start(ctx, "client:SelectTeamTab")
	defer span.End()

	tab := c.page.GetByRole(playwright.AriaRoleTab, playwright.PageGetByRoleOptions{
		Name:  label,
		Exact: playwright.Bool(true),
	})
	count, err := tab.Count()
	if err != nil || count == 0 {
		available, _ := c.page.Locator(`[role="tab"]`).AllInnerTexts()
		serr := &SelectorNotFoundError{
			Kind:      "team tab",
			Want:      label,
			Available: available,
			Err:       err,
		}
		span.RecordError(serr)
		span.SetStatus(codes.Error, "team tab not found")
		return serr
	}

	target := tab.First()
	if selected, err := target.GetAttribute("aria-selected"); err == nil && selected == "true" {
		slog.DebugContext(ctx, "team tab already active", "tab", label)
		return nil
	}

	if err := browser.Act(target, browser.ActOptions{}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "team tab click failed")
		return err
	}
	c.settle(ctx, renderTimeout)
	return nil
}

// SelectStat switches the stat dropdown: by internal value first, by
// display label as the fallback. Selecting the already-active stat is a
// no-op.
func (c *Client) SelectStat(ctx context.Context, stat catalog.Stat) error {
	ctx, span := tracer.Start(ctx, "client:SelectStat")
	defer span.End()

	dropdown := c.page.GetByLabel("Stat")
	if current, err := dropdown.InputValue(); err == nil && current == string(stat) {
		slog.DebugContext(ctx, "stat already selected", "stat", stat.Key())
		return nil
	}

	_, err := dropdown.SelectOption(playwright.SelectOptionValues{
		Values: &[]string{string(stat)},
	}, playwright.LocatorSelectOptionOptions{Timeout: ms(statControlTimeout)})
	if err != nil {
		slog.DebugContext(
			ctx, "stat select by value failed, trying display label",
			"stat", stat.Key(), "err", err,
		)
		_, lerr := dropdown.SelectOption(playwright.SelectOptionValues{
			Labels: &[]string{stat.Display()},
		}, playwright.LocatorSelectOptionOptions{Timeout: ms(statControlTimeout)})
		if lerr != nil {
			available, _ := dropdown.Locator("option").AllInnerTexts()
			serr := &SelectorNotFoundError{
				Kind:      "stat option",
				Want:      stat.Display(),
				Available: available,
				Err:       errors.Join(err, lerr),
			}
			span.RecordError(serr)
			span.SetStatus(codes.Error, "stat option not found")
			return serr
		}
	}

	c.settle(ctx, statControlTimeout)
	return nil
}

// revealPositionPanel clicks through to the opponent-stats view where the
// per-position switches live.
func (c *Client) revealPositionPanel(ctx context.Context) error {
	button := c.page.GetByRole(playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
		Name: opponentPanelButton,
	})
	if err := browser.Act(button, browser.ActOptions{}); err != nil {
		return &NavigationError{Stage: "reveal stats panel", Err: err}
	}
	c.settle(ctx, renderTimeout)
	return nil
}

// settle waits for the page to go network idle, degrading to a fixed grace
// period when it never does. Pages with long-polling widgets never go
// idle, so this cannot be an error.
func (c *Client) settle(ctx context.Context, timeout time.Duration) {
	err := c.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: ms(timeout),
	})
	if err != nil {
		slog.DebugContext(ctx, "page never went network idle", "err", err)
		time.Sleep(settleGrace)
	}
}

func (c *Client) resolveUrl(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return c.opts.BaseUrl + "/" + strings.TrimPrefix(url, "/")
}
