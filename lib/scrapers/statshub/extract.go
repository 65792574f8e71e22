package statshub

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"statshub-collector/lib/browser"
	"statshub-collector/lib/scrapers/statshub/catalog"

	"github.com/mazen160/go-random"
	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// toggleAttempts is the first toggle plus its verification retries.
	toggleAttempts = 3
	// untoggleAttempts bounds how hard the loop tries to leave a switch
	// off before moving on.
	untoggleAttempts = 2

	toggleVerifyWindow = time.Millisecond * 1500
	switchPollInterval = time.Millisecond * 100
	positionBudget     = time.Second * 20

	jitterMinMs = 120
	jitterMaxMs = 420
)

// extractionState names a step of the per-position scan. Transitions are
// validated so an impossible sequence fails loudly instead of quietly
// corrupting a scan.
type extractionState int

const (
	stateIdle extractionState = iota
	stateToggling
	stateWaitingRender
	stateExtracting
	stateVerified
	stateNoData
	stateUntoggling
)

func (s extractionState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateToggling:
		return "toggling"
	case stateWaitingRender:
		return "waiting-render"
	case stateExtracting:
		return "extracting"
	case stateVerified:
		return "verified"
	case stateNoData:
		return "no-data"
	case stateUntoggling:
		return "untoggling"
	}
	return "unknown"
}

var stateTransitions = map[extractionState][]extractionState{
	stateIdle:          {stateToggling},
	stateToggling:      {stateWaitingRender, stateNoData},
	stateWaitingRender: {stateExtracting, stateNoData},
	stateExtracting:    {stateVerified, stateNoData},
	stateVerified:      {stateUntoggling},
	stateNoData:        {stateUntoggling},
	stateUntoggling:    {stateIdle},
}

// positionScan tracks where the loop is for one position.
type positionScan struct {
	position catalog.Position
	state    extractionState
}

func (s *positionScan) to(next extractionState) {
	for _, allowed := range stateTransitions[s.state] {
		if allowed == next {
			s.state = next
			return
		}
	}
	panic(fmt.Sprintf(
		"illegal scan transition %s -> %s for position %s",
		s.state, next, s.position,
	))
}

// positionSwitch is the slice of playwright.Locator the toggle logic
// needs, so tests can drive it with a fake.
type positionSwitch interface {
	browser.Target
	GetAttribute(name string, options ...playwright.LocatorGetAttributeOptions) (string, error)
}

var _ positionSwitch = playwright.Locator(nil)

// switchChecked reads the toggle state the way the site exposes it:
// aria-checked, with data-state as the fallback.
func switchChecked(sw positionSwitch) bool {
	if v, err := sw.GetAttribute("aria-checked"); err == nil && v != "" {
		return v == "true"
	}
	if v, err := sw.GetAttribute("data-state"); err == nil {
		return v == "checked"
	}
	return false
}

// switchDriver drives one position switch to a wanted state and verifies
// the state actually applied. The verify window and poll interval are
// fields so tests can shrink them.
type switchDriver struct {
	sw     positionSwitch
	fast   bool
	verify time.Duration
	poll   time.Duration
}

func (c *Client) switchDriver(sw positionSwitch, pos catalog.Position) switchDriver {
	return switchDriver{
		sw:     sw,
		fast:   pos.Striker(),
		verify: toggleVerifyWindow,
		poll:   switchPollInterval,
	}
}

// set toggles until the switch verifies in the wanted state, up to the
// attempt bound. Returns false when the state never verified.
func (d switchDriver) set(ctx context.Context, want bool, attempts int) bool {
	for attempt := 1; attempt <= attempts; attempt++ {
		if switchChecked(d.sw) == want {
			return true
		}

		timeout := browser.DefaultClickTimeout
		if d.fast {
			timeout = browser.FastClickTimeout
		}
		err := browser.Act(d.sw, browser.ActOptions{Timeout: timeout, Fast: d.fast})
		if err != nil {
			slog.DebugContext(
				ctx, "switch click failed",
				"want", want, "attempt", attempt, "err", err,
			)
		}

		if d.await(want) {
			return true
		}
	}
	return switchChecked(d.sw) == want
}

// await polls for the switch to report the wanted state inside the verify
// window.
func (d switchDriver) await(want bool) bool {
	deadline := time.Now().Add(d.verify)
	for {
		if switchChecked(d.sw) == want {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(d.poll)
	}
}

var intPattern = regexp.MustCompile(`\d+`)
var decimalPattern = regexp.MustCompile(`[\d.]+`)

// parseStatNumber pulls the first numeric token out of a cell's row text.
// Average cells carry decimals, the other fields whole numbers.
func parseStatNumber(text string, decimal bool) *float64 {
	pattern := intPattern
	if decimal {
		pattern = decimalPattern
	}
	raw := strings.Trim(pattern.FindString(text), ".")
	if raw == "" {
		return nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &val
}

// newRecord assembles a position's record from the three raw cell texts.
// NoData is derived, never set alongside numbers: a record either has at
// least one value or it has none and the flag.
func newRecord(pos catalog.Position, total, average, highest string) PositionStats {
	rec := PositionStats{
		Position: pos,
		Total:    parseStatNumber(total, false),
		Average:  parseStatNumber(average, true),
		Highest:  parseStatNumber(highest, false),
	}
	rec.NoData = rec.Total == nil && rec.Average == nil && rec.Highest == nil
	return rec
}

func noDataRecord(pos catalog.Position) PositionStats {
	return PositionStats{Position: pos, NoData: true}
}

// CollectHooks lets a caller observe the loop without being able to slow
// it down.
type CollectHooks struct {
	// OnPosition fires before each position scan. It must not block.
	OnPosition func(pos catalog.Position, index, total int)
}

// CollectPositions toggles through every catalog position for the
// currently selected team and stat, extracting one record per position.
// The switch is always driven back off before the next position, on every
// path. Cancellation is honored between positions; the in-flight position
// finishes (including its untoggle) and the records so far come back with
// the context error.
func (c *Client) CollectPositions(ctx context.Context, hooks CollectHooks) ([]PositionStats, error) {
	ctx, span := tracer.Start(ctx, "client:CollectPositions")
	defer span.End()

	if err := c.openPositionDialog(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "position dialog not reached")
		return nil, err
	}

	records := make([]PositionStats, 0, len(catalog.Positions))
	for i, pos := range catalog.Positions {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "canceled")
			return records, err
		}
		if hooks.OnPosition != nil {
			hooks.OnPosition(pos, i, len(catalog.Positions))
		}
		records = append(records, c.scanPosition(ctx, pos))
		c.pause()
	}
	return records, nil
}

// scanPosition runs the state machine for one position. It never returns
// an error: every failure path degrades to a no-data record so the scan
// keeps moving.
func (c *Client) scanPosition(ctx context.Context, pos catalog.Position) PositionStats {
	ctx, span := tracer.Start(ctx, "client:scanPosition")
	defer span.End()
	span.SetAttributes(attribute.String("position", string(pos)))

	started := time.Now()
	scan := positionScan{position: pos, state: stateIdle}

	if pos.Striker() {
		c.scrollDialogToBottom(ctx)
	}

	sw, err := c.positionSwitch(pos)
	if err != nil {
		slog.WarnContext(ctx, "position switch not found", "position", pos, "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "switch not found")
		noDataCount.Add(ctx, 1)
		c.snapshotFailure(ctx, pos)
		return noDataRecord(pos)
	}
	driver := c.switchDriver(sw, pos)

	scan.to(stateToggling)
	if !driver.set(ctx, true, toggleAttempts) {
		slog.WarnContext(ctx, "toggle never verified, recording no data", "position", pos)
		scan.to(stateNoData)
		noDataCount.Add(ctx, 1)
		c.snapshotFailure(ctx, pos)
		c.untoggle(ctx, &scan, driver)
		return noDataRecord(pos)
	}

	overBudget := func() bool { return time.Since(started) > positionBudget }

	scan.to(stateWaitingRender)
	if !overBudget() {
		c.settle(ctx, renderTimeout)
	}

	var rec PositionStats
	if c.noDataShown() {
		scan.to(stateNoData)
		noDataCount.Add(ctx, 1)
		rec = noDataRecord(pos)
	} else {
		scan.to(stateExtracting)
		if overBudget() {
			slog.DebugContext(
				ctx, "position budget spent, extracting immediately",
				"position", pos,
			)
		} else if !c.waitTotalCell() {
			slog.DebugContext(
				ctx, "stat cells never confirmed, extracting anyway",
				"position", pos,
			)
		}
		rec = c.extractRecord(ctx, pos)
		if rec.NoData {
			scan.to(stateNoData)
			noDataCount.Add(ctx, 1)
			c.snapshotFailure(ctx, pos)
		} else {
			scan.to(stateVerified)
		}
	}

	c.untoggle(ctx, &scan, driver)

	if elapsed := time.Since(started); elapsed > positionBudget {
		slog.DebugContext(
			ctx, "position scan ran past its budget",
			"position", pos, "elapsed", elapsed,
		)
	}
	return rec
}

func (c *Client) untoggle(ctx context.Context, scan *positionScan, driver switchDriver) {
	scan.to(stateUntoggling)
	if !driver.set(ctx, false, untoggleAttempts) {
		slog.WarnContext(
			ctx, "switch may be left toggled",
			"position", scan.position,
		)
	}
	scan.to(stateIdle)
}

// openPositionDialog opens the position picker dialog.
func (c *Client) openPositionDialog(ctx context.Context) error {
	button := c.page.GetByRole(playwright.AriaRoleButton, playwright.PageGetByRoleOptions{
		Name: positionDialogButton,
	})
	if err := browser.Act(button, browser.ActOptions{}); err != nil {
		return &SelectorNotFoundError{
			Kind: "position dialog",
			Want: positionDialogButton,
			Err:  err,
		}
	}
	c.settle(ctx, renderTimeout)
	return nil
}

// scrollDialogToBottom brings the striker block into the dialog viewport.
// Scroll-into-view on the switch itself is not enough once the dialog has
// its own scroll container.
func (c *Client) scrollDialogToBottom(ctx context.Context) {
	dialog := c.page.Locator(`[role="dialog"]`)
	count, err := dialog.Count()
	if err != nil || count == 0 {
		return
	}
	_, err = dialog.First().Evaluate("el => el.scrollTo(0, el.scrollHeight)", nil)
	if err != nil {
		slog.DebugContext(ctx, "could not scroll position dialog", "err", err)
	}
}

// positionSwitch resolves the toggle for a position: id selector first,
// exact accessible name second, loose name match last.
func (c *Client) positionSwitch(pos catalog.Position) (playwright.Locator, error) {
	byId := c.page.Locator(fmt.Sprintf(`[role="switch"][id="position-%s"]`, pos))
	if count, err := byId.Count(); err == nil && count > 0 {
		return byId.First(), nil
	}

	byName := c.page.GetByRole(playwright.AriaRoleSwitch, playwright.PageGetByRoleOptions{
		Name:  string(pos),
		Exact: playwright.Bool(true),
	})
	if count, err := byName.Count(); err == nil && count > 0 {
		return byName.First(), nil
	}

	loose := c.page.GetByRole(playwright.AriaRoleSwitch, playwright.PageGetByRoleOptions{
		Name: string(pos),
	})
	if count, err := loose.Count(); err == nil && count > 0 {
		return loose.First(), nil
	}

	return nil, &SelectorNotFoundError{Kind: "position switch", Want: string(pos)}
}

// noDataShown reports whether the panel is showing its empty-state marker.
func (c *Client) noDataShown() bool {
	count, err := c.page.GetByText("No data found").Count()
	return err == nil && count > 0
}

// waitTotalCell waits for the stat cells to materialize. A timeout here is
// not fatal, extraction proceeds on whatever is rendered.
func (c *Client) waitTotalCell() bool {
	err := c.page.Locator("text=Total").First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(renderTimeout),
	})
	return err == nil
}

// extractRecord reads the three stat cells for the toggled position. Each
// labelled cell's row text is read individually; if none resolve, one bulk
// script query covers all three fields at once.
func (c *Client) extractRecord(ctx context.Context, pos catalog.Position) PositionStats {
	total := c.cellText(ctx, "Total")
	average := c.cellText(ctx, "Average")
	highest := c.cellText(ctx, "Highest")
	if total == "" && average == "" && highest == "" {
		total, average, highest = c.bulkCellText(ctx)
	}
	return newRecord(pos, total, average, highest)
}

func (c *Client) cellText(ctx context.Context, label string) string {
	cell := c.page.Locator("text=" + label).First()
	raw, err := cell.Evaluate("el => el.parentElement.textContent", nil)
	if err != nil {
		slog.DebugContext(ctx, "stat cell read failed", "label", label, "err", err)
		return ""
	}
	text, _ := raw.(string)
	return text
}

const bulkCellScript = `() => {
	const out = { total: "", average: "", highest: "" };
	for (const el of document.querySelectorAll("span, div, p")) {
		const key = el.textContent.trim().toLowerCase();
		if (key !== "total" && key !== "average" && key !== "highest") continue;
		if (el.parentElement) out[key] = el.parentElement.textContent;
	}
	return out;
}`

func (c *Client) bulkCellText(ctx context.Context) (total, average, highest string) {
	raw, err := c.page.Evaluate(bulkCellScript)
	if err != nil {
		slog.DebugContext(ctx, "bulk stat cell read failed", "err", err)
		return "", "", ""
	}
	fields, _ := raw.(map[string]interface{})
	get := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}
	return get("total"), get("average"), get("highest")
}

func (c *Client) snapshotFailure(ctx context.Context, pos catalog.Position) {
	if c.opts.Snapshots == nil {
		return
	}
	c.opts.Snapshots.Capture(ctx, c.page, pos)
}

// pause inserts a short humanized delay between positions when enabled.
func (c *Client) pause() {
	if !c.opts.Jitter {
		return
	}
	delay, err := random.IntRange(jitterMinMs, jitterMaxMs)
	if err != nil {
		return
	}
	time.Sleep(time.Duration(delay) * time.Millisecond)
}
