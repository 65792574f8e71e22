package browser

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DefaultClickTimeout bounds a single click attempt.
const DefaultClickTimeout = time.Second * 2

// FastClickTimeout is the per-attempt bound for targets known to respond
// slowly to native clicks, where waiting the full timeout twice would blow
// the per-position budget.
const FastClickTimeout = time.Millisecond * 500

// InteractionKind labels what an interaction was trying to do when it
// failed.
type InteractionKind string

const ClickFailed InteractionKind = "click failed"

// InteractionError is returned when an interaction failed after its single
// forced retry. Err joins both attempts' causes.
type InteractionError struct {
	Kind InteractionKind
	Err  error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *InteractionError) Unwrap() error {
	return e.Err
}

// Target is the slice of playwright.Locator that Act needs. Keeping it
// narrow lets tests drive Act with a fake.
type Target interface {
	ScrollIntoViewIfNeeded(options ...playwright.LocatorScrollIntoViewIfNeededOptions) error
	Click(options ...playwright.LocatorClickOptions) error
	Evaluate(expression string, arg interface{}, options ...playwright.LocatorEvaluateOptions) (interface{}, error)
}

var _ Target = playwright.Locator(nil)

type ActOptions struct {
	// Timeout bounds each click attempt. Zero means DefaultClickTimeout.
	Timeout time.Duration
	// Fast flips the attempt order: the script-driven click goes first and
	// a force-enabled native click is the retry. For targets where the
	// native click reliably times out (switches at the bottom of a
	// scrolled dialog).
	Fast bool
}

// Act scrolls the target into view and clicks it. A failed attempt is
// retried exactly once with a forced variant; a second failure returns an
// InteractionError joining both causes. Scroll failures are not fatal, the
// click is attempted regardless.
func Act(target Target, opts ActOptions) error {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultClickTimeout
	}
	ms := playwright.Float(float64(timeout.Milliseconds()))

	err := target.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{
		Timeout: ms,
	})
	if err != nil {
		slog.Debug("scroll into view failed, clicking anyway", "err", err)
	}

	native := func() error {
		return target.Click(playwright.LocatorClickOptions{Timeout: ms})
	}
	forced := func() error {
		return target.Click(playwright.LocatorClickOptions{
			Force:   playwright.Bool(true),
			Timeout: ms,
		})
	}
	scripted := func() error {
		_, err := target.Evaluate("el => el.click()", nil)
		return err
	}

	attempt, retry := native, scripted
	if opts.Fast {
		attempt, retry = scripted, forced
	}

	firstErr := attempt()
	if firstErr == nil {
		return nil
	}
	slog.Debug("click attempt failed, retrying forced", "err", firstErr)

	retryErr := retry()
	if retryErr == nil {
		return nil
	}
	return &InteractionError{
		Kind: ClickFailed,
		Err:  errors.Join(firstErr, retryErr),
	}
}
