package statshub

import (
	"fmt"
	"strings"
)

// NavigationError reports a failure to reach the per-position stats panel.
// Stage names the navigation step that failed.
type NavigationError struct {
	Stage string
	Err   error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed at %s: %s", e.Stage, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// SelectorNotFoundError reports that a control could not be located after
// every fallback. Available carries whatever candidates the page offered,
// so the log line tells you what was actually there.
type SelectorNotFoundError struct {
	Kind      string
	Want      string
	Available []string
	Err       error
}

func (e *SelectorNotFoundError) Error() string {
	if len(e.Available) > 0 {
		return fmt.Sprintf(
			"%s %q not found, page offered: %s",
			e.Kind, e.Want, strings.Join(e.Available, ", "),
		)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Want)
}

func (e *SelectorNotFoundError) Unwrap() error {
	return e.Err
}
