package browser

import (
	"errors"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	scrollErr error
	clickErr  error
	evalErr   error

	scrolls int
	clicks  int
	evals   int
	forced  []bool
}

func (f *fakeTarget) ScrollIntoViewIfNeeded(options ...playwright.LocatorScrollIntoViewIfNeededOptions) error {
	f.scrolls++
	return f.scrollErr
}

func (f *fakeTarget) Click(options ...playwright.LocatorClickOptions) error {
	f.clicks++
	force := false
	if len(options) > 0 && options[0].Force != nil {
		force = *options[0].Force
	}
	f.forced = append(f.forced, force)
	return f.clickErr
}

func (f *fakeTarget) Evaluate(expression string, arg interface{}, options ...playwright.LocatorEvaluateOptions) (interface{}, error) {
	f.evals++
	return nil, f.evalErr
}

func TestActClicksOnce(t *testing.T) {
	target := &fakeTarget{}
	err := Act(target, ActOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, target.scrolls)
	require.Equal(t, 1, target.clicks)
	require.Equal(t, 0, target.evals)
}

func TestActRetriesWithScriptClick(t *testing.T) {
	target := &fakeTarget{clickErr: errors.New("intercepted")}
	err := Act(target, ActOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, target.clicks)
	require.Equal(t, 1, target.evals)
}

func TestActRetryBound(t *testing.T) {
	target := &fakeTarget{
		clickErr: errors.New("intercepted"),
		evalErr:  errors.New("detached"),
	}
	err := Act(target, ActOptions{})
	require.Error(t, err)

	var ierr *InteractionError
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, ClickFailed, ierr.Kind)

	// one native attempt plus one forced retry, never more
	require.Equal(t, 1, target.clicks)
	require.Equal(t, 1, target.evals)
	require.Contains(t, err.Error(), "intercepted")
	require.Contains(t, err.Error(), "detached")
}

func TestActScrollFailureIsNotFatal(t *testing.T) {
	target := &fakeTarget{scrollErr: errors.New("not scrollable")}
	err := Act(target, ActOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, target.clicks)
}

func TestActFastMode(t *testing.T) {
	target := &fakeTarget{evalErr: errors.New("no handler")}
	err := Act(target, ActOptions{Fast: true})
	require.NoError(t, err)

	// script click first, then a single forced native click
	require.Equal(t, 1, target.evals)
	require.Equal(t, 1, target.clicks)
	require.Equal(t, []bool{true}, target.forced)
}

func TestActFastModeBound(t *testing.T) {
	target := &fakeTarget{
		clickErr: errors.New("covered"),
		evalErr:  errors.New("no handler"),
	}
	err := Act(target, ActOptions{Fast: true})
	require.Error(t, err)
	require.Equal(t, 1, target.evals)
	require.Equal(t, 1, target.clicks)
}
