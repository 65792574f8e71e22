package collector

import (
	"io"
	"testing"
	"time"

	"statshub-collector/lib/scrapers/statshub/catalog"

	"github.com/stretchr/testify/require"
)

func TestReporterLifecycle(t *testing.T) {
	reporter := NewReporter(io.Discard)

	reporter.StartPass("Leeds / Tackles", len(catalog.Positions))
	for _, pos := range catalog.Positions {
		reporter.Step(pos)
	}
	reporter.FinishPass()

	started := time.Now()
	reporter.Stop()
	require.Less(t, time.Since(started), reporterStopDeadline+time.Second)
}

func TestReporterStopWithActiveTracker(t *testing.T) {
	reporter := NewReporter(io.Discard)
	reporter.StartPass("Leeds / Tackles", len(catalog.Positions))
	reporter.Step(catalog.GK)

	// an interrupted pass must not hang teardown
	started := time.Now()
	reporter.Stop()
	require.Less(t, time.Since(started), reporterStopDeadline+time.Second)
}

func TestReporterStepWithoutPass(t *testing.T) {
	reporter := NewReporter(io.Discard)
	reporter.Step(catalog.GK)
	reporter.FinishPass()
	reporter.Stop()
}
