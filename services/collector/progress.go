package collector

import (
	"fmt"
	"io"
	"time"

	"statshub-collector/lib/scrapers/statshub/catalog"

	"github.com/jedib0t/go-pretty/v6/progress"
)

const reporterStopDeadline = time.Second * 2

// Reporter renders live per-position progress. Rendering happens on its own
// goroutine and the collection loop only pokes tracker state, so a stuck
// terminal can never stall a scan.
type Reporter struct {
	writer  progress.Writer
	label   string
	tracker *progress.Tracker
}

func NewReporter(out io.Writer) *Reporter {
	writer := progress.NewWriter()
	writer.SetOutputWriter(out)
	writer.SetAutoStop(false)
	writer.SetTrackerLength(24)
	writer.SetMessageLength(42)
	writer.SetUpdateFrequency(time.Millisecond * 100)
	writer.Style().Visibility.ETA = false
	writer.Style().Visibility.Value = true
	return &Reporter{writer: writer}
}

// StartPass begins a tracker for one team and stat pass over the position
// catalog. Finished trackers stay on screen above the active one.
func (r *Reporter) StartPass(label string, total int) {
	tracker := &progress.Tracker{
		Message: label,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	r.label = label
	r.tracker = tracker
	r.writer.AppendTracker(tracker)
	if !r.writer.IsRenderInProgress() {
		go r.writer.Render()
	}
}

// Step records one scanned position on the active tracker.
func (r *Reporter) Step(pos catalog.Position) {
	if r.tracker == nil {
		return
	}
	r.tracker.UpdateMessage(fmt.Sprintf("%s [%s]", r.label, pos))
	r.tracker.Increment(1)
}

// FinishPass marks the active tracker done and restores its label.
func (r *Reporter) FinishPass() {
	if r.tracker == nil {
		return
	}
	r.tracker.UpdateMessage(r.label)
	r.tracker.MarkAsDone()
	r.tracker = nil
}

// Stop tears the renderer down. It waits only up to reporterStopDeadline
// for the final frame, the collection result never hinges on a terminal.
func (r *Reporter) Stop() {
	if r.tracker != nil {
		r.tracker.MarkAsErrored()
		r.tracker = nil
	}
	r.writer.Stop()

	deadline := time.Now().Add(reporterStopDeadline)
	for r.writer.IsRenderInProgress() {
		if time.Now().After(deadline) {
			return
		}
		time.Sleep(time.Millisecond * 10)
	}
}
