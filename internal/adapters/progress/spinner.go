package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// SpinnerProgressReporter shows a spinner while a transaction is being mined
// and prints step headers and warnings as they arrive
type SpinnerProgressReporter struct {
	spinner   *spinner.Spinner
	out       io.Writer
	stepStart time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stderr)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     out,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Spinner {
		r.spinner.Suffix = " " + event.Message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}
	r.stop()

	switch event.Stage {
	case usecase.StageNonceFilled:
		color.New(color.FgYellow).Fprintf(r.out, "⚠ %s\n", event.Message)
	case usecase.StageStepStarted:
		r.stepStart = time.Now()
		fmt.Fprintf(r.out, "%s %s\n",
			color.New(color.Faint).Sprintf("[%d/%d]", event.Current, event.Total),
			color.New(color.Bold).Sprint(event.Message))
	case usecase.StageStepCompleted:
		elapsed := time.Since(r.stepStart).Round(time.Millisecond)
		fmt.Fprintf(r.out, "  %s %s %s\n",
			color.GreenString("✓"),
			event.Message,
			color.New(color.Faint).Sprintf("(%s)", elapsed))
	case usecase.StageStepFailed:
		fmt.Fprintf(r.out, "  %s %s\n", color.RedString("✗"), event.Message)
	case usecase.StageWarning:
		color.New(color.FgYellow).Fprintf(r.out, "  ⚠ %s\n", event.Message)
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	wasActive := r.stop()
	color.New(color.FgCyan).Fprintln(r.out, message)
	if wasActive {
		r.spinner.Start()
	}
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	wasActive := r.stop()
	color.New(color.FgRed).Fprintln(r.out, message)
	if wasActive {
		r.spinner.Start()
	}
}

// stop halts the spinner and reports whether it was running
func (r *SpinnerProgressReporter) stop() bool {
	if r.spinner != nil && r.spinner.Active() {
		r.spinner.Stop()
		return true
	}
	return false
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
