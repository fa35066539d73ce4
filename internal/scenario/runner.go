package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adyen/shopcheck/internal/pom"
	"go.uber.org/zap"
)

// Status is the outcome of one step
type Status string

// Step outcomes
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusAborted Status = "aborted"
)

// Result records one step's outcome
type Result struct {
	Name     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Report is the ordered outcome of a run
type Report struct {
	Results []Result
}

// Failed reports whether any step failed or aborted
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed || res.Status == StatusAborted {
			return true
		}
	}
	return false
}

// Aborted reports whether the run ended on a fatal DOM mismatch
func (r Report) Aborted() bool {
	for _, res := range r.Results {
		if res.Status == StatusAborted {
			return true
		}
	}
	return false
}

// Err joins the errors of every failed or aborted step
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil && res.Status != StatusSkipped {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}

// Count returns the number of steps with the given status
func (r Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Summary renders one line per step followed by the totals
func (r Report) Summary() string {
	var b strings.Builder
	for _, res := range r.Results {
		fmt.Fprintf(&b, "%-8s %-30s %s", res.Status, res.Name, res.Duration.Round(time.Millisecond))
		if res.Err != nil && res.Status != StatusSkipped {
			fmt.Fprintf(&b, "  %v", res.Err)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d steps: %d passed, %d failed, %d aborted, %d skipped\n",
		len(r.Results), r.Count(StatusPassed), r.Count(StatusFailed), r.Count(StatusAborted), r.Count(StatusSkipped))
	return b.String()
}

// ErrSkipped is recorded on steps that did not run because an earlier one failed
var ErrSkipped = errors.New("skipped after earlier failure")

// Runner executes steps serially over one Env
type Runner struct {
	steps []Step
	log   *zap.Logger
	now   func() time.Time
}

// NewRunner creates a runner for the given steps
func NewRunner(steps []Step, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{steps: steps, log: logger, now: time.Now}
}

// Run executes every step in order. The first failure skips every later step
// since they build on its state. Cancelling ctx skips the steps not yet started.
func (r *Runner) Run(ctx context.Context, env *Env, state *State) Report {
	report := Report{Results: make([]Result, 0, len(r.steps))}
	var stop error

	for _, step := range r.steps {
		if stop == nil {
			stop = ctx.Err()
		}
		if stop != nil {
			report.Results = append(report.Results, Result{Name: step.Name, Status: StatusSkipped, Err: stop})
			r.log.Info("step skipped", zap.String("step", step.Name))
			continue
		}

		r.log.Info("step started", zap.String("step", step.Name))
		start := r.now()
		err := step.Run(env, state)
		res := Result{Name: step.Name, Status: StatusPassed, Err: err, Duration: r.now().Sub(start)}

		var abort *pom.AbortError
		switch {
		case errors.As(err, &abort):
			res.Status = StatusAborted
			stop = fmt.Errorf("%w: %s aborted the run", ErrSkipped, step.Name)
			r.log.Error("step aborted", zap.String("step", step.Name), zap.Duration("duration", res.Duration), zap.Error(err))
		case err != nil:
			res.Status = StatusFailed
			stop = fmt.Errorf("%w: %s", ErrSkipped, step.Name)
			r.log.Warn("step failed", zap.String("step", step.Name), zap.Duration("duration", res.Duration), zap.Error(err))
		default:
			r.log.Info("step passed", zap.String("step", step.Name), zap.Duration("duration", res.Duration))
		}
		report.Results = append(report.Results, res)
	}
	return report
}
