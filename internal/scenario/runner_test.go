package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/adyen/shopcheck/internal/locator"
	"github.com/adyen/shopcheck/internal/pom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func recordingStep(name string, ran *[]string, err error) Step {
	return Step{Name: name, Run: func(*Env, *State) error {
		*ran = append(*ran, name)
		return err
	}}
}

func statuses(r Report) []Status {
	out := make([]Status, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Status
	}
	return out
}

func TestRunner_AllPass(t *testing.T) {
	// GIVEN
	var ran []string
	steps := []Step{
		recordingStep("one", &ran, nil),
		recordingStep("two", &ran, nil),
	}

	// WHEN
	report := NewRunner(steps, zaptest.NewLogger(t)).Run(context.Background(), &Env{}, NewState(DefaultShipping))

	// THEN
	assert.Equal(t, []string{"one", "two"}, ran)
	assert.Equal(t, []Status{StatusPassed, StatusPassed}, statuses(report))
	assert.False(t, report.Failed())
	assert.NoError(t, report.Err())
}

func TestRunner_FailureSkipsLaterSteps(t *testing.T) {
	// GIVEN
	var ran []string
	boom := fmt.Errorf("%w: total mismatch", ErrAssertion)
	steps := []Step{
		recordingStep("one", &ran, nil),
		recordingStep("two", &ran, boom),
		recordingStep("three", &ran, nil),
	}

	// WHEN
	report := NewRunner(steps, zaptest.NewLogger(t)).Run(context.Background(), &Env{}, NewState(DefaultShipping))

	// THEN
	assert.Equal(t, []string{"one", "two"}, ran)
	assert.Equal(t, []Status{StatusPassed, StatusFailed, StatusSkipped}, statuses(report))
	assert.True(t, report.Failed())
	assert.False(t, report.Aborted())
	assert.ErrorIs(t, report.Err(), ErrAssertion)
	assert.ErrorIs(t, report.Results[2].Err, ErrSkipped)
}

func TestRunner_AbortEndsRun(t *testing.T) {
	// GIVEN
	var ran []string
	abort := &pom.AbortError{Locator: locator.Class("ajax_add_to_cart_button"), Cause: pom.ErrTimeout}
	steps := []Step{
		recordingStep("add", &ran, fmt.Errorf("featured product 0: %w", abort)),
		recordingStep("cart", &ran, nil),
	}

	// WHEN
	report := NewRunner(steps, zaptest.NewLogger(t)).Run(context.Background(), &Env{}, NewState(DefaultShipping))

	// THEN
	assert.Equal(t, []string{"add"}, ran)
	assert.Equal(t, []Status{StatusAborted, StatusSkipped}, statuses(report))
	assert.True(t, report.Aborted())
	assert.ErrorIs(t, report.Err(), pom.ErrAborted)
}

func TestRunner_Cancelled(t *testing.T) {
	var ran []string
	ctx, cancel := context.WithCancel(context.Background())
	steps := []Step{
		{Name: "one", Run: func(*Env, *State) error {
			ran = append(ran, "one")
			cancel()
			return nil
		}},
		recordingStep("two", &ran, nil),
	}

	report := NewRunner(steps, nil).Run(ctx, &Env{}, NewState(DefaultShipping))

	assert.Equal(t, []string{"one"}, ran)
	assert.Equal(t, []Status{StatusPassed, StatusSkipped}, statuses(report))
	assert.ErrorIs(t, report.Results[1].Err, context.Canceled)
	assert.False(t, report.Failed())
}

func TestRunner_StateIsThreaded(t *testing.T) {
	steps := []Step{
		{Name: "add", Run: func(_ *Env, s *State) error {
			return s.Cart.Increment(0)
		}},
		{Name: "check", Run: func(_ *Env, s *State) error {
			if s.Cart.TotalQuantity() != 2 {
				return errors.New("increment lost")
			}
			return nil
		}},
	}
	state := NewState(DefaultShipping)
	state.Cart.Items = append(state.Cart.Items, lineFor("Blouse", 2700))

	report := NewRunner(steps, nil).Run(context.Background(), &Env{}, state)

	require.NoError(t, report.Err())
}

func TestReport_Summary(t *testing.T) {
	report := Report{Results: []Result{
		{Name: "page_loads", Status: StatusPassed},
		{Name: "cart_is_empty_on_load", Status: StatusFailed, Err: errors.New("badge shows 1")},
		{Name: "search_empty", Status: StatusSkipped, Err: ErrSkipped},
	}}

	summary := report.Summary()

	assert.Contains(t, summary, "badge shows 1")
	assert.NotContains(t, summary, ErrSkipped.Error())
	assert.True(t, strings.HasSuffix(summary, "3 steps: 1 passed, 1 failed, 0 aborted, 1 skipped\n"))
}
