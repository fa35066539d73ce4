// Package pom implements the page-object layer: polling element primitives
// on BasePage and one page object per storefront view.
package pom

import (
	"errors"
	"fmt"
	"time"

	"github.com/adyen/shopcheck/internal/driver"
	"github.com/adyen/shopcheck/internal/locator"
	"go.uber.org/zap"
)

// Wait errors
var (
	ErrTimeout = errors.New("timed out waiting for element")
	ErrAborted = errors.New("session aborted")
)

// WaitError reports an element that did not reach a condition in time
type WaitError struct {
	Locator   locator.Locator
	Condition string
	Timeout   time.Duration
	Last      error
}

func (e *WaitError) Error() string {
	msg := fmt.Sprintf("element %s not %s after %s", e.Locator, e.Condition, e.Timeout)
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

func (e *WaitError) Unwrap() error { return ErrTimeout }

// AbortError is an unrecoverable DOM-shape mismatch. The session has already
// been torn down when it is returned.
type AbortError struct {
	Locator locator.Locator
	Cause   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("element not found within given time, session aborted: %s: %v", e.Locator, e.Cause)
}

func (e *AbortError) Unwrap() []error { return []error{ErrAborted, e.Cause} }

// Timeouts bounds every wait
type Timeouts struct {
	// Wait bounds visibility and presence waits
	Wait time.Duration
	// Short bounds WaitDisappear
	Short time.Duration
	// Settle is the pause after a cart mutation
	Settle time.Duration
	// Poll is the pause between lookups while a wait is pending
	Poll time.Duration
}

// DefaultTimeouts mirrors the storefront suite's fixed bounds
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Wait:   10 * time.Second,
		Short:  1 * time.Second,
		Settle: 1 * time.Second,
		Poll:   500 * time.Millisecond,
	}
}

// BasePage holds the session, locator table and waits shared by page objects
type BasePage struct {
	drv      driver.Driver
	loc      locator.Set
	timeouts Timeouts
	log      *zap.Logger
	sleep    func(time.Duration)
}

// NewBasePage creates the primitives for one session
func NewBasePage(drv driver.Driver, loc locator.Set, timeouts Timeouts, logger *zap.Logger) *BasePage {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeouts.Poll <= 0 {
		timeouts.Poll = DefaultTimeouts().Poll
	}
	return &BasePage{
		drv:      drv,
		loc:      loc,
		timeouts: timeouts,
		log:      logger,
		sleep:    time.Sleep,
	}
}

// Driver returns the underlying session
func (b *BasePage) Driver() driver.Driver { return b.drv }

// Locators returns the active locator table
func (b *BasePage) Locators() locator.Set { return b.loc }

// Timeouts returns the configured bounds
func (b *BasePage) Timeouts() Timeouts { return b.timeouts }

// Navigate loads a URL in the session
func (b *BasePage) Navigate(url string) error {
	b.log.Debug("navigate", zap.String("url", url))
	return b.drv.Get(url)
}

// Settle pauses for the DOM to catch up after a mutation
func (b *BasePage) Settle() {
	b.sleep(b.timeouts.Settle)
}

type finder interface {
	FindElement(l locator.Locator) (driver.Element, error)
}

// poll probes until it reports done or the timeout elapses. Lookups that
// find nothing yet keep polling; any other driver error ends the wait.
func (b *BasePage) poll(timeout time.Duration, probe func() (driver.Element, bool, error)) (driver.Element, error) {
	deadline := time.Now().Add(timeout)
	var last error
	for {
		el, done, err := probe()
		switch {
		case err == nil && done:
			return el, nil
		case err != nil && !errors.Is(err, driver.ErrNoSuchElement) && !errors.Is(err, driver.ErrNotInteractable):
			return nil, err
		}
		last = err
		if !time.Now().Before(deadline) {
			return nil, errTimeout{last: last}
		}
		b.sleep(b.timeouts.Poll)
	}
}

type errTimeout struct{ last error }

func (e errTimeout) Error() string { return "timeout" }

func (b *BasePage) waitVisibleIn(scope finder, l locator.Locator, timeout time.Duration) (driver.Element, error) {
	el, err := b.poll(timeout, func() (driver.Element, bool, error) {
		el, err := scope.FindElement(l)
		if err != nil {
			return nil, false, err
		}
		shown, err := el.IsDisplayed()
		if err != nil {
			return nil, false, err
		}
		return el, shown, nil
	})
	var te errTimeout
	if errors.As(err, &te) {
		return nil, &WaitError{Locator: l, Condition: "visible", Timeout: timeout, Last: te.last}
	}
	return el, err
}

func (b *BasePage) waitVisible(l locator.Locator) (driver.Element, error) {
	b.log.Debug("wait visible", zap.Stringer("locator", l))
	return b.waitVisibleIn(b.drv, l, b.timeouts.Wait)
}

// ClickWhenVisible waits for the element to become visible, then clicks it
func (b *BasePage) ClickWhenVisible(l locator.Locator) error {
	el, err := b.waitVisible(l)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("failed to click %s: %w", l, err)
	}
	return nil
}

// WaitVisible returns true once the element is visible. On timeout it
// returns false and the *WaitError.
func (b *BasePage) WaitVisible(l locator.Locator) (bool, error) {
	if _, err := b.waitVisible(l); err != nil {
		return false, err
	}
	return true, nil
}

// WaitDisappear returns true when the element does not become visible within
// the short bound and false when it does. An element that shows up and then
// vanishes inside the bound still counts as visible. Driver failures other
// than a lookup miss are returned rather than read as absence.
func (b *BasePage) WaitDisappear(l locator.Locator) (bool, error) {
	_, err := b.waitVisibleIn(b.drv, l, b.timeouts.Short)
	switch {
	case err == nil:
		b.log.Debug("wait disappear", zap.Stringer("locator", l), zap.Bool("absent", false))
		return false, nil
	case errors.Is(err, ErrTimeout):
		b.log.Debug("wait disappear", zap.Stringer("locator", l), zap.Bool("absent", true))
		return true, nil
	default:
		return false, fmt.Errorf("failed to wait for %s to disappear: %w", l, err)
	}
}

// EnterText waits for the element and appends text to its input
func (b *BasePage) EnterText(l locator.Locator, text string) error {
	el, err := b.waitVisible(l)
	if err != nil {
		return err
	}
	if err := el.SendKeys(text); err != nil {
		return fmt.Errorf("failed to type into %s: %w", l, err)
	}
	return nil
}

// ClearText waits for the element and clears its input
func (b *BasePage) ClearText(l locator.Locator) error {
	el, err := b.waitVisible(l)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", l, err)
	}
	return nil
}

// Hover waits for the element and moves the pointer over it
func (b *BasePage) Hover(l locator.Locator) error {
	el, err := b.waitVisible(l)
	if err != nil {
		return err
	}
	if err := el.Hover(); err != nil {
		return fmt.Errorf("failed to hover %s: %w", l, err)
	}
	return nil
}

// ChildrenByTag returns the descendants of the located node with the given
// tag. It does not wait.
func (b *BasePage) ChildrenByTag(l locator.Locator, tag string) ([]driver.Element, error) {
	parent, err := b.drv.FindElement(l)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", l, err)
	}
	children, err := parent.FindElements(locator.Tag(tag))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s children of %s: %w", tag, l, err)
	}
	return children, nil
}

// WaitPresentOrAbort waits for the element to exist, visible or not. When it
// does not appear the session is torn down and an *AbortError is returned.
func (b *BasePage) WaitPresentOrAbort(l locator.Locator) error {
	_, err := b.poll(b.timeouts.Wait, func() (driver.Element, bool, error) {
		el, err := b.drv.FindElement(l)
		return el, err == nil, err
	})
	if err == nil {
		return nil
	}

	var te errTimeout
	if errors.As(err, &te) {
		err = &WaitError{Locator: l, Condition: "present", Timeout: b.timeouts.Wait, Last: te.last}
	}
	b.log.Error("element not found within given time, quitting session", zap.Stringer("locator", l), zap.Error(err))
	if qerr := b.drv.Quit(); qerr != nil {
		b.log.Warn("session teardown failed", zap.Error(qerr))
	}
	return &AbortError{Locator: l, Cause: err}
}

// TextOf returns the text of the first element matching l, without waiting
func (b *BasePage) TextOf(l locator.Locator) (string, error) {
	return textIn(b.drv, l)
}

func textIn(scope finder, l locator.Locator) (string, error) {
	el, err := scope.FindElement(l)
	if err != nil {
		return "", fmt.Errorf("failed to find %s: %w", l, err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", l, err)
	}
	return text, nil
}
