// Package driver is the seam between page objects and a browser automation
// backend.
package driver

import (
	"errors"
	"sync"

	"github.com/adyen/shopcheck/internal/locator"
)

// Driver errors
var (
	ErrNoSuchElement      = errors.New("no such element")
	ErrNotInteractable    = errors.New("element not interactable")
	ErrSessionClosed      = errors.New("browser session closed")
	ErrUnsupportedLocator = errors.New("unsupported locator strategy")
)

// Element is a handle to one DOM node
type Element interface {
	Click() error
	// SendKeys appends text to the element's input
	SendKeys(text string) error
	Clear() error
	// Hover moves the pointer over the element without clicking
	Hover() error
	Text() (string, error)
	Attribute(name string) (string, error)
	IsDisplayed() (bool, error)
	FindElement(l locator.Locator) (Element, error)
	FindElements(l locator.Locator) ([]Element, error)
}

// Driver is one browser automation session
type Driver interface {
	Get(url string) error
	Title() (string, error)
	CurrentURL() (string, error)
	PageSource() (string, error)
	FindElement(l locator.Locator) (Element, error)
	FindElements(l locator.Locator) ([]Element, error)
	Quit() error
}

// Session guards a Driver so it is torn down exactly once, however many
// callers ask for it.
type Session struct {
	Driver
	once sync.Once
	err  error
	done bool
	mu   sync.Mutex
}

// NewSession wraps a driver
func NewSession(d Driver) *Session {
	return &Session{Driver: d}
}

// Quit tears the underlying driver down on the first call and returns the
// same result on every later call.
func (s *Session) Quit() error {
	s.once.Do(func() {
		s.err = s.Driver.Quit()
		s.mu.Lock()
		s.done = true
		s.mu.Unlock()
	})
	return s.err
}

// Closed reports whether Quit has run
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Get refuses to navigate once the session is closed
func (s *Session) Get(url string) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	return s.Driver.Get(url)
}

// WithSession opens a session, runs fn and always releases the session,
// including when fn fails or panics.
func WithSession(open func() (Driver, error), fn func(*Session) error) (err error) {
	d, err := open()
	if err != nil {
		return err
	}
	session := NewSession(d)
	defer func() {
		if qerr := session.Quit(); qerr != nil {
			err = errors.Join(err, qerr)
		}
	}()
	return fn(session)
}
