// Package drivertest provides an in-memory DOM that satisfies the driver
// interfaces for unit tests.
package drivertest

import (
	"fmt"

	"github.com/adyen/shopcheck/internal/driver"
	"github.com/adyen/shopcheck/internal/locator"
)

// Element is a fake DOM node. Lookups match child registrations by exact
// locator, so tests build the tree with the same locators page objects use.
type Element struct {
	Name    string
	Content string
	Value   string
	Attrs   map[string]string
	Visible bool
	// VisibleAfter makes the element report visible only from the Nth
	// IsDisplayed call on, to exercise polling.
	VisibleAfter int

	OnClick func()
	OnHover func()

	Clicks   int
	Hovers   int
	Clears   int
	Displays int

	children map[locator.Locator][]*Element
}

// NewElement creates a visible element
func NewElement(name string) *Element {
	return &Element{Name: name, Visible: true, Attrs: map[string]string{}}
}

// Hidden creates an element that is present but not visible
func Hidden(name string) *Element {
	e := NewElement(name)
	e.Visible = false
	return e
}

// WithText sets the rendered text
func (e *Element) WithText(text string) *Element {
	e.Content = text
	return e
}

// WithAttr sets an attribute
func (e *Element) WithAttr(name, value string) *Element {
	e.Attrs[name] = value
	return e
}

// Add registers children reachable from e through l
func (e *Element) Add(l locator.Locator, children ...*Element) *Element {
	if e.children == nil {
		e.children = map[locator.Locator][]*Element{}
	}
	e.children[l] = append(e.children[l], children...)
	return e
}

// Set replaces the children reachable through l
func (e *Element) Set(l locator.Locator, children ...*Element) *Element {
	if e.children == nil {
		e.children = map[locator.Locator][]*Element{}
	}
	e.children[l] = children
	return e
}

// Remove drops every child reachable through l
func (e *Element) Remove(l locator.Locator) {
	delete(e.children, l)
}

func (e *Element) Click() error {
	if !e.Visible {
		return fmt.Errorf("%w: %s", driver.ErrNotInteractable, e.Name)
	}
	e.Clicks++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) SendKeys(text string) error {
	if !e.Visible {
		return fmt.Errorf("%w: %s", driver.ErrNotInteractable, e.Name)
	}
	e.Value += text
	return nil
}

func (e *Element) Clear() error {
	e.Clears++
	e.Value = ""
	return nil
}

func (e *Element) Hover() error {
	e.Hovers++
	if e.OnHover != nil {
		e.OnHover()
	}
	return nil
}

func (e *Element) Text() (string, error) {
	return e.Content, nil
}

func (e *Element) Attribute(name string) (string, error) {
	if name == "value" {
		if v, ok := e.Attrs["value"]; ok && e.Value == "" {
			return v, nil
		}
		return e.Value, nil
	}
	return e.Attrs[name], nil
}

func (e *Element) IsDisplayed() (bool, error) {
	e.Displays++
	if e.VisibleAfter > 0 {
		return e.Displays >= e.VisibleAfter, nil
	}
	return e.Visible, nil
}

func (e *Element) FindElement(l locator.Locator) (driver.Element, error) {
	found := e.children[l]
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", driver.ErrNoSuchElement, l)
	}
	return found[0], nil
}

func (e *Element) FindElements(l locator.Locator) ([]driver.Element, error) {
	found := e.children[l]
	out := make([]driver.Element, 0, len(found))
	for _, child := range found {
		out = append(out, child)
	}
	return out, nil
}

// Driver is a fake browser session over a Document root
type Driver struct {
	Document  *Element
	TitleText string
	URL       string
	Source    string
	Visits    []string
	Quits     int
	// OnGet runs after every navigation, e.g. to swap the document
	OnGet func(url string)
	// Fail makes lookups of a locator from the document root return the
	// mapped error instead of searching
	Fail map[locator.Locator]error
}

// NewDriver creates a driver with an empty document
func NewDriver() *Driver {
	return &Driver{Document: NewElement("document")}
}

func (d *Driver) Get(url string) error {
	d.URL = url
	d.Visits = append(d.Visits, url)
	if d.OnGet != nil {
		d.OnGet(url)
	}
	return nil
}

func (d *Driver) Title() (string, error) {
	return d.TitleText, nil
}

func (d *Driver) CurrentURL() (string, error) {
	return d.URL, nil
}

func (d *Driver) PageSource() (string, error) {
	return d.Source, nil
}

func (d *Driver) FindElement(l locator.Locator) (driver.Element, error) {
	if err := d.Fail[l]; err != nil {
		return nil, err
	}
	return d.Document.FindElement(l)
}

func (d *Driver) FindElements(l locator.Locator) ([]driver.Element, error) {
	if err := d.Fail[l]; err != nil {
		return nil, err
	}
	return d.Document.FindElements(l)
}

func (d *Driver) Quit() error {
	d.Quits++
	return nil
}
