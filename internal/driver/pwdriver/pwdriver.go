// Package pwdriver runs page objects on top of playwright-go.
package pwdriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adyen/shopcheck/internal/driver"
	"github.com/adyen/shopcheck/internal/locator"
	"github.com/playwright-community/playwright-go"
)

// Options configures the browser launch
type Options struct {
	// Browser is chromium, firefox or webkit
	Browser  string
	Headless bool
	SlowMo   float64
	// Install downloads the browser binaries before launching
	Install bool
}

// Driver implements driver.Driver over one Playwright page
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	owned   bool
}

// Launch starts Playwright, launches a browser and opens one page
func Launch(opts Options) (*Driver, error) {
	if opts.Install {
		if err := playwright.Install(&playwright.RunOptions{
			Browsers: []string{browserName(opts.Browser)},
		}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	var bt playwright.BrowserType
	switch browserName(opts.Browser) {
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		bt = pw.Chromium
	}

	browser, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(opts.SlowMo),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &Driver{pw: pw, browser: browser, page: page, owned: true}, nil
}

// New wraps a page whose browser lifecycle the caller manages. Quit only
// closes the page.
func New(page playwright.Page) *Driver {
	return &Driver{page: page}
}

func browserName(name string) string {
	if name == "" {
		return "chromium"
	}
	return strings.ToLower(name)
}

// Selector translates a locator into a Playwright selector
func Selector(l locator.Locator) (string, error) {
	switch l.Strategy {
	case locator.ByID:
		return fmt.Sprintf(`[id="%s"]`, l.Selector), nil
	case locator.ByClassName:
		return "." + l.Selector, nil
	case locator.ByXPath:
		return "xpath=" + l.Selector, nil
	case locator.ByTagName, locator.ByCSS:
		return l.Selector, nil
	}
	return "", fmt.Errorf("%w: %s", driver.ErrUnsupportedLocator, l.Strategy)
}

// Get navigates the page
func (d *Driver) Get(url string) error {
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Title returns the document title
func (d *Driver) Title() (string, error) {
	return d.page.Title()
}

// CurrentURL returns the page URL
func (d *Driver) CurrentURL() (string, error) {
	return d.page.URL(), nil
}

// PageSource returns the serialized document
func (d *Driver) PageSource() (string, error) {
	return d.page.Content()
}

// FindElement returns the first match in the document
func (d *Driver) FindElement(l locator.Locator) (driver.Element, error) {
	sel, err := Selector(l)
	if err != nil {
		return nil, err
	}
	return first(d.page.Locator(sel), l)
}

// FindElements returns every match in the document
func (d *Driver) FindElements(l locator.Locator) ([]driver.Element, error) {
	sel, err := Selector(l)
	if err != nil {
		return nil, err
	}
	return all(d.page.Locator(sel))
}

// Quit closes the page, and the browser and Playwright when Launch created them
func (d *Driver) Quit() error {
	var errs []error
	if d.page != nil {
		errs = append(errs, d.page.Close())
	}
	if d.owned {
		errs = append(errs, d.browser.Close(), d.pw.Stop())
	}
	return errors.Join(errs...)
}

func first(loc playwright.Locator, l locator.Locator) (driver.Element, error) {
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", driver.ErrNoSuchElement, l)
	}
	return &element{loc: loc.First()}, nil
}

func all(loc playwright.Locator) ([]driver.Element, error) {
	n, err := loc.Count()
	if err != nil {
		return nil, err
	}
	elements := make([]driver.Element, 0, n)
	for i := 0; i < n; i++ {
		elements = append(elements, &element{loc: loc.Nth(i)})
	}
	return elements, nil
}

type element struct {
	loc playwright.Locator
}

func (e *element) Click() error {
	return e.loc.Click()
}

func (e *element) SendKeys(text string) error {
	return e.loc.PressSequentially(text)
}

func (e *element) Clear() error {
	return e.loc.Clear()
}

func (e *element) Hover() error {
	return e.loc.Hover()
}

func (e *element) Text() (string, error) {
	text, err := e.loc.InnerText()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (e *element) Attribute(name string) (string, error) {
	if name == "value" {
		return e.loc.InputValue()
	}
	return e.loc.GetAttribute(name)
}

func (e *element) IsDisplayed() (bool, error) {
	return e.loc.IsVisible()
}

func (e *element) FindElement(l locator.Locator) (driver.Element, error) {
	sel, err := Selector(l)
	if err != nil {
		return nil, err
	}
	return first(e.loc.Locator(sel), l)
}

func (e *element) FindElements(l locator.Locator) ([]driver.Element, error) {
	sel, err := Selector(l)
	if err != nil {
		return nil, err
	}
	return all(e.loc.Locator(sel))
}
