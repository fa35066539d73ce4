// Package seldriver runs page objects against a remote WebDriver server
// through tebeka/selenium.
package seldriver

import (
	"errors"
	"fmt"

	"github.com/adyen/shopcheck/internal/driver"
	"github.com/adyen/shopcheck/internal/locator"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
)

// Options configures the remote session
type Options struct {
	// URL of the WebDriver endpoint, e.g. http://localhost:4444/wd/hub
	URL      string
	Browser  string
	Headless bool
}

// Driver implements driver.Driver over a selenium.WebDriver
type Driver struct {
	wd selenium.WebDriver
}

// Dial opens a remote WebDriver session
func Dial(opts Options) (*Driver, error) {
	wd, err := selenium.NewRemote(Capabilities(opts), opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open webdriver session at %s: %w", opts.URL, err)
	}
	return New(wd), nil
}

// New wraps an existing WebDriver session
func New(wd selenium.WebDriver) *Driver {
	return &Driver{wd: wd}
}

// Capabilities builds the session capabilities for a browser
func Capabilities(opts Options) selenium.Capabilities {
	switch opts.Browser {
	case "firefox":
		caps := selenium.Capabilities{"browserName": "firefox"}
		ff := firefox.Capabilities{}
		if opts.Headless {
			ff.Args = append(ff.Args, "-headless")
		}
		caps.AddFirefox(ff)
		return caps
	default:
		caps := selenium.Capabilities{"browserName": "chrome"}
		ch := chrome.Capabilities{}
		if opts.Headless {
			ch.Args = append(ch.Args, "--headless=new", "--window-size=1280,720")
		}
		caps.AddChrome(ch)
		return caps
	}
}

// By translates a locator strategy into a WebDriver "using" value
func By(l locator.Locator) (string, error) {
	switch l.Strategy {
	case locator.ByID:
		return selenium.ByID, nil
	case locator.ByClassName:
		return selenium.ByClassName, nil
	case locator.ByXPath:
		return selenium.ByXPATH, nil
	case locator.ByTagName:
		return selenium.ByTagName, nil
	case locator.ByCSS:
		return selenium.ByCSSSelector, nil
	}
	return "", fmt.Errorf("%w: %s", driver.ErrUnsupportedLocator, l.Strategy)
}

// translate maps WebDriver protocol errors onto driver errors
func translate(err error, l locator.Locator) error {
	if err == nil {
		return nil
	}
	var werr *selenium.Error
	if errors.As(err, &werr) {
		switch werr.Err {
		case "no such element", "stale element reference":
			return fmt.Errorf("%w: %s", driver.ErrNoSuchElement, l)
		case "element not interactable", "element click intercepted":
			return fmt.Errorf("%w: %s", driver.ErrNotInteractable, l)
		case "invalid session id":
			return driver.ErrSessionClosed
		}
	}
	return err
}

func (d *Driver) Get(url string) error {
	if err := d.wd.Get(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (d *Driver) Title() (string, error) {
	return d.wd.Title()
}

func (d *Driver) CurrentURL() (string, error) {
	return d.wd.CurrentURL()
}

func (d *Driver) PageSource() (string, error) {
	return d.wd.PageSource()
}

func (d *Driver) FindElement(l locator.Locator) (driver.Element, error) {
	by, err := By(l)
	if err != nil {
		return nil, err
	}
	we, err := d.wd.FindElement(by, l.Selector)
	if err != nil {
		return nil, translate(err, l)
	}
	return &element{we: we, wd: d.wd, loc: l}, nil
}

func (d *Driver) FindElements(l locator.Locator) ([]driver.Element, error) {
	by, err := By(l)
	if err != nil {
		return nil, err
	}
	wes, err := d.wd.FindElements(by, l.Selector)
	if err != nil {
		return nil, translate(err, l)
	}
	return wrap(wes, d.wd, l), nil
}

func (d *Driver) Quit() error {
	return d.wd.Quit()
}

func wrap(wes []selenium.WebElement, wd selenium.WebDriver, l locator.Locator) []driver.Element {
	elements := make([]driver.Element, 0, len(wes))
	for _, we := range wes {
		elements = append(elements, &element{we: we, wd: wd, loc: l})
	}
	return elements
}

type element struct {
	we  selenium.WebElement
	wd  selenium.WebDriver
	loc locator.Locator
}

func (e *element) Click() error {
	return translate(e.we.Click(), e.loc)
}

func (e *element) SendKeys(text string) error {
	return translate(e.we.SendKeys(text), e.loc)
}

func (e *element) Clear() error {
	return translate(e.we.Clear(), e.loc)
}

// hoverScript raises the pointer events a real hover fires. The storefront
// theme reveals product buttons on mouseenter as well as :hover.
const hoverScript = `var el = arguments[0];
el.scrollIntoView({block: "center"});
var r = el.getBoundingClientRect();
var at = {bubbles: true, cancelable: true, view: window, clientX: r.left + r.width / 2, clientY: r.top + r.height / 2};
el.dispatchEvent(new MouseEvent("mouseover", at));
el.dispatchEvent(new MouseEvent("mouseenter", Object.assign({}, at, {bubbles: false})));
el.dispatchEvent(new MouseEvent("mousemove", at));`

// Hover moves the pointer with the legacy moveto command. W3C-only remotes
// such as geckodriver and Selenium 4 reject it, so those get the pointer
// events from a script instead.
func (e *element) Hover() error {
	err := e.we.MoveTo(0, 0)
	if !unknownCommand(err) {
		return translate(err, e.loc)
	}
	if _, err := e.wd.ExecuteScript(hoverScript, []interface{}{e.we}); err != nil {
		return translate(err, e.loc)
	}
	return nil
}

// unknownCommand reports whether the remote does not implement an endpoint
func unknownCommand(err error) bool {
	var werr *selenium.Error
	if !errors.As(err, &werr) {
		return false
	}
	switch werr.Err {
	case "unknown command", "unknown method", "unsupported operation":
		return true
	}
	return false
}

func (e *element) Text() (string, error) {
	text, err := e.we.Text()
	return text, translate(err, e.loc)
}

func (e *element) Attribute(name string) (string, error) {
	value, err := e.we.GetAttribute(name)
	return value, translate(err, e.loc)
}

func (e *element) IsDisplayed() (bool, error) {
	shown, err := e.we.IsDisplayed()
	return shown, translate(err, e.loc)
}

func (e *element) FindElement(l locator.Locator) (driver.Element, error) {
	by, err := By(l)
	if err != nil {
		return nil, err
	}
	we, err := e.we.FindElement(by, l.Selector)
	if err != nil {
		return nil, translate(err, l)
	}
	return &element{we: we, wd: e.wd, loc: l}, nil
}

func (e *element) FindElements(l locator.Locator) ([]driver.Element, error) {
	by, err := By(l)
	if err != nil {
		return nil, err
	}
	wes, err := e.we.FindElements(by, l.Selector)
	if err != nil {
		return nil, translate(err, l)
	}
	return wrap(wes, e.wd, l), nil
}
