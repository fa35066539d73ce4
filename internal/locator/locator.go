// Package locator holds the (strategy, selector) pairs that address the
// storefront's DOM, grouped by the page they belong to.
package locator

import "fmt"

// Strategy is how a selector string is interpreted
type Strategy string

// Lookup strategies
const (
	ByID        Strategy = "id"
	ByClassName Strategy = "class name"
	ByXPath     Strategy = "xpath"
	ByTagName   Strategy = "tag name"
	ByCSS       Strategy = "css selector"
)

// Locator identifies zero or more DOM nodes on one page
type Locator struct {
	Strategy Strategy
	Selector string
}

// ID returns an identifier lookup
func ID(id string) Locator { return Locator{Strategy: ByID, Selector: id} }

// Class returns a class-name lookup
func Class(name string) Locator { return Locator{Strategy: ByClassName, Selector: name} }

// XPath returns a path-based lookup
func XPath(expr string) Locator { return Locator{Strategy: ByXPath, Selector: expr} }

// Tag returns a tag-name lookup
func Tag(name string) Locator { return Locator{Strategy: ByTagName, Selector: name} }

// CSS returns a CSS selector lookup
func CSS(selector string) Locator { return Locator{Strategy: ByCSS, Selector: selector} }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Selector)
}

// IsZero reports whether the locator was never set
func (l Locator) IsZero() bool {
	return l.Strategy == "" && l.Selector == ""
}
