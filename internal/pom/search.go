package pom

import (
	"fmt"
	"strings"

	"github.com/adyen/shopcheck/internal/locator"
)

// NoResultsText marks a search page without hits
const NoResultsText = "No results found."

// SearchResultsPage covers the search listing
type SearchResultsPage struct {
	*BasePage
	loc locator.SearchResults
}

// NewSearchResultsPage creates the search results page object
func NewSearchResultsPage(base *BasePage) *SearchResultsPage {
	return &SearchResultsPage{BasePage: base, loc: base.loc.SearchResults}
}

// CheckResultsExpectEmpty waits for the search alert and compares its text
func (p *SearchResultsPage) CheckResultsExpectEmpty(want string) (bool, error) {
	if _, err := p.WaitVisible(p.loc.SearchAlert); err != nil {
		return false, err
	}
	got, err := p.TextOf(p.loc.SearchAlert)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(got) == want, nil
}

// CheckResultsKnownSearchTerm returns true when no enumerated row mentions
// the term (case-insensitive). Rows are the li nodes under the first result
// item. The polarity is deliberate: the check asserts absence.
func (p *SearchResultsPage) CheckResultsKnownSearchTerm(term string) (bool, error) {
	if _, err := p.WaitVisible(p.loc.CenterColumn); err != nil {
		return false, err
	}
	rows, err := p.ChildrenByTag(p.loc.SearchItems, "li")
	if err != nil {
		return false, err
	}

	needle := strings.ToLower(term)
	for _, row := range rows {
		text, err := row.Text()
		if err != nil {
			return false, fmt.Errorf("failed to read result row: %w", err)
		}
		if strings.Contains(strings.ToLower(text), needle) {
			return false, nil
		}
	}
	return true, nil
}

// SwitchCheckToGridView switches to grid view and reports whether the list
// row marker stays absent.
func (p *SearchResultsPage) SwitchCheckToGridView() (bool, error) {
	if err := p.ClickWhenVisible(p.loc.GridView); err != nil {
		return false, err
	}
	return p.WaitDisappear(p.loc.RowView)
}

// SwitchCheckToListView switches to list view and waits for the row marker
func (p *SearchResultsPage) SwitchCheckToListView() (bool, error) {
	if err := p.ClickWhenVisible(p.loc.ListView); err != nil {
		return false, err
	}
	return p.WaitVisible(p.loc.RowView)
}

// IsResultsFound reports whether the page lacks the no-results notice
func (p *SearchResultsPage) IsResultsFound() (bool, error) {
	source, err := p.drv.PageSource()
	if err != nil {
		return false, fmt.Errorf("failed to read page source: %w", err)
	}
	return !strings.Contains(source, NoResultsText), nil
}
