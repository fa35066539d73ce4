package pom

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/adyen/shopcheck/internal/driver"
	"github.com/adyen/shopcheck/internal/locator"
	"github.com/adyen/shopcheck/internal/models"
	"go.uber.org/zap"
)

// StoreTitle is the document title of the storefront home page
const StoreTitle = "My Store"

// EmptyCartMarker is the header badge text for an empty cart
const EmptyCartMarker = "(empty)"

// ErrPriceFormat is returned when a product price cannot be read
var ErrPriceFormat = errors.New("price text does not start with $<units>.<cents>")

// Discounted products render "$16.40 $20.50 -20%"; only the leading price counts.
var firstPrice = regexp.MustCompile(`^\$(?P<price>\d+\.\d{2})`)

// ParseFirstPrice extracts the first dollar amount at the start of a price text
func ParseFirstPrice(text string) (models.Amount, error) {
	m := firstPrice.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrPriceFormat, text)
	}
	return models.ParseAmount(m[firstPrice.SubexpIndex("price")])
}

// HomePage covers the landing page: featured products, header cart badge and
// the search box.
type HomePage struct {
	*BasePage
	loc locator.MainPage
}

// NewHomePage creates the home page object
func NewHomePage(base *BasePage) *HomePage {
	return &HomePage{BasePage: base, loc: base.loc.Main}
}

// IsTitleCorrect reports whether the document title is the store's
func (p *HomePage) IsTitleCorrect() (bool, error) {
	title, err := p.drv.Title()
	if err != nil {
		return false, fmt.Errorf("failed to read title: %w", err)
	}
	return title == StoreTitle, nil
}

// ItemsList waits for the featured block and returns its product nodes
func (p *HomePage) ItemsList() ([]driver.Element, error) {
	if _, err := p.WaitVisible(p.loc.CartItems); err != nil {
		return nil, err
	}
	return p.ChildrenByTag(p.loc.CartItems, "li")
}

// CartQuantity reads the header badge count. A blank badge reads as zero.
func (p *HomePage) CartQuantity() (int, error) {
	text, err := p.TextOf(p.loc.CartQuantity)
	if err != nil {
		return 0, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("failed to parse cart quantity %q: %w", text, err)
	}
	return n, nil
}

// CartIsEmpty reports whether the header badge shows the empty marker
func (p *HomePage) CartIsEmpty() (bool, error) {
	text, err := p.TextOf(p.loc.CartNoQuantity)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(text) == EmptyCartMarker, nil
}

// SearchAndClick replaces the search box text and submits
func (p *HomePage) SearchAndClick(text string) error {
	if err := p.ClearText(p.loc.SearchTextbox); err != nil {
		return err
	}
	if err := p.EnterText(p.loc.SearchTextbox, text); err != nil {
		return err
	}
	return p.ClickWhenVisible(p.loc.SearchSubmit)
}

// HoverThenClickAdd hovers a featured product until its add-to-cart control
// renders, reads the product name and first price, clicks add and waits for
// the confirmation overlay.
func (p *HomePage) HoverThenClickAdd(item driver.Element) (string, models.Amount, error) {
	if err := item.Hover(); err != nil {
		return "", 0, fmt.Errorf("failed to hover product: %w", err)
	}

	addButton, err := p.waitVisibleIn(item, p.loc.AddItemButton, p.timeouts.Wait)
	if err != nil {
		return "", 0, err
	}
	if err := p.WaitPresentOrAbort(p.loc.AddItemButton); err != nil {
		return "", 0, err
	}

	priceText, err := textIn(item, p.loc.ItemPrice)
	if err != nil {
		return "", 0, err
	}
	price, err := ParseFirstPrice(priceText)
	if err != nil {
		return "", 0, err
	}

	image, err := item.FindElement(p.loc.ItemName)
	if err != nil {
		return "", 0, fmt.Errorf("failed to find %s: %w", p.loc.ItemName, err)
	}
	name, err := image.Attribute("title")
	if err != nil {
		return "", 0, fmt.Errorf("failed to read product title: %w", err)
	}

	if err := addButton.Hover(); err != nil {
		return "", 0, fmt.Errorf("failed to hover add to cart: %w", err)
	}
	if err := addButton.Click(); err != nil {
		return "", 0, fmt.Errorf("failed to click add to cart: %w", err)
	}
	if _, err := p.WaitVisible(p.loc.ModalConfirm); err != nil {
		return "", 0, err
	}

	p.log.Info("added product to cart", zap.String("name", name), zap.Stringer("price", price))
	return name, price, nil
}
