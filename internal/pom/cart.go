package pom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adyen/shopcheck/internal/locator"
	"github.com/adyen/shopcheck/internal/models"
	"go.uber.org/zap"
)

// CartPage covers the order summary and the checkout steps behind it
type CartPage struct {
	*BasePage
	loc locator.CartPage
}

// NewCartPage creates the cart page object
func NewCartPage(base *BasePage) *CartPage {
	return &CartPage{BasePage: base, loc: base.loc.Cart}
}

// ClickCartPage opens the cart from the header and waits for the summary table
func (p *CartPage) ClickCartPage() (bool, error) {
	if err := p.Hover(p.loc.CartLink); err != nil {
		return false, err
	}
	if err := p.ClickWhenVisible(p.loc.CartLink); err != nil {
		return false, err
	}
	return p.WaitVisible(p.loc.CartTable)
}

func (p *CartPage) amount(l locator.Locator) (models.Amount, error) {
	text, err := p.TextOf(l)
	if err != nil {
		return 0, err
	}
	return models.ParseAmount(text)
}

// CheckCartCorrectness compares the rendered totals with the expected cart.
// An empty cart must show the empty-cart notice instead of a summary.
func (p *CartPage) CheckCartCorrectness(cart models.Cart) (bool, error) {
	if cart.IsEmpty() {
		return p.WaitVisible(p.loc.EmptyCartAlert)
	}
	if _, err := p.WaitVisible(p.loc.CartTable); err != nil {
		return false, err
	}

	checks := []struct {
		name string
		at   locator.Locator
		want models.Amount
	}{
		{"product total", p.loc.TotalProduct, cart.ProductTotal()},
		{"shipping", p.loc.TotalShipping, cart.Shipping},
		{"total without tax", p.loc.TotalWithoutTax, cart.GrandTotal()},
		{"total", p.loc.TotalPrice, cart.GrandTotal()},
	}

	ok := true
	for _, c := range checks {
		got, err := p.amount(c.at)
		if err != nil {
			return false, err
		}
		if got != c.want {
			p.log.Warn("cart total mismatch",
				zap.String("field", c.name),
				zap.Stringer("want", c.want),
				zap.Stringer("got", got))
			ok = false
		}
	}
	return ok, nil
}

// FirstRow reads the quantity and line total of the first cart row
func (p *CartPage) FirstRow() (int, models.Amount, error) {
	if _, err := p.WaitVisible(p.loc.FirstRowQty); err != nil {
		return 0, 0, err
	}
	input, err := p.drv.FindElement(p.loc.FirstRowQty)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to find %s: %w", p.loc.FirstRowQty, err)
	}
	value, err := input.Attribute("value")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read quantity: %w", err)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse quantity %q: %w", value, err)
	}

	total, err := p.amount(p.loc.FirstRowTotal)
	if err != nil {
		return 0, 0, err
	}
	return qty, total, nil
}

// AddProductItem raises the first row's quantity by one and reads it back
func (p *CartPage) AddProductItem() (int, models.Amount, error) {
	if err := p.ClickWhenVisible(p.loc.FirstRowQtyUp); err != nil {
		return 0, 0, err
	}
	p.Settle()
	return p.FirstRow()
}

// DeleteProductItem lowers the first row's quantity by one and reads it back
func (p *CartPage) DeleteProductItem() (int, models.Amount, error) {
	if err := p.ClickWhenVisible(p.loc.FirstRowQtyDown); err != nil {
		return 0, 0, err
	}
	p.Settle()
	return p.FirstRow()
}

// RemoveFirstRow deletes the first cart row
func (p *CartPage) RemoveFirstRow() error {
	if err := p.ClickWhenVisible(p.loc.FirstRowDelete); err != nil {
		return err
	}
	p.Settle()
	return nil
}

// Checkout starts the checkout from the summary
func (p *CartPage) Checkout() error {
	return p.ClickWhenVisible(p.loc.ProceedToCheckout)
}

// IsAddressPage reports whether the address step of checkout is showing
func (p *CartPage) IsAddressPage() (bool, error) {
	return p.WaitVisible(p.loc.AddressDelivery)
}
