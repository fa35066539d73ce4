package pom

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/adyen/shopcheck/internal/driver"
	"github.com/adyen/shopcheck/internal/locator"
	"github.com/adyen/shopcheck/internal/models"
	"go.uber.org/zap"
)

// Chooser picks between two equivalent controls: true for the first
type Chooser func() bool

// RandomChoice flips a fair coin
func RandomChoice() bool {
	return rand.IntN(2) == 1
}

// AlwaysClose picks the close cross
func AlwaysClose() bool { return true }

// AlwaysContinue picks the continue-shopping button
func AlwaysContinue() bool { return false }

// CartModal is the confirmation overlay shown after adding a product
type CartModal struct {
	*BasePage
	loc    locator.CartModal
	modal  driver.Element
	choose Chooser
}

// NewCartModal binds to the visible overlay. A nil chooser picks at random.
func NewCartModal(base *BasePage, choose Chooser) (*CartModal, error) {
	modal, err := base.drv.FindElement(base.loc.Main.ModalConfirm)
	if err != nil {
		return nil, fmt.Errorf("failed to find cart overlay: %w", err)
	}
	if choose == nil {
		choose = RandomChoice
	}
	return &CartModal{BasePage: base, loc: base.loc.CartModal, modal: modal, choose: choose}, nil
}

func (m *CartModal) text(l locator.Locator) (string, error) {
	return textIn(m.modal, l)
}

func (m *CartModal) amount(l locator.Locator) (models.Amount, error) {
	text, err := m.text(l)
	if err != nil {
		return 0, err
	}
	return models.ParseAmount(text)
}

func (m *CartModal) number(l locator.Locator) (int, error) {
	text, err := m.text(l)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s value %q: %w", l, text, err)
	}
	return n, nil
}

// ConfirmProductName compares the product title
func (m *CartModal) ConfirmProductName(name string) (bool, error) {
	got, err := m.text(m.loc.ProductName)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(got) == name, nil
}

// ConfirmProductPrice compares the added product's price
func (m *CartModal) ConfirmProductPrice(price models.Amount) (bool, error) {
	got, err := m.amount(m.loc.ProductPrice)
	if err != nil {
		return false, err
	}
	return got == price, nil
}

// ConfirmProductQty compares the quantity just added
func (m *CartModal) ConfirmProductQty(qty int) (bool, error) {
	got, err := m.number(m.loc.ProductQty)
	if err != nil {
		return false, err
	}
	return got == qty, nil
}

// ConfirmTotalProductQty compares the running quantity of the whole cart
func (m *CartModal) ConfirmTotalProductQty(qty int) (bool, error) {
	got, err := m.number(m.loc.TotalQty)
	if err != nil {
		return false, err
	}
	return got == qty, nil
}

// ConfirmBlockProductTotal compares the products subtotal
func (m *CartModal) ConfirmBlockProductTotal(total models.Amount) (bool, error) {
	got, err := m.amount(m.loc.BlockProductTotal)
	if err != nil {
		return false, err
	}
	return got == total, nil
}

// ConfirmShippingCost compares the shipping line
func (m *CartModal) ConfirmShippingCost(shipping models.Amount) (bool, error) {
	got, err := m.amount(m.loc.ShippingCost)
	if err != nil {
		return false, err
	}
	return got == shipping, nil
}

// ConfirmCartTotal compares the grand total
func (m *CartModal) ConfirmCartTotal(total models.Amount) (bool, error) {
	got, err := m.amount(m.loc.CartTotal)
	if err != nil {
		return false, err
	}
	return got == total, nil
}

// Close dismisses the overlay with the close cross or the continue button.
// Either leaves the page in the same state.
func (m *CartModal) Close() error {
	control, name := m.loc.ContinueShopping, "continue"
	if m.choose() {
		control, name = m.loc.Close, "cross"
	}

	el, err := m.waitVisibleIn(m.modal, control, m.timeouts.Wait)
	if err != nil {
		return err
	}
	m.log.Debug("closing cart overlay", zap.String("control", name))
	if err := el.Click(); err != nil {
		return fmt.Errorf("failed to close cart overlay with %s: %w", name, err)
	}
	return nil
}
