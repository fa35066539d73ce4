package pom

import (
	"strconv"
	"testing"

	"github.com/adyen/shopcheck/internal/driver/drivertest"
	"github.com/adyen/shopcheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCartPage renders one cart row. The quantity controls update the input
// and the row total the way the storefront does after a round trip.
type fakeCartPage struct {
	drv      *drivertest.Driver
	link     *drivertest.Element
	table    *drivertest.Element
	qty      *drivertest.Element
	rowTotal *drivertest.Element
	up       *drivertest.Element
	down     *drivertest.Element
	remove   *drivertest.Element
	totals   map[string]*drivertest.Element
}

func newFakeCartPage(t *testing.T, unit models.Amount, qty int) (*CartPage, *fakeCartPage) {
	t.Helper()
	base, drv := newTestBase(t)
	loc := base.loc.Cart

	f := &fakeCartPage{
		drv:      drv,
		link:     drivertest.NewElement("cart link"),
		table:    drivertest.NewElement("cart_summary"),
		qty:      drivertest.NewElement("qty input").WithAttr("value", strconv.Itoa(qty)),
		rowTotal: drivertest.NewElement("row total").WithText(unit.Times(qty).String()),
		up:       drivertest.NewElement("up"),
		down:     drivertest.NewElement("down"),
		remove:   drivertest.NewElement("delete"),
		totals:   map[string]*drivertest.Element{},
	}
	setQty := func(n int) {
		f.qty.Attrs["value"] = strconv.Itoa(n)
		f.rowTotal.Content = unit.Times(n).String()
	}
	f.up.OnClick = func() {
		n, _ := strconv.Atoi(f.qty.Attrs["value"])
		setQty(n + 1)
	}
	f.down.OnClick = func() {
		n, _ := strconv.Atoi(f.qty.Attrs["value"])
		setQty(n - 1)
	}
	f.remove.OnClick = func() {
		drv.Document.Remove(loc.CartTable)
		drv.Document.Add(loc.EmptyCartAlert, drivertest.NewElement("empty"))
	}

	for _, name := range []string{"product", "shipping", "no tax", "total"} {
		f.totals[name] = drivertest.NewElement(name)
	}
	drv.Document.
		Add(loc.CartLink, f.link).
		Add(loc.CartTable, f.table).
		Add(loc.FirstRowQty, f.qty).
		Add(loc.FirstRowTotal, f.rowTotal).
		Add(loc.FirstRowQtyUp, f.up).
		Add(loc.FirstRowQtyDown, f.down).
		Add(loc.FirstRowDelete, f.remove).
		Add(loc.TotalProduct, f.totals["product"]).
		Add(loc.TotalShipping, f.totals["shipping"]).
		Add(loc.TotalWithoutTax, f.totals["no tax"]).
		Add(loc.TotalPrice, f.totals["total"])
	return NewCartPage(base), f
}

func (f *fakeCartPage) render(product, shipping, total string) {
	f.totals["product"].Content = product
	f.totals["shipping"].Content = shipping
	f.totals["no tax"].Content = total
	f.totals["total"].Content = total
}

func TestClickCartPage(t *testing.T) {
	page, f := newFakeCartPage(t, 2700, 1)

	ok, err := page.ClickCartPage()

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, f.link.Hovers)
	assert.Equal(t, 1, f.link.Clicks)
}

func TestCheckCartCorrectness(t *testing.T) {
	cart := models.NewCart(200)
	require.NoError(t, cart.Add(models.LineItem{ProductID: 2, Name: "Blouse", UnitPrice: 2700, Quantity: 1}))
	require.NoError(t, cart.Add(models.LineItem{ProductID: 1, Name: "Faded Short Sleeve T-shirts", UnitPrice: 1651, Quantity: 2}))

	t.Run("matching totals", func(t *testing.T) {
		page, f := newFakeCartPage(t, 2700, 1)
		f.render("$60.02", "$2.00", "$62.02")

		ok, err := page.CheckCartCorrectness(cart)

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong shipping", func(t *testing.T) {
		page, f := newFakeCartPage(t, 2700, 1)
		f.render("$60.02", "$7.00", "$62.02")

		ok, err := page.CheckCartCorrectness(cart)

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unreadable total", func(t *testing.T) {
		page, f := newFakeCartPage(t, 2700, 1)
		f.render("$60.02", "Free shipping!", "$60.02")

		_, err := page.CheckCartCorrectness(cart)

		assert.ErrorIs(t, err, models.ErrInvalidAmount)
	})

	t.Run("empty cart shows the notice", func(t *testing.T) {
		page, f := newFakeCartPage(t, 2700, 1)
		require.NoError(t, page.RemoveFirstRow())

		ok, err := page.CheckCartCorrectness(models.NewCart(200))

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, f.remove.Clicks)
	})
}

func TestQuantityControls(t *testing.T) {
	// GIVEN
	page, _ := newFakeCartPage(t, 1651, 1)

	// WHEN
	qty, total, err := page.AddProductItem()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
	assert.Equal(t, models.Amount(3302), total)

	// WHEN
	qty, total, err = page.DeleteProductItem()

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 1, qty)
	assert.Equal(t, models.Amount(1651), total)
}

func TestCheckout(t *testing.T) {
	page, f := newFakeCartPage(t, 2700, 1)
	proceed := drivertest.NewElement("proceed")
	address := drivertest.Hidden("address_delivery")
	proceed.OnClick = func() { address.Visible = true }
	f.drv.Document.Add(page.loc.ProceedToCheckout, proceed)
	f.drv.Document.Add(page.loc.AddressDelivery, address)

	require.NoError(t, page.Checkout())
	ok, err := page.IsAddressPage()

	require.NoError(t, err)
	assert.True(t, ok)
}
