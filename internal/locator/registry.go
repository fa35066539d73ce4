package locator

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownRevision is returned for a markup revision with no locator table
var ErrUnknownRevision = errors.New("unknown markup revision")

// Markup revisions of the storefront
const (
	RevisionLegacy  = "legacy"
	RevisionCurrent = "current"
)

// Page names a logical browser view
type Page string

// Pages with a locator table
const (
	PageMain          Page = "main"
	PageCartModal     Page = "cart_modal"
	PageSearchResults Page = "search_results"
	PageSignIn        Page = "sign_in"
	PageCart          Page = "cart"
)

// MainPage locators for the home page
type MainPage struct {
	Title          Locator
	CartItems      Locator
	CartQuantity   Locator
	CartNoQuantity Locator
	BlockProduct   Locator
	AddItemButton  Locator
	ItemPrice      Locator
	ItemName       Locator
	ModalConfirm   Locator
	SearchTextbox  Locator
	SearchSubmit   Locator
}

// CartModal locators, resolved inside the confirmation overlay
type CartModal struct {
	ProductName       Locator
	ProductPrice      Locator
	ProductQty        Locator
	TotalQty          Locator
	BlockProductTotal Locator
	ShippingCost      Locator
	CartTotal         Locator
	ContinueShopping  Locator
	Close             Locator
}

// SearchResults locators
type SearchResults struct {
	GridView     Locator
	ListView     Locator
	CenterColumn Locator
	SearchItems  Locator
	SearchAlert  Locator
	RowView      Locator
}

// SignIn locators for the authentication and account pages
type SignIn struct {
	SignInLink     Locator
	AuthHeading    Locator
	Email          Locator
	Password       Locator
	Submit         Locator
	Alert          Locator
	AccountHeading Locator
	WelcomeInfo    Locator
	Logout         Locator
}

// CartPage locators for the order summary and checkout steps
type CartPage struct {
	CartLink          Locator
	CartTable         Locator
	TotalProduct      Locator
	TotalShipping     Locator
	TotalWithoutTax   Locator
	TotalPrice        Locator
	FirstRowQtyUp     Locator
	FirstRowQtyDown   Locator
	FirstRowDelete    Locator
	FirstRowQty       Locator
	FirstRowTotal     Locator
	EmptyCartAlert    Locator
	ProceedToCheckout Locator
	AddressDelivery   Locator
}

// Set is every page table for one markup revision
type Set struct {
	Revision      string
	Main          MainPage
	CartModal     CartModal
	SearchResults SearchResults
	SignIn        SignIn
	Cart          CartPage
}

func current() Set {
	return Set{
		Revision: RevisionCurrent,
		Main: MainPage{
			Title:          XPath("/html/head/title"),
			CartItems:      ID("homefeatured"),
			CartQuantity:   XPath(`//*[@id="header"]//div[@class="shopping_cart"]/a/span[1]`),
			CartNoQuantity: Class("ajax_cart_no_product"),
			BlockProduct:   Class("ajax_block_product"),
			AddItemButton:  Class("ajax_add_to_cart_button"),
			ItemPrice:      Class("price"),
			ItemName:       Class("replace-2x"),
			ModalConfirm:   ID("layer_cart"),
			SearchTextbox:  XPath(`//*[@id="search_query_top"]`),
			SearchSubmit:   XPath(`//*[@id="searchbox"]/button`),
		},
		CartModal: CartModal{
			ProductName:       ID("layer_cart_product_title"),
			ProductPrice:      ID("layer_cart_product_price"),
			ProductQty:        ID("layer_cart_product_quantity"),
			TotalQty:          Class("ajax_cart_quantity"),
			BlockProductTotal: Class("ajax_block_products_total"),
			ShippingCost:      Class("ajax_cart_shipping_cost"),
			CartTotal:         Class("ajax_block_cart_total"),
			ContinueShopping:  Class("continue"),
			Close:             Class("cross"),
		},
		SearchResults: SearchResults{
			GridView:     XPath(`//*[@id="grid"]/a/i`),
			ListView:     XPath(`//*[@id="list"]/a/i`),
			CenterColumn: XPath(`//*[@id="center_column"]/ul`),
			SearchItems:  XPath(`//*[@id="center_column"]/ul/li`),
			SearchAlert:  XPath(`//*[@id="center_column"]/p`),
			RowView:      Class("row"),
		},
		SignIn: SignIn{
			SignInLink:     Class("login"),
			AuthHeading:    XPath(`//*[@id="center_column"]/h1`),
			Email:          ID("email"),
			Password:       ID("passwd"),
			Submit:         ID("SubmitLogin"),
			Alert:          XPath(`//*[@id="center_column"]/div[1]/ol/li`),
			AccountHeading: XPath(`//*[@id="center_column"]/h1`),
			WelcomeInfo:    Class("info-account"),
			Logout:         Class("logout"),
		},
		Cart: CartPage{
			CartLink:          XPath(`//*[@id="header"]//div[@class="shopping_cart"]/a`),
			CartTable:         XPath(`//*[@id="cart_summary"]`),
			TotalProduct:      ID("total_product"),
			TotalShipping:     ID("total_shipping"),
			TotalWithoutTax:   ID("total_price_without_tax"),
			TotalPrice:        ID("total_price"),
			FirstRowQtyUp:     XPath(`//*[@id="cart_summary"]/tbody/tr[1]//a[contains(@class,"cart_quantity_up")]`),
			FirstRowQtyDown:   XPath(`//*[@id="cart_summary"]/tbody/tr[1]//a[contains(@class,"cart_quantity_down")]`),
			FirstRowDelete:    XPath(`//*[@id="cart_summary"]/tbody/tr[1]//a[contains(@class,"cart_quantity_delete")]`),
			FirstRowQty:       XPath(`//*[@id="cart_summary"]/tbody/tr[1]//input[contains(@class,"cart_quantity_input")]`),
			FirstRowTotal:     XPath(`//*[@id="cart_summary"]/tbody/tr[1]/td[contains(@class,"cart_total")]/span`),
			EmptyCartAlert:    XPath(`//*[@id="center_column"]/p[contains(@class,"alert-warning")]`),
			ProceedToCheckout: XPath(`//*[@id="center_column"]//a[contains(@class,"standard-checkout")]`),
			AddressDelivery:   ID("address_delivery"),
		},
	}
}

// legacy is the first generation of the table. The header quantity badge was
// still addressable by class before the header markup was restructured.
func legacy() Set {
	s := current()
	s.Revision = RevisionLegacy
	s.Main.CartQuantity = Class("ajax_cart_quantity")
	return s
}

var revisions = map[string]func() Set{
	RevisionLegacy:  legacy,
	RevisionCurrent: current,
}

// Current returns the table for the markup the storefront serves today
func Current() Set {
	return current()
}

// Revision returns the locator table for a named markup revision
func Revision(name string) (Set, error) {
	build, ok := revisions[name]
	if !ok {
		return Set{}, fmt.Errorf("%w: %q", ErrUnknownRevision, name)
	}
	return build(), nil
}

// Revisions lists known revision names in sorted order
func Revisions() []string {
	names := make([]string, 0, len(revisions))
	for name := range revisions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pages lists every page with a locator table
func Pages() []Page {
	return []Page{PageMain, PageCartModal, PageSearchResults, PageSignIn, PageCart}
}

// Table returns a page's locators keyed by logical name
func (s Set) Table(page Page) map[string]Locator {
	switch page {
	case PageMain:
		m := s.Main
		return map[string]Locator{
			"TITLE":            m.Title,
			"CART_ITEMS":       m.CartItems,
			"CART_QUANTITY":    m.CartQuantity,
			"CART_NO_QUANTITY": m.CartNoQuantity,
			"BLOCK_PRODUCT":    m.BlockProduct,
			"ADD_ITEM_BTN":     m.AddItemButton,
			"ITEM_PRICE":       m.ItemPrice,
			"ITEM_NAME":        m.ItemName,
			"MODAL_CONFIRM":    m.ModalConfirm,
			"SEARCH_TEXTBOX":   m.SearchTextbox,
			"SEARCH_SUBMIT":    m.SearchSubmit,
		}
	case PageCartModal:
		m := s.CartModal
		return map[string]Locator{
			"CART_PROD_NAME":   m.ProductName,
			"CART_PROD_PRICE":  m.ProductPrice,
			"CART_PROD_QTY":    m.ProductQty,
			"TOTAL_QTY":        m.TotalQty,
			"BLOCK_PROD_TOTAL": m.BlockProductTotal,
			"SHIPPING_COST":    m.ShippingCost,
			"CART_TOTAL":       m.CartTotal,
			"CONT_SHOPPING":    m.ContinueShopping,
			"CLOSE_MODAL":      m.Close,
		}
	case PageSearchResults:
		r := s.SearchResults
		return map[string]Locator{
			"GRID_VIEW":            r.GridView,
			"LIST_VIEW":            r.ListView,
			"CENTER_COLUMN":        r.CenterColumn,
			"LIST_OF_SEARCH_ITEMS": r.SearchItems,
			"SEARCH_ALERT":         r.SearchAlert,
			"ROW_VIEW":             r.RowView,
		}
	case PageSignIn:
		p := s.SignIn
		return map[string]Locator{
			"SIGN_IN":         p.SignInLink,
			"AUTH_HEADING":    p.AuthHeading,
			"EMAIL":           p.Email,
			"PASSWORD":        p.Password,
			"SUBMIT_LOGIN":    p.Submit,
			"ALERT":           p.Alert,
			"ACCOUNT_HEADING": p.AccountHeading,
			"WELCOME_INFO":    p.WelcomeInfo,
			"LOGOUT":          p.Logout,
		}
	case PageCart:
		c := s.Cart
		return map[string]Locator{
			"CART_LINK":           c.CartLink,
			"CART_TABLE":          c.CartTable,
			"TOTAL_PRODUCT":       c.TotalProduct,
			"TOTAL_SHIPPING":      c.TotalShipping,
			"TOTAL_WITHOUT_TAX":   c.TotalWithoutTax,
			"TOTAL_PRICE":         c.TotalPrice,
			"QTY_UP":              c.FirstRowQtyUp,
			"QTY_DOWN":            c.FirstRowQtyDown,
			"QTY_DELETE":          c.FirstRowDelete,
			"QTY_INPUT":           c.FirstRowQty,
			"ROW_TOTAL":           c.FirstRowTotal,
			"EMPTY_CART_ALERT":    c.EmptyCartAlert,
			"PROCEED_TO_CHECKOUT": c.ProceedToCheckout,
			"ADDRESS_DELIVERY":    c.AddressDelivery,
		}
	}
	return nil
}

// Lookup finds one locator by page and logical name
func (s Set) Lookup(page Page, name string) (Locator, bool) {
	l, ok := s.Table(page)[name]
	return l, ok
}
