package scenario

import (
	"fmt"

	"github.com/adyen/shopcheck/internal/models"
	"github.com/adyen/shopcheck/internal/pom"
)

// Step is one named scenario. Steps run in order and may depend on the state
// earlier steps left behind.
type Step struct {
	Name string
	Run  func(*Env, *State) error
}

// Steps returns the storefront pipeline in execution order
func Steps() []Step {
	return []Step{
		{"page_loads", pageLoads},
		{"cart_is_empty_on_load", cartIsEmptyOnLoad},
		{"search_empty", searchEmpty},
		{"search_known_good_term", searchKnownGoodTerm},
		{"switch_to_list_view", switchToListView},
		{"switch_to_grid_view", switchToGridView},
		{"sign_on", signOn},
		{"user_validation", userValidation},
		{"sign_off", signOff},
		{"load_cart_home_page", loadCartHomePage},
		{"load_cart_page", loadCartPage},
		{"current_cart_numbers", currentCartNumbers},
		{"add_product_to_cart", addProductToCart},
		{"remove_product_from_cart", removeProductFromCart},
		{"remove_item_from_cart", removeItemFromCart},
		{"user_must_signin_to_checkout", userMustSignInToCheckout},
	}
}

// StepNames lists the pipeline order
func StepNames() []string {
	steps := Steps()
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

func pageLoads(env *Env, _ *State) error {
	if err := env.Base.Navigate(env.HomeURL); err != nil {
		return err
	}
	ok, err := env.Home.IsTitleCorrect()
	return expect(ok, err, "home page title is not %q", pom.StoreTitle)
}

func cartIsEmptyOnLoad(env *Env, _ *State) error {
	qty, err := env.Home.CartQuantity()
	if err != nil {
		return err
	}
	if qty != 0 {
		return fmt.Errorf("%w: cart badge shows %d items on load", ErrAssertion, qty)
	}
	empty, err := env.Home.CartIsEmpty()
	return expect(empty, err, "cart badge does not show %q", pom.EmptyCartMarker)
}

func searchEmpty(env *Env, _ *State) error {
	if err := env.Base.Navigate(env.CheckoutURL); err != nil {
		return err
	}
	if err := env.Home.SearchAndClick(""); err != nil {
		return err
	}
	ok, err := env.Search.CheckResultsExpectEmpty(EmptySearchAlert)
	return expect(ok, err, "empty search alert is not %q", EmptySearchAlert)
}

func searchKnownGoodTerm(env *Env, _ *State) error {
	if err := env.Base.Navigate(env.CheckoutURL); err != nil {
		return err
	}
	if err := env.Home.SearchAndClick(KnownSearchTerm); err != nil {
		return err
	}
	ok, err := env.Search.CheckResultsKnownSearchTerm(KnownSearchTerm)
	return expect(ok, err, "a result row mentions %q", KnownSearchTerm)
}

func switchToListView(env *Env, _ *State) error {
	ok, err := env.Search.SwitchCheckToListView()
	return expect(ok, err, "list view rows did not appear")
}

func switchToGridView(env *Env, _ *State) error {
	ok, err := env.Search.SwitchCheckToGridView()
	return expect(ok, err, "list view rows still showing in grid view")
}

func signOn(env *Env, _ *State) error {
	if err := env.Base.Navigate(env.HomeURL); err != nil {
		return err
	}
	ok, err := env.SignIn.ClickSignInPage()
	return expect(ok, err, "authentication page did not open")
}

func userValidation(env *Env, _ *State) error {
	return env.SignIn.CheckLoginBehavior(env.Logins)
}

func signOff(env *Env, _ *State) error {
	ok, err := env.SignIn.ClickLogout()
	return expect(ok, err, "sign-in link did not return after logout")
}

// loadCartHomePage adds every featured product once and checks the overlay
// against the expected cart after each add.
func loadCartHomePage(env *Env, state *State) error {
	if err := env.Base.Navigate(env.HomeURL); err != nil {
		return err
	}
	items, err := env.Home.ItemsList()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: no featured products on the home page", ErrAssertion)
	}

	for i, item := range items {
		name, price, err := env.Home.HoverThenClickAdd(item)
		if err != nil {
			return fmt.Errorf("featured product %d: %w", i, err)
		}
		if err := state.Cart.Add(models.LineItem{Name: name, UnitPrice: price, Quantity: 1}); err != nil {
			return fmt.Errorf("featured product %d: %w", i, err)
		}

		modal, err := pom.NewCartModal(env.Base, env.Choose)
		if err != nil {
			return err
		}
		cart := state.Cart
		checks := []struct {
			what  string
			check func() (bool, error)
		}{
			{"product name", func() (bool, error) { return modal.ConfirmProductName(name) }},
			{"product price", func() (bool, error) { return modal.ConfirmProductPrice(price) }},
			{"product quantity", func() (bool, error) { return modal.ConfirmProductQty(1) }},
			{"cart quantity", func() (bool, error) { return modal.ConfirmTotalProductQty(cart.TotalQuantity()) }},
			{"products total", func() (bool, error) { return modal.ConfirmBlockProductTotal(cart.ProductTotal()) }},
			{"shipping", func() (bool, error) { return modal.ConfirmShippingCost(cart.Shipping) }},
			{"cart total", func() (bool, error) { return modal.ConfirmCartTotal(cart.GrandTotal()) }},
		}
		for _, c := range checks {
			ok, err := c.check()
			if err := expect(ok, err, "overlay %s for %q", c.what, name); err != nil {
				return err
			}
		}

		if err := modal.Close(); err != nil {
			return err
		}
	}
	return nil
}

func loadCartPage(env *Env, _ *State) error {
	ok, err := env.Cart.ClickCartPage()
	return expect(ok, err, "cart summary did not open")
}

func currentCartNumbers(env *Env, state *State) error {
	ok, err := env.Cart.CheckCartCorrectness(state.Cart)
	return expect(ok, err, "cart totals differ from %s + %s shipping", state.Cart.ProductTotal(), state.Cart.Shipping)
}

// checkFirstRow compares a read-back first row with the expected first line
func checkFirstRow(state *State, qty int, total models.Amount) error {
	if len(state.Cart.Items) == 0 {
		return fmt.Errorf("%w: expected cart is empty", ErrAssertion)
	}
	line := state.Cart.Items[0]
	if qty != line.Quantity {
		return fmt.Errorf("%w: first row quantity %d, want %d", ErrAssertion, qty, line.Quantity)
	}
	if total != line.Total() {
		return fmt.Errorf("%w: first row total %s, want %s", ErrAssertion, total, line.Total())
	}
	return nil
}

func addProductToCart(env *Env, state *State) error {
	qty, total, err := env.Cart.AddProductItem()
	if err != nil {
		return err
	}
	if err := state.Cart.Increment(0); err != nil {
		return err
	}
	if err := checkFirstRow(state, qty, total); err != nil {
		return err
	}
	return currentCartNumbers(env, state)
}

func removeProductFromCart(env *Env, state *State) error {
	qty, total, err := env.Cart.DeleteProductItem()
	if err != nil {
		return err
	}
	if err := state.Cart.Decrement(0); err != nil {
		return err
	}
	if err := checkFirstRow(state, qty, total); err != nil {
		return err
	}
	return currentCartNumbers(env, state)
}

func removeItemFromCart(env *Env, state *State) error {
	if err := env.Cart.RemoveFirstRow(); err != nil {
		return err
	}
	if err := state.Cart.Remove(0); err != nil {
		return err
	}
	return currentCartNumbers(env, state)
}

// userMustSignInToCheckout runs signed out: checkout must detour through
// authentication and continue to the address step after signing in.
func userMustSignInToCheckout(env *Env, _ *State) error {
	if err := env.Cart.Checkout(); err != nil {
		return err
	}
	ok, err := env.SignIn.CheckAuthenticationPage()
	if err := expect(ok, err, "checkout did not ask for authentication"); err != nil {
		return err
	}
	if err := env.SignIn.FilloutAuthenticator(env.Username, env.Password); err != nil {
		return err
	}
	ok, err = env.Cart.IsAddressPage()
	return expect(ok, err, "address step did not open after signing in")
}
