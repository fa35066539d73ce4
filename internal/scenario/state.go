// Package scenario sequences page-object calls into the storefront's
// end-to-end narrative and tracks the cart the storefront should be showing.
package scenario

import (
	"errors"
	"fmt"

	"github.com/adyen/shopcheck/internal/fixtures"
	"github.com/adyen/shopcheck/internal/models"
	"github.com/adyen/shopcheck/internal/pom"
)

// Scenario constants
const (
	DefaultShipping  models.Amount = 200
	EmptySearchAlert               = "Please enter a search keyword"
	KnownSearchTerm                = "Dress"
	DefaultUsername                = "something@something.com"
	DefaultPassword                = "something"
)

// ErrAssertion marks a step whose rendered state differs from the expected one
var ErrAssertion = errors.New("assertion failed")

// State is the expected cart, threaded through every step in order
type State struct {
	Cart models.Cart
}

// NewState starts with an empty cart and a fixed shipping cost
func NewState(shipping models.Amount) *State {
	return &State{Cart: models.NewCart(shipping)}
}

// Options configures an Env
type Options struct {
	HomeURL     string
	CheckoutURL string
	Logins      []fixtures.Login
	Username    string
	Password    string
	// Choose picks the overlay dismissal control; nil picks at random
	Choose pom.Chooser
}

// Env is everything a step may touch: the page objects over one session and
// the run's inputs.
type Env struct {
	Base   *pom.BasePage
	Home   *pom.HomePage
	Search *pom.SearchResultsPage
	SignIn *pom.SignInPage
	Cart   *pom.CartPage

	HomeURL     string
	CheckoutURL string
	Logins      []fixtures.Login
	Username    string
	Password    string
	Choose      pom.Chooser
}

// NewEnv builds the page objects over base
func NewEnv(base *pom.BasePage, opts Options) *Env {
	if opts.Username == "" {
		opts.Username = DefaultUsername
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	return &Env{
		Base:        base,
		Home:        pom.NewHomePage(base),
		Search:      pom.NewSearchResultsPage(base),
		SignIn:      pom.NewSignInPage(base),
		Cart:        pom.NewCartPage(base),
		HomeURL:     opts.HomeURL,
		CheckoutURL: opts.CheckoutURL,
		Logins:      opts.Logins,
		Username:    opts.Username,
		Password:    opts.Password,
		Choose:      opts.Choose,
	}
}

// expect turns a page-object predicate into a step error
func expect(ok bool, err error, format string, args ...any) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(format, args...))
	}
	return nil
}
