//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/adyen/shopcheck/internal/driver/pwdriver"
	"github.com/adyen/shopcheck/internal/fixtures"
	"github.com/adyen/shopcheck/internal/locator"
	"github.com/adyen/shopcheck/internal/pom"
	"github.com/adyen/shopcheck/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func e2eTimeouts() pom.Timeouts {
	return pom.Timeouts{
		Wait:   5 * time.Second,
		Short:  500 * time.Millisecond,
		Settle: 300 * time.Millisecond,
		Poll:   100 * time.Millisecond,
	}
}

func newEnv(t *testing.T, revision string, choose pom.Chooser) *scenario.Env {
	t.Helper()
	set, err := locator.Revision(revision)
	require.NoError(t, err)
	logins, err := fixtures.Default()
	require.NoError(t, err)

	drv := pwdriver.New(newPage(t))
	base := pom.NewBasePage(drv, set, e2eTimeouts(), zaptest.NewLogger(t))
	return scenario.NewEnv(base, scenario.Options{
		HomeURL:     shopURL + "/index.php",
		CheckoutURL: shopURL + "/index.php?controller=order",
		Logins:      logins,
		Username:    testEmail,
		Password:    testPassword,
		Choose:      choose,
	})
}

// TestScenario runs the whole pipeline against the replica storefront
// Feature: Storefront smoke test
//
//	As a shop owner
//	I want the storefront's main journeys checked in a real browser
//	So that I notice when search, sign-in or the cart break
func TestScenario(t *testing.T) {
	// Scenario: Full pipeline, closing the cart overlay both ways
	//   Given a fresh browser session on the storefront
	//   When every step runs in order
	//   Then every step passes

	tests := []struct {
		name     string
		revision string
		choose   pom.Chooser
	}{
		{name: "close with cross", revision: locator.RevisionCurrent, choose: pom.AlwaysClose},
		{name: "close with continue", revision: locator.RevisionCurrent, choose: pom.AlwaysContinue},
		{name: "legacy locators", revision: locator.RevisionLegacy, choose: pom.RandomChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, tt.revision, tt.choose)
			state := scenario.NewState(scenario.DefaultShipping)

			report := scenario.NewRunner(scenario.Steps(), zaptest.NewLogger(t)).Run(context.Background(), env, state)

			t.Log("\n" + report.Summary())
			require.NoError(t, report.Err())
			assert.Equal(t, len(scenario.Steps()), report.Count(scenario.StatusPassed))
			// five featured products added, the first row's line removed
			assert.Equal(t, 4, state.Cart.TotalQuantity())
		})
	}
}

// TestHomePage checks the landing page the pipeline starts from
func TestHomePage(t *testing.T) {
	// Scenario: Open the storefront
	//   Given I am on the home page
	//   Then the title is the store's
	//   And the header cart is empty
	//   And every featured product is listed

	env := newEnv(t, locator.RevisionCurrent, nil)
	require.NoError(t, env.Base.Navigate(env.HomeURL))

	ok, err := env.Home.IsTitleCorrect()
	require.NoError(t, err)
	assert.True(t, ok)

	qty, err := env.Home.CartQuantity()
	require.NoError(t, err)
	assert.Zero(t, qty)

	empty, err := env.Home.CartIsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	items, err := env.Home.ItemsList()
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

// TestCheckoutRequiresSignIn checks the checkout gate on its own
func TestCheckoutRequiresSignIn(t *testing.T) {
	// Scenario: Check out while signed out
	//   Given one product in the cart
	//   When I proceed to checkout
	//   Then I am asked to authenticate
	//   And signing in lands on the address step

	env := newEnv(t, locator.RevisionCurrent, pom.AlwaysClose)
	require.NoError(t, env.Base.Navigate(env.HomeURL))

	items, err := env.Home.ItemsList()
	require.NoError(t, err)
	require.NotEmpty(t, items)
	_, _, err = env.Home.HoverThenClickAdd(items[0])
	require.NoError(t, err)

	modal, err := pom.NewCartModal(env.Base, env.Choose)
	require.NoError(t, err)
	require.NoError(t, modal.Close())

	ok, err := env.Cart.ClickCartPage()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, env.Cart.Checkout())
	ok, err = env.SignIn.CheckAuthenticationPage()
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, env.SignIn.FilloutAuthenticator(testEmail, testPassword))
	ok, err = env.Cart.IsAddressPage()
	require.NoError(t, err)
	assert.True(t, ok)
}
