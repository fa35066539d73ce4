package pom

import (
	"errors"
	"testing"
	"time"

	"github.com/adyen/shopcheck/internal/driver"
	"github.com/adyen/shopcheck/internal/driver/drivertest"
	"github.com/adyen/shopcheck/internal/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testTimeouts() Timeouts {
	return Timeouts{
		Wait:   50 * time.Millisecond,
		Short:  20 * time.Millisecond,
		Settle: time.Millisecond,
		Poll:   time.Millisecond,
	}
}

func newTestBase(t *testing.T) (*BasePage, *drivertest.Driver) {
	t.Helper()
	drv := drivertest.NewDriver()
	return NewBasePage(drv, locator.Current(), testTimeouts(), zaptest.NewLogger(t)), drv
}

// brokenDriver fails every lookup with an error that is not a lookup miss
type brokenDriver struct {
	*drivertest.Driver
	lookups int
}

var errBroken = errors.New("connection reset")

func (d *brokenDriver) FindElement(locator.Locator) (driver.Element, error) {
	d.lookups++
	return nil, errBroken
}

func TestNewBasePage_Defaults(t *testing.T) {
	base := NewBasePage(drivertest.NewDriver(), locator.Current(), Timeouts{Wait: time.Second}, nil)

	assert.NotNil(t, base.log)
	assert.Equal(t, DefaultTimeouts().Poll, base.Timeouts().Poll)
	assert.Equal(t, time.Second, base.Timeouts().Wait)
	assert.Equal(t, locator.RevisionCurrent, base.Locators().Revision)
}

func TestClickWhenVisible(t *testing.T) {
	target := locator.ID("go")

	t.Run("visible element is clicked", func(t *testing.T) {
		// GIVEN
		base, drv := newTestBase(t)
		btn := drivertest.NewElement("go")
		drv.Document.Add(target, btn)

		// WHEN
		err := base.ClickWhenVisible(target)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 1, btn.Clicks)
	})

	t.Run("element that becomes visible is clicked", func(t *testing.T) {
		// GIVEN
		base, drv := newTestBase(t)
		btn := drivertest.NewElement("go")
		btn.VisibleAfter = 3
		drv.Document.Add(target, btn)

		// WHEN
		err := base.ClickWhenVisible(target)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, 1, btn.Clicks)
		assert.GreaterOrEqual(t, btn.Displays, 3)
	})

	t.Run("missing element times out", func(t *testing.T) {
		// GIVEN
		base, _ := newTestBase(t)

		// WHEN
		err := base.ClickWhenVisible(target)

		// THEN
		require.ErrorIs(t, err, ErrTimeout)
		var werr *WaitError
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, target, werr.Locator)
		assert.Equal(t, "visible", werr.Condition)
		assert.ErrorIs(t, werr.Last, driver.ErrNoSuchElement)
	})

	t.Run("hidden element is never clicked", func(t *testing.T) {
		// GIVEN
		base, drv := newTestBase(t)
		btn := drivertest.Hidden("go")
		drv.Document.Add(target, btn)

		// WHEN
		err := base.ClickWhenVisible(target)

		// THEN
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Zero(t, btn.Clicks)
	})
}

func TestWaitVisible_StopsOnDriverFailure(t *testing.T) {
	// GIVEN
	drv := &brokenDriver{Driver: drivertest.NewDriver()}
	base := NewBasePage(drv, locator.Current(), testTimeouts(), zaptest.NewLogger(t))

	// WHEN
	ok, err := base.WaitVisible(locator.ID("x"))

	// THEN
	assert.False(t, ok)
	assert.ErrorIs(t, err, errBroken)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, drv.lookups)
}

func TestWaitDisappear(t *testing.T) {
	target := locator.Class("row")

	t.Run("absent element", func(t *testing.T) {
		base, _ := newTestBase(t)
		gone, err := base.WaitDisappear(target)
		require.NoError(t, err)
		assert.True(t, gone)
	})

	t.Run("hidden element", func(t *testing.T) {
		base, drv := newTestBase(t)
		drv.Document.Add(target, drivertest.Hidden("row"))
		gone, err := base.WaitDisappear(target)
		require.NoError(t, err)
		assert.True(t, gone)
	})

	t.Run("visible element", func(t *testing.T) {
		base, drv := newTestBase(t)
		drv.Document.Add(target, drivertest.NewElement("row"))
		gone, err := base.WaitDisappear(target)
		require.NoError(t, err)
		assert.False(t, gone)
	})

	t.Run("driver failure", func(t *testing.T) {
		drv := &brokenDriver{Driver: drivertest.NewDriver()}
		base := NewBasePage(drv, locator.Current(), testTimeouts(), zaptest.NewLogger(t))
		gone, err := base.WaitDisappear(target)
		assert.False(t, gone)
		assert.ErrorIs(t, err, errBroken)
		assert.NotErrorIs(t, err, ErrTimeout)
		assert.Equal(t, 1, drv.lookups)
	})

	t.Run("session closed", func(t *testing.T) {
		base, drv := newTestBase(t)
		drv.Fail = map[locator.Locator]error{target: driver.ErrSessionClosed}
		gone, err := base.WaitDisappear(target)
		assert.False(t, gone)
		assert.ErrorIs(t, err, driver.ErrSessionClosed)
	})
}

func TestEnterAndClearText(t *testing.T) {
	// GIVEN
	base, drv := newTestBase(t)
	box := drivertest.NewElement("search")
	box.Value = "old"
	drv.Document.Add(locator.ID("q"), box)

	// WHEN
	require.NoError(t, base.ClearText(locator.ID("q")))
	require.NoError(t, base.EnterText(locator.ID("q"), "dress"))
	require.NoError(t, base.EnterText(locator.ID("q"), "es"))

	// THEN
	assert.Equal(t, "dresses", box.Value)
	assert.Equal(t, 1, box.Clears)
}

func TestHover(t *testing.T) {
	base, drv := newTestBase(t)
	link := drivertest.NewElement("link")
	drv.Document.Add(locator.Class("login"), link)

	require.NoError(t, base.Hover(locator.Class("login")))
	assert.Equal(t, 1, link.Hovers)
}

func TestChildrenByTag(t *testing.T) {
	// GIVEN
	base, drv := newTestBase(t)
	list := drivertest.NewElement("list").Add(locator.Tag("li"),
		drivertest.NewElement("a"),
		drivertest.NewElement("b"),
	)
	drv.Document.Add(locator.ID("homefeatured"), list)

	// WHEN
	kids, err := base.ChildrenByTag(locator.ID("homefeatured"), "li")

	// THEN
	require.NoError(t, err)
	assert.Len(t, kids, 2)

	_, err = base.ChildrenByTag(locator.ID("missing"), "li")
	assert.ErrorIs(t, err, driver.ErrNoSuchElement)
}

func TestWaitPresentOrAbort(t *testing.T) {
	target := locator.Class("ajax_add_to_cart_button")

	t.Run("hidden element counts as present", func(t *testing.T) {
		base, drv := newTestBase(t)
		drv.Document.Add(target, drivertest.Hidden("add"))

		require.NoError(t, base.WaitPresentOrAbort(target))
		assert.Zero(t, drv.Quits)
	})

	t.Run("missing element aborts the session", func(t *testing.T) {
		// GIVEN
		base, drv := newTestBase(t)

		// WHEN
		err := base.WaitPresentOrAbort(target)

		// THEN
		require.ErrorIs(t, err, ErrAborted)
		assert.ErrorIs(t, err, ErrTimeout)
		var aerr *AbortError
		require.ErrorAs(t, err, &aerr)
		assert.Equal(t, target, aerr.Locator)
		assert.Equal(t, 1, drv.Quits)
	})
}

func TestNavigateAndSettle(t *testing.T) {
	base, drv := newTestBase(t)
	var slept []time.Duration
	base.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, base.Navigate("http://shop.test/index.php"))
	base.Settle()

	assert.Equal(t, []string{"http://shop.test/index.php"}, drv.Visits)
	assert.Equal(t, []time.Duration{time.Millisecond}, slept)
}
