// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/adyen/shopcheck/internal/locator"
	"github.com/adyen/shopcheck/internal/models"
)

// Driver backends
const (
	DriverPlaywright = "playwright"
	DriverSelenium   = "selenium"
)

// ErrUnknownDriver is returned for an unsupported SHOP_DRIVER value
var ErrUnknownDriver = errors.New("unknown driver")

// SuiteConfig holds everything the end-to-end run needs
type SuiteConfig struct {
	HomeURL     string
	CheckoutURL string

	Driver      string
	Browser     string
	SeleniumURL string
	Headless    bool

	WaitTimeout  time.Duration
	ShortTimeout time.Duration
	SettleDelay  time.Duration
	PollInterval time.Duration

	MarkupRevision string
	LoginsFile     string
	Username       string
	Password       string
	Shipping       models.Amount
}

// DefaultSuiteConfig points at the public practice storefront
func DefaultSuiteConfig() SuiteConfig {
	return SuiteConfig{
		HomeURL:        "http://automationpractice.com/index.php",
		CheckoutURL:    "http://automationpractice.com/index.php?controller=order",
		Driver:         DriverPlaywright,
		Browser:        "chromium",
		SeleniumURL:    "http://localhost:4444/wd/hub",
		Headless:       true,
		WaitTimeout:    10 * time.Second,
		ShortTimeout:   1 * time.Second,
		SettleDelay:    1 * time.Second,
		PollInterval:   500 * time.Millisecond,
		MarkupRevision: locator.RevisionCurrent,
		Username:       "something@something.com",
		Password:       "something",
		Shipping:       200,
	}
}

// LoadSuiteConfig overlays environment variables on DefaultSuiteConfig
func LoadSuiteConfig(getenv func(string) string) (*SuiteConfig, error) {
	config := DefaultSuiteConfig()

	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("SHOP_HOME_URL", &config.HomeURL)
	str("SHOP_CHECKOUT_URL", &config.CheckoutURL)
	str("SHOP_DRIVER", &config.Driver)
	str("SHOP_BROWSER", &config.Browser)
	str("SELENIUM_URL", &config.SeleniumURL)
	str("SHOP_MARKUP_REVISION", &config.MarkupRevision)
	str("SHOP_LOGINS_FILE", &config.LoginsFile)
	str("SHOP_USERNAME", &config.Username)
	str("SHOP_PASSWORD", &config.Password)

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS: %w", err)
		}
		config.Headless = headless
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SHOP_WAIT_TIMEOUT", &config.WaitTimeout},
		{"SHOP_SHORT_TIMEOUT", &config.ShortTimeout},
		{"SHOP_SETTLE_DELAY", &config.SettleDelay},
		{"SHOP_POLL_INTERVAL", &config.PollInterval},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v := getenv("SHOP_SHIPPING_COST"); v != "" {
		shipping, err := models.ParseAmount(v)
		if err != nil {
			return nil, fmt.Errorf("SHOP_SHIPPING_COST: %w", err)
		}
		config.Shipping = shipping
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that flags may also have set
func (c *SuiteConfig) Validate() error {
	if c.HomeURL == "" {
		return fmt.Errorf("SHOP_HOME_URL is required")
	}
	if c.CheckoutURL == "" {
		return fmt.Errorf("SHOP_CHECKOUT_URL is required")
	}
	switch c.Driver {
	case DriverPlaywright, DriverSelenium:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	if _, err := locator.Revision(c.MarkupRevision); err != nil {
		return err
	}
	for name, d := range map[string]time.Duration{
		"SHOP_WAIT_TIMEOUT":  c.WaitTimeout,
		"SHOP_SHORT_TIMEOUT": c.ShortTimeout,
		"SHOP_POLL_INTERVAL": c.PollInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("SHOP_SETTLE_DELAY must not be negative, got %s", c.SettleDelay)
	}
	if c.Shipping < 0 {
		return fmt.Errorf("SHOP_SHIPPING_COST must not be negative, got %s", c.Shipping)
	}
	return nil
}
