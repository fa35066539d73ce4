package cli

import (
	"context"
	"fmt"

	"github.com/adyen/shopcheck/internal/config"
	"github.com/adyen/shopcheck/internal/driver"
	"github.com/adyen/shopcheck/internal/driver/pwdriver"
	"github.com/adyen/shopcheck/internal/driver/seldriver"
	"github.com/adyen/shopcheck/internal/fixtures"
	"github.com/adyen/shopcheck/internal/locator"
	"github.com/adyen/shopcheck/internal/pom"
	"github.com/adyen/shopcheck/internal/scenario"
	"go.uber.org/zap"
)

// Exit codes of the run command
const (
	ExitPassed  = 0
	ExitFailed  = 1
	ExitAborted = 2
)

// SuiteDependencies holds everything needed to run the pipeline once
type SuiteDependencies struct {
	Config *config.SuiteConfig
	Logins []fixtures.Login
	// Open starts the browser session; OpenDriver builds one from Config
	Open   func() (driver.Driver, error)
	Steps  []scenario.Step
	Choose pom.Chooser
	Logger *zap.Logger
}

// OpenDriver returns an opener for the backend the config names
func OpenDriver(cfg *config.SuiteConfig) func() (driver.Driver, error) {
	return func() (driver.Driver, error) {
		switch cfg.Driver {
		case config.DriverSelenium:
			return seldriver.Dial(seldriver.Options{
				URL:      cfg.SeleniumURL,
				Browser:  cfg.Browser,
				Headless: cfg.Headless,
			})
		case config.DriverPlaywright:
			return pwdriver.Launch(pwdriver.Options{
				Browser:  cfg.Browser,
				Headless: cfg.Headless,
			})
		default:
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
		}
	}
}

// LoadLogins reads the fixture file at path, or the bundled fixtures when
// path is empty.
func LoadLogins(path string) ([]fixtures.Login, error) {
	if path == "" {
		return fixtures.Default()
	}
	return fixtures.LoadLogins(path)
}

// Timeouts converts the configured waits for the page objects
func Timeouts(cfg *config.SuiteConfig) pom.Timeouts {
	return pom.Timeouts{
		Wait:   cfg.WaitTimeout,
		Short:  cfg.ShortTimeout,
		Settle: cfg.SettleDelay,
		Poll:   cfg.PollInterval,
	}
}

// RunSuite opens one browser session, runs the steps over it and always
// releases the session. The returned error covers setup and teardown only;
// step outcomes are in the report.
func RunSuite(ctx context.Context, deps SuiteDependencies) (scenario.Report, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := deps.Config

	set, err := locator.Revision(cfg.MarkupRevision)
	if err != nil {
		return scenario.Report{}, err
	}
	steps := deps.Steps
	if steps == nil {
		steps = scenario.Steps()
	}
	open := deps.Open
	if open == nil {
		open = OpenDriver(cfg)
	}

	var report scenario.Report
	err = driver.WithSession(open, func(session *driver.Session) error {
		log.Info("browser session opened",
			zap.String("driver", cfg.Driver),
			zap.String("browser", cfg.Browser),
			zap.String("revision", set.Revision))

		base := pom.NewBasePage(session, set, Timeouts(cfg), log.Named("pom"))
		env := scenario.NewEnv(base, scenario.Options{
			HomeURL:     cfg.HomeURL,
			CheckoutURL: cfg.CheckoutURL,
			Logins:      deps.Logins,
			Username:    cfg.Username,
			Password:    cfg.Password,
			Choose:      deps.Choose,
		})
		report = scenario.NewRunner(steps, log.Named("runner")).Run(ctx, env, scenario.NewState(cfg.Shipping))
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to run browser session: %w", err)
	}

	log.Info("run finished", zap.String("summary", report.Summary()))
	return report, nil
}

// ExitCode maps a report to the process exit status
func ExitCode(report scenario.Report) int {
	switch {
	case report.Aborted():
		return ExitAborted
	case report.Failed():
		return ExitFailed
	default:
		return ExitPassed
	}
}
