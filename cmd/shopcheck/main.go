package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	internalcli "github.com/adyen/shopcheck/internal/cli"
	"github.com/adyen/shopcheck/internal/config"
	"github.com/adyen/shopcheck/internal/fixtures"
	"github.com/adyen/shopcheck/internal/locator"
	"github.com/adyen/shopcheck/internal/logging"
	"github.com/adyen/shopcheck/internal/pom"
	"github.com/adyen/shopcheck/internal/scenario"
	"github.com/adyen/shopcheck/internal/storefront"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var version = "0.1.0"

// newLogger builds the logger from LOG_* and the global flags
func newLogger(c *cli.Context) (*zap.Logger, error) {
	logConfig, err := config.LoadLogConfig(os.Getenv)
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		logConfig.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		logConfig.Format = c.String("log-format")
	}
	return logging.New(logConfig.Level, logConfig.Format)
}

// chooser maps the --close flag to the overlay dismissal policy
func chooser(name string) (pom.Chooser, error) {
	switch name {
	case "", "random":
		return pom.RandomChoice, nil
	case "cross":
		return pom.AlwaysClose, nil
	case "continue":
		return pom.AlwaysContinue, nil
	default:
		return nil, fmt.Errorf("unknown close control %q, want random, cross or continue", name)
	}
}

// applyRunFlags overrides the environment configuration with flags the user set
func applyRunFlags(c *cli.Context, cfg *config.SuiteConfig) error {
	strs := []struct {
		flag string
		dst  *string
	}{
		{"home-url", &cfg.HomeURL},
		{"checkout-url", &cfg.CheckoutURL},
		{"driver", &cfg.Driver},
		{"browser", &cfg.Browser},
		{"selenium-url", &cfg.SeleniumURL},
		{"revision", &cfg.MarkupRevision},
		{"logins", &cfg.LoginsFile},
	}
	for _, s := range strs {
		if c.IsSet(s.flag) {
			*s.dst = c.String(s.flag)
		}
	}
	if c.IsSet("headless") {
		cfg.Headless = c.Bool("headless")
	}
	if c.IsSet("wait-timeout") {
		cfg.WaitTimeout = c.Duration("wait-timeout")
	}
	return cfg.Validate()
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the storefront scenario in a browser",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "home-url", Usage: "storefront home page"},
			&cli.StringFlag{Name: "checkout-url", Usage: "page the search steps start from"},
			&cli.StringFlag{Name: "driver", Usage: "playwright or selenium"},
			&cli.StringFlag{Name: "browser", Usage: "chromium, firefox or webkit"},
			&cli.StringFlag{Name: "selenium-url", Usage: "remote WebDriver endpoint"},
			&cli.BoolFlag{Name: "headless", Usage: "run the browser without a window"},
			&cli.StringFlag{Name: "revision", Usage: "markup revision of the locator table"},
			&cli.StringFlag{Name: "logins", Usage: "login fixture file (YAML)"},
			&cli.DurationFlag{Name: "wait-timeout", Usage: "bound for element waits"},
			&cli.StringFlag{Name: "close", Value: "random", Usage: "overlay close control: random, cross or continue"},
		},
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := config.LoadSuiteConfig(os.Getenv)
			if err != nil {
				return fmt.Errorf("failed to load suite configuration: %w", err)
			}
			if err := applyRunFlags(c, cfg); err != nil {
				return err
			}
			choose, err := chooser(c.String("close"))
			if err != nil {
				return err
			}
			logins, err := internalcli.LoadLogins(cfg.LoginsFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := internalcli.RunSuite(ctx, internalcli.SuiteDependencies{
				Config: cfg,
				Logins: logins,
				Choose: choose,
				Logger: logger,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(c.App.Writer, report.Summary())
			if code := internalcli.ExitCode(report); code != internalcli.ExitPassed {
				return cli.Exit(report.Err(), code)
			}
			return nil
		},
	}
}

// buildServerDependencies wires the replica storefront
func buildServerDependencies(logger *zap.Logger) (internalcli.ServerDependencies, error) {
	var deps internalcli.ServerDependencies

	serverConfig, err := config.LoadServerConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("failed to load server configuration: %w", err)
	}
	deps.ServerConfig = serverConfig
	deps.Logger = logger

	catalog := storefront.DefaultCatalog()
	carts := storefront.NewCartService(
		storefront.NewMemorySessionStore(),
		catalog,
		storefront.Account{Email: serverConfig.Email, Password: serverConfig.Password},
		serverConfig.Shipping,
	)
	handler, err := storefront.NewHandler(catalog, carts, logger.Named("storefront"))
	if err != nil {
		return deps, fmt.Errorf("failed to create storefront handler: %w", err)
	}
	deps.StorefrontHandler = handler

	return deps, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the replica storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port, overrides PORT"},
		},
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			deps, err := buildServerDependencies(logger)
			if err != nil {
				return err
			}
			if c.IsSet("port") {
				deps.ServerConfig.Port = c.String("port")
			}

			return internalcli.RunServe(deps)
		},
	}
}

// StepsCommand returns the steps command
func StepsCommand() *cli.Command {
	return &cli.Command{
		Name:  "steps",
		Usage: "List the scenario steps in execution order",
		Action: func(c *cli.Context) error {
			for i, name := range scenario.StepNames() {
				fmt.Fprintf(c.App.Writer, "%2d %s\n", i+1, name)
			}
			return nil
		},
	}
}

// LoginsCommand returns the logins command
func LoginsCommand() *cli.Command {
	return &cli.Command{
		Name:      "logins",
		Usage:     "Validate and list a login fixture file",
		ArgsUsage: "[file]",
		Action: func(c *cli.Context) error {
			logins, err := internalcli.LoadLogins(c.Args().First())
			if err != nil {
				return err
			}
			return printLogins(c.App.Writer, logins)
		},
	}
}

func printLogins(w io.Writer, logins []fixtures.Login) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tPASSWORD\tUSE CASE\tEXPECT")
	for _, l := range logins {
		fmt.Fprintf(tw, "%q\t%q\t%s\t%s\n", l.Username, l.Password, l.UseCase, l.Expect)
	}
	return tw.Flush()
}

// LocatorsCommand returns the locators command
func LocatorsCommand() *cli.Command {
	return &cli.Command{
		Name:      "locators",
		Usage:     "Print the locator table of a markup revision",
		ArgsUsage: "[page]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "revision", Value: locator.RevisionCurrent, Usage: "one of " + strings.Join(locator.Revisions(), ", ")},
		},
		Action: func(c *cli.Context) error {
			set, err := locator.Revision(c.String("revision"))
			if err != nil {
				return err
			}
			pages := locator.Pages()
			if c.Args().Present() {
				page := locator.Page(c.Args().First())
				if set.Table(page) == nil {
					return fmt.Errorf("unknown page %q", page)
				}
				pages = []locator.Page{page}
			}
			return printLocators(c.App.Writer, set, pages)
		},
	}
}

func printLocators(w io.Writer, set locator.Set, pages []locator.Page) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tNAME\tSTRATEGY\tSELECTOR")
	for _, page := range pages {
		table := set.Table(page)
		names := make([]string, 0, len(table))
		for name := range table {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			l := table[name]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", page, name, l.Strategy, l.Selector)
		}
	}
	return tw.Flush()
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "shopcheck",
		Usage:   "End-to-end checks for a PrestaShop storefront",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "console or json"},
		},
		Commands: []*cli.Command{
			RunCommand(),
			ServeCommand(),
			StepsCommand(),
			LoginsCommand(),
			LocatorsCommand(),
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
