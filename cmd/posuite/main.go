package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/posqa/posuite/internal/api"
	"github.com/posqa/posuite/internal/bootstrap"
	"github.com/posqa/posuite/internal/browser"
	internalcli "github.com/posqa/posuite/internal/cli"
	"github.com/posqa/posuite/internal/config"
	"github.com/posqa/posuite/internal/database"
	"github.com/posqa/posuite/internal/fixtures"
	"github.com/posqa/posuite/internal/logger"
	"github.com/posqa/posuite/internal/models"
	"github.com/posqa/posuite/internal/repository"
	"github.com/posqa/posuite/internal/session"
)

var version = "0.1.0"

// buildDependencies loads the configuration and wires the command collaborators
func buildDependencies(log *slog.Logger) (internalcli.Dependencies, error) {
	var deps internalcli.Dependencies

	backendConfig, err := config.LoadBackendConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid backend configuration: %w", err)
	}
	runnerConfig, err := config.LoadRunnerConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid runner configuration: %w", err)
	}

	sessions := session.NewStore(runnerConfig.StorageDir)
	client := api.NewClient(backendConfig, sessions)
	cache := fixtures.NewCache(runnerConfig.FixturesDir, client, log)

	deps = internalcli.Dependencies{
		Backend:  backendConfig,
		Runner:   runnerConfig,
		Sessions: sessions,
		API:      client,
		Fixtures: cache,
		Out:      os.Stdout,
		Logger:   log,
	}

	deps.NewBootstrap = func() (internalcli.Bootstrapper, error) {
		bootstrapDeps := bootstrap.Dependencies{
			Auth:     client,
			Sessions: sessions,
			Fixtures: cache,
			NewLogin: func() (bootstrap.LoginDriver, error) {
				login, err := browser.OpenLoginSession(runnerConfig, backendConfig.BaseURL, log)
				if err != nil {
					return nil, err
				}
				return login, nil
			},
		}
		if database.DB != nil {
			bootstrapDeps.Recorder = repository.NewLedgerRepository()
		}

		return bootstrap.New(bootstrap.Config{
			ClientCode:  backendConfig.ClientCode,
			Username:    backendConfig.Username,
			Password:    backendConfig.Password,
			ProductIDs:  runnerConfig.ProductIDs,
			CustomerIDs: runnerConfig.CustomerIDs,
		}, bootstrapDeps, log), nil
	}

	return deps, nil
}

// connectLedger opens the run ledger when Postgres is configured
func connectLedger(log *slog.Logger) error {
	if !config.LedgerEnabled(os.Getenv) {
		log.Debug("run ledger disabled")
		return nil
	}

	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	if err != nil {
		return fmt.Errorf("invalid ledger configuration: %w", err)
	}
	if err := database.Connect(pgConfig); err != nil {
		return fmt.Errorf("failed to connect to ledger: %w", err)
	}
	if err := database.RunMigrations(database.DB, log); err != nil {
		return fmt.Errorf("failed to run ledger migrations: %w", err)
	}
	log.Info("connected to run ledger", "host", pgConfig.Host)
	return nil
}

// action wraps a command so it runs with wired dependencies and a context
// that is cancelled on SIGINT or SIGTERM
func action(log *slog.Logger, run func(ctx context.Context, deps internalcli.Dependencies, c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		deps, err := buildDependencies(log)
		if err != nil {
			return err
		}

		ctx, stop := internalcli.WithShutdown(c.Context, nil, log)
		defer stop()

		return run(ctx, deps, c)
	}
}

// SetupCommand returns the setup command
func SetupCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Sign in once and cache the session, browser state and fixtures",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "remove the stored session before signing in"},
		},
		Action: func(c *cli.Context) error {
			if err := connectLedger(log); err != nil {
				log.Warn("continuing without run ledger", "error", err)
			}
			defer database.Close()

			return action(log, func(ctx context.Context, deps internalcli.Dependencies, c *cli.Context) error {
				return internalcli.RunSetup(ctx, deps, c.Bool("force"))
			})(c)
		},
	}
}

// PrimeCommand returns the prime command
func PrimeCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "prime",
		Usage: "Refresh the product and customer fixtures with the stored session",
		Action: action(log, func(ctx context.Context, deps internalcli.Dependencies, c *cli.Context) error {
			return internalcli.RunPrime(ctx, deps)
		}),
	}
}

// CartCommand returns the cart command
func CartCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "Print the totals the POS should display for a cart",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "product", Usage: "product id", Required: true},
			&cli.Float64Flag{Name: "amount", Usage: "quantity, negative for a return", Value: 1},
			&cli.Float64Flag{Name: "discount", Usage: "percentage discount on the line"},
			&cli.IntSliceFlag{Name: "promotion", Usage: "manual promotion id, repeatable"},
		},
		Action: action(log, func(ctx context.Context, deps internalcli.Dependencies, c *cli.Context) error {
			return internalcli.RunCart(ctx, deps, internalcli.CartOptions{
				ProductID:  c.Int("product"),
				Amount:     c.Float64("amount"),
				Discount:   c.Float64("discount"),
				Promotions: c.IntSlice("promotion"),
			})
		}),
	}
}

// DocumentCommand returns the document command
func DocumentCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "document",
		Usage: "Print a sales document",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "number", Usage: "document number", Required: true},
			&cli.StringFlag{Name: "type", Usage: "document type", Value: string(models.DocumentCashInvoice)},
		},
		Action: action(log, func(ctx context.Context, deps internalcli.Dependencies, c *cli.Context) error {
			return internalcli.RunDocument(ctx, deps, c.String("number"), models.DocumentType(c.String("type")))
		}),
	}
}

// SessionCommand returns the session command
func SessionCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect the stored session",
		Subcommands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show which session files exist",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "validate", Usage: "check the session key against the backend"},
				},
				Action: action(log, func(ctx context.Context, deps internalcli.Dependencies, c *cli.Context) error {
					return internalcli.RunSessionStatus(ctx, deps, c.Bool("validate"))
				}),
			},
		},
	}
}

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	log := logger.New(logger.Options{
		Service: "posuite",
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
	})
	if envErr != nil {
		log.Warn(".env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "posuite",
		Usage:   "POS end-to-end suite tooling",
		Version: version,
		Commands: []*cli.Command{
			SetupCommand(log),
			PrimeCommand(log),
			CartCommand(log),
			DocumentCommand(log),
			SessionCommand(log),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
