package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/posqa/posuite/internal/api"
	"github.com/posqa/posuite/internal/bootstrap"
	"github.com/posqa/posuite/internal/config"
	"github.com/posqa/posuite/internal/models"
	"github.com/posqa/posuite/internal/oracle"
)

// ErrNoSession is returned by commands that need a bootstrapped account
var ErrNoSession = errors.New("no stored session, run setup first")

// SessionStore is the part of the session store the commands use
type SessionStore interface {
	HasValidSession(clientCode string) (bool, error)
	LoadSession(clientCode string) (string, error)
	StatePath(clientCode string) string
	Remove(clientCode string) error
}

// Backend is the part of the API client the commands use
type Backend interface {
	GetCustomers(ctx context.Context, customerID int) ([]json.RawMessage, error)
	CalculateShoppingCart(ctx context.Context, cart models.CartSpec) (*models.CartResult, error)
	GetSalesDocument(ctx context.Context, number string, docType models.DocumentType) (*models.SalesDocument, error)
}

// Bootstrapper runs the account bootstrap
type Bootstrapper interface {
	Run(ctx context.Context) (*bootstrap.Result, error)
}

// Dependencies holds everything the commands need
type Dependencies struct {
	Backend  *config.BackendConfig
	Runner   *config.RunnerConfig
	Sessions SessionStore
	API      Backend
	Fixtures bootstrap.FixturePrimer
	// NewBootstrap builds the orchestrator lazily so read-only commands
	// never launch a browser.
	NewBootstrap func() (Bootstrapper, error)
	Out          io.Writer
	Logger       *slog.Logger
}

// RunSetup bootstraps the account. With force, the stored session and
// browser state are removed first so the login is repeated.
func RunSetup(ctx context.Context, deps Dependencies, force bool) error {
	if force {
		if err := deps.Sessions.Remove(deps.Backend.ClientCode); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
		deps.Logger.Info("removed stored session", "client_code", deps.Backend.ClientCode)
	}

	orchestrator, err := deps.NewBootstrap()
	if err != nil {
		return fmt.Errorf("failed to build bootstrap: %w", err)
	}

	result, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Fprintf(deps.Out, "storage state %s already exists, nothing to do\n",
			deps.Sessions.StatePath(deps.Backend.ClientCode))
		return nil
	}
	fmt.Fprintf(deps.Out, "bootstrap ready: %d products, %d customers cached\n", result.Products, result.Customers)
	return nil
}

// RunPrime refreshes the fixture cache using the stored session
func RunPrime(ctx context.Context, deps Dependencies) error {
	if err := requireSession(deps); err != nil {
		return err
	}

	products, err := deps.Fixtures.PrimeProducts(ctx, deps.Runner.ProductIDs)
	if err != nil {
		return fmt.Errorf("failed to prime products: %w", err)
	}
	customers, err := deps.Fixtures.PrimeCustomers(ctx, deps.Runner.CustomerIDs)
	if err != nil {
		return fmt.Errorf("failed to prime customers: %w", err)
	}

	fmt.Fprintf(deps.Out, "cached %d products, %d customers\n", products, customers)
	return nil
}

// CartOptions describes the cart computed by the cart command
type CartOptions struct {
	ProductID  int
	Amount     float64
	Discount   float64
	Promotions []int
}

// RunCart prints the totals the POS should display for a cart
func RunCart(ctx context.Context, deps Dependencies, opts CartOptions) error {
	cart := models.NewCart(opts.ProductID, opts.Amount)
	if opts.Discount != 0 {
		cart = cart.WithDiscount(0, opts.Discount)
	}
	if len(opts.Promotions) > 0 {
		cart = cart.WithPromotions(opts.Promotions...)
	}

	result, err := deps.API.CalculateShoppingCart(ctx, cart)
	if err != nil {
		return err
	}

	totals := oracle.Expected(result)
	fmt.Fprintf(deps.Out, "total:     %s\n", totals.Total)
	fmt.Fprintf(deps.Out, "net total: %s\n", totals.NetTotal)
	fmt.Fprintf(deps.Out, "vat total: %s\n", totals.VatTotal)
	return nil
}

// RunDocument prints a sales document as JSON
func RunDocument(ctx context.Context, deps Dependencies, number string, docType models.DocumentType) error {
	if number == "" {
		return errors.New("document number is required")
	}

	doc, err := deps.API.GetSalesDocument(ctx, number, docType)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(deps.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// RunSessionStatus reports the stored session of the configured client.
// With validate, the session key is checked with a cheap backend call.
func RunSessionStatus(ctx context.Context, deps Dependencies, validate bool) error {
	clientCode := deps.Backend.ClientCode

	hasState, err := deps.Sessions.HasValidSession(clientCode)
	if err != nil {
		return err
	}
	_, keyErr := deps.Sessions.LoadSession(clientCode)

	fmt.Fprintf(deps.Out, "client:        %s\n", clientCode)
	fmt.Fprintf(deps.Out, "browser state: %s\n", presence(hasState))
	fmt.Fprintf(deps.Out, "session key:   %s\n", presence(keyErr == nil))

	if !validate {
		return nil
	}
	if keyErr != nil {
		return ErrNoSession
	}

	customerID := 0
	if len(deps.Runner.CustomerIDs) > 0 {
		customerID = deps.Runner.CustomerIDs[0]
	}
	_, err = deps.API.GetCustomers(ctx, customerID)
	switch {
	case err == nil:
		fmt.Fprintln(deps.Out, "backend:       session accepted")
		return nil
	case errors.Is(err, api.ErrAuthentication):
		fmt.Fprintln(deps.Out, "backend:       session rejected")
		return fmt.Errorf("stored session is no longer valid, run setup --force: %w", err)
	default:
		return err
	}
}

func requireSession(deps Dependencies) error {
	if _, err := deps.Sessions.LoadSession(deps.Backend.ClientCode); err != nil {
		deps.Logger.Debug("session lookup failed", "error", err)
		return ErrNoSession
	}
	return nil
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}
