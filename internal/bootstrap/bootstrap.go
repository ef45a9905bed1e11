// Package bootstrap prepares a POS account for a scenario run: it signs in
// once, caches the session and the browser state, and primes the product
// and customer fixtures.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/posqa/posuite/internal/models"
)

// Step names a stage of the bootstrap
type Step string

// Bootstrap steps in execution order
const (
	StepCheckExistingState  Step = "check existing state"
	StepAuthenticate        Step = "authenticate"
	StepInteractiveLogin    Step = "interactive login"
	StepPrimeProducts       Step = "prime products"
	StepPrimeCustomers      Step = "prime customers"
	StepPersistBrowserState Step = "persist browser state"
)

// Authenticator exchanges credentials for a session key
type Authenticator interface {
	VerifyUser(ctx context.Context, username, password string) (string, error)
}

// SessionStore persists the session key and the browser state
type SessionStore interface {
	HasValidSession(clientCode string) (bool, error)
	SaveSession(clientCode, sessionKey string) error
	SaveBrowserState(clientCode string, state []byte) error
}

// LoginDriver signs in through the POS login form
type LoginDriver interface {
	Login(ctx context.Context, clientCode, username, password string) error
	StorageState() ([]byte, error)
	Close() error
}

// FixturePrimer fetches and caches the reference data
type FixturePrimer interface {
	PrimeProducts(ctx context.Context, ids []int) (int, error)
	PrimeCustomers(ctx context.Context, ids []int) (int, error)
}

// RunRecorder keeps bootstrap runs in the ledger
type RunRecorder interface {
	CreateRun(ctx context.Context, run *models.BootstrapRun) error
	FinishRun(ctx context.Context, run *models.BootstrapRun) error
}

// Config is what the orchestrator needs to know about the account
type Config struct {
	ClientCode  string
	Username    string
	Password    string
	ProductIDs  []int
	CustomerIDs []int
}

// Dependencies are the collaborators of the orchestrator. NewLogin opens
// the browser only when a login is actually needed. Recorder may be nil.
type Dependencies struct {
	Auth     Authenticator
	Sessions SessionStore
	NewLogin func() (LoginDriver, error)
	Fixtures FixturePrimer
	Recorder RunRecorder
}

// Result describes a finished bootstrap
type Result struct {
	Run       *models.BootstrapRun
	Skipped   bool
	Products  int
	Customers int
}

// Orchestrator sequences the bootstrap steps. Every failure aborts the run.
type Orchestrator struct {
	cfg    Config
	deps   Dependencies
	logger *slog.Logger
}

// New creates an orchestrator
func New(cfg Config, deps Dependencies, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With("component", "bootstrap", "client_code", cfg.ClientCode),
	}
}

// StepError reports the step a bootstrap failed in
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("bootstrap: %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Run executes the bootstrap. When a stored browser state exists for the
// client it returns immediately without contacting the backend.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	run, err := models.NewBootstrapRun(o.cfg.ClientCode)
	if err != nil {
		return nil, &StepError{Step: StepCheckExistingState, Err: err}
	}
	o.record(ctx, run, true)

	result, err := o.run(ctx)
	if err != nil {
		run.Fail(err)
		o.logger.Error("bootstrap failed", "run_id", run.ID, "error", err)
	} else if result.Skipped {
		run.Skip()
	} else {
		run.Ready(result.Products, result.Customers)
	}
	o.record(ctx, run, false)

	if err != nil {
		return &Result{Run: run}, err
	}
	result.Run = run
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context) (*Result, error) {
	o.step(StepCheckExistingState)
	exists, err := o.deps.Sessions.HasValidSession(o.cfg.ClientCode)
	if err != nil {
		return nil, &StepError{Step: StepCheckExistingState, Err: err}
	}
	if exists {
		o.logger.Info("storage state already exists, skipping authentication")
		return &Result{Skipped: true}, nil
	}

	o.step(StepAuthenticate)
	sessionKey, err := o.deps.Auth.VerifyUser(ctx, o.cfg.Username, o.cfg.Password)
	if err != nil {
		return nil, &StepError{Step: StepAuthenticate, Err: err}
	}
	if err := o.deps.Sessions.SaveSession(o.cfg.ClientCode, sessionKey); err != nil {
		return nil, &StepError{Step: StepAuthenticate, Err: err}
	}

	o.step(StepInteractiveLogin)
	login, err := o.deps.NewLogin()
	if err != nil {
		return nil, &StepError{Step: StepInteractiveLogin, Err: err}
	}
	defer func() {
		if err := login.Close(); err != nil {
			o.logger.Warn("could not close login browser", "error", err)
		}
	}()
	if err := login.Login(ctx, o.cfg.ClientCode, o.cfg.Username, o.cfg.Password); err != nil {
		return nil, &StepError{Step: StepInteractiveLogin, Err: err}
	}

	result := &Result{}

	o.step(StepPrimeProducts)
	if result.Products, err = o.deps.Fixtures.PrimeProducts(ctx, o.cfg.ProductIDs); err != nil {
		return nil, &StepError{Step: StepPrimeProducts, Err: err}
	}

	o.step(StepPrimeCustomers)
	if result.Customers, err = o.deps.Fixtures.PrimeCustomers(ctx, o.cfg.CustomerIDs); err != nil {
		return nil, &StepError{Step: StepPrimeCustomers, Err: err}
	}

	o.step(StepPersistBrowserState)
	state, err := login.StorageState()
	if err != nil {
		return nil, &StepError{Step: StepPersistBrowserState, Err: err}
	}
	if err := o.deps.Sessions.SaveBrowserState(o.cfg.ClientCode, state); err != nil {
		return nil, &StepError{Step: StepPersistBrowserState, Err: err}
	}

	o.logger.Info("bootstrap ready", "products", result.Products, "customers", result.Customers)
	return result, nil
}

func (o *Orchestrator) step(s Step) {
	o.logger.Info("bootstrap step", "step", string(s))
}

// record writes the run to the ledger. Ledger failures are only logged.
func (o *Orchestrator) record(ctx context.Context, run *models.BootstrapRun, start bool) {
	if o.deps.Recorder == nil {
		return
	}
	var err error
	if start {
		err = o.deps.Recorder.CreateRun(ctx, run)
	} else {
		err = o.deps.Recorder.FinishRun(ctx, run)
	}
	if err != nil {
		o.logger.Warn("could not record bootstrap run", "run_id", run.ID, "error", err)
	}
}
