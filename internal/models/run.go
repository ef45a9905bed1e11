package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunOutcome is the terminal state of a bootstrap run
type RunOutcome string

// Bootstrap run outcomes
const (
	RunOutcomeRunning RunOutcome = "running"
	RunOutcomeReady   RunOutcome = "ready"
	RunOutcomeSkipped RunOutcome = "skipped"
	RunOutcomeFailed  RunOutcome = "failed"
)

// BootstrapRun is one execution of the suite setup as kept in the run ledger
type BootstrapRun struct {
	ID         string
	ClientCode string
	Outcome    RunOutcome
	Error      string
	Products   int
	Customers  int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Ledger errors
var (
	ErrInvalidRunTransition = errors.New("invalid run outcome transition")
	ErrMissingRunID         = errors.New("run id is required")
	ErrMissingScenario      = errors.New("scenario name is required")
	ErrMissingDocument      = errors.New("sales document is required")
)

// NewBootstrapRun starts a run for the client
func NewBootstrapRun(clientCode string) (*BootstrapRun, error) {
	if clientCode == "" {
		return nil, ErrMissingClientCode
	}
	return &BootstrapRun{
		ID:         uuid.New().String(),
		ClientCode: clientCode,
		Outcome:    RunOutcomeRunning,
		StartedAt:  time.Now(),
	}, nil
}

func (r *BootstrapRun) finish(outcome RunOutcome) error {
	if r.Outcome != RunOutcomeRunning {
		return fmt.Errorf("%w: cannot mark %s run as %s", ErrInvalidRunTransition, r.Outcome, outcome)
	}
	r.Outcome = outcome
	r.FinishedAt = time.Now()
	return nil
}

// Ready marks the run as completed with the number of primed fixtures
func (r *BootstrapRun) Ready(products, customers int) error {
	if err := r.finish(RunOutcomeReady); err != nil {
		return err
	}
	r.Products = products
	r.Customers = customers
	return nil
}

// Skip marks the run as skipped because a stored browser state was found
func (r *BootstrapRun) Skip() error {
	return r.finish(RunOutcomeSkipped)
}

// Fail marks the run as failed with the cause
func (r *BootstrapRun) Fail(cause error) error {
	if err := r.finish(RunOutcomeFailed); err != nil {
		return err
	}
	if cause != nil {
		r.Error = cause.Error()
	}
	return nil
}

// IsFinished returns true once the run reached an outcome
func (r *BootstrapRun) IsFinished() bool {
	return r.Outcome != RunOutcomeRunning
}

// Duration returns how long the run took, zero while it is running
func (r *BootstrapRun) Duration() time.Duration {
	if !r.IsFinished() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// VerifiedDocument records a sales document a scenario checked against the backend
type VerifiedDocument struct {
	ID         string
	RunID      string
	Number     string
	Type       DocumentType
	Total      float64
	Scenario   string
	VerifiedAt time.Time
}

// NewVerifiedDocument records doc as verified by the scenario
func NewVerifiedDocument(runID, scenario string, doc *SalesDocument) (*VerifiedDocument, error) {
	if runID == "" {
		return nil, ErrMissingRunID
	}
	if scenario == "" {
		return nil, ErrMissingScenario
	}
	if doc == nil {
		return nil, ErrMissingDocument
	}
	return &VerifiedDocument{
		ID:         uuid.New().String(),
		RunID:      runID,
		Number:     doc.Number,
		Type:       doc.Type,
		Total:      float64(doc.Total),
		Scenario:   scenario,
		VerifiedAt: time.Now(),
	}, nil
}
