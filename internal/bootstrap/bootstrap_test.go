package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posqa/posuite/internal/logger"
	"github.com/posqa/posuite/internal/models"
)

// calls records the order collaborators are invoked in
type calls []string

func (c *calls) add(name string) { *c = append(*c, name) }

type MockAuthenticator struct {
	VerifyUserFunc func(ctx context.Context, username, password string) (string, error)
	log            *calls
}

func (m *MockAuthenticator) VerifyUser(ctx context.Context, username, password string) (string, error) {
	m.log.add("verifyUser")
	if m.VerifyUserFunc != nil {
		return m.VerifyUserFunc(ctx, username, password)
	}
	return "session-key", nil
}

type MockSessionStore struct {
	HasValidSessionFunc  func(clientCode string) (bool, error)
	SaveSessionFunc      func(clientCode, sessionKey string) error
	SaveBrowserStateFunc func(clientCode string, state []byte) error
	log                  *calls
}

func (m *MockSessionStore) HasValidSession(clientCode string) (bool, error) {
	m.log.add("hasValidSession")
	if m.HasValidSessionFunc != nil {
		return m.HasValidSessionFunc(clientCode)
	}
	return false, nil
}

func (m *MockSessionStore) SaveSession(clientCode, sessionKey string) error {
	m.log.add("saveSession")
	if m.SaveSessionFunc != nil {
		return m.SaveSessionFunc(clientCode, sessionKey)
	}
	return nil
}

func (m *MockSessionStore) SaveBrowserState(clientCode string, state []byte) error {
	m.log.add("saveBrowserState")
	if m.SaveBrowserStateFunc != nil {
		return m.SaveBrowserStateFunc(clientCode, state)
	}
	return nil
}

type MockLoginDriver struct {
	LoginFunc        func(ctx context.Context, clientCode, username, password string) error
	StorageStateFunc func() ([]byte, error)
	closed           bool
	log              *calls
}

func (m *MockLoginDriver) Login(ctx context.Context, clientCode, username, password string) error {
	m.log.add("login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, clientCode, username, password)
	}
	return nil
}

func (m *MockLoginDriver) StorageState() ([]byte, error) {
	m.log.add("storageState")
	if m.StorageStateFunc != nil {
		return m.StorageStateFunc()
	}
	return []byte(`{"cookies":[],"origins":[]}`), nil
}

func (m *MockLoginDriver) Close() error {
	m.closed = true
	return nil
}

type MockFixturePrimer struct {
	PrimeProductsFunc  func(ctx context.Context, ids []int) (int, error)
	PrimeCustomersFunc func(ctx context.Context, ids []int) (int, error)
	log                *calls
}

func (m *MockFixturePrimer) PrimeProducts(ctx context.Context, ids []int) (int, error) {
	m.log.add("primeProducts")
	if m.PrimeProductsFunc != nil {
		return m.PrimeProductsFunc(ctx, ids)
	}
	return len(ids), nil
}

func (m *MockFixturePrimer) PrimeCustomers(ctx context.Context, ids []int) (int, error) {
	m.log.add("primeCustomers")
	if m.PrimeCustomersFunc != nil {
		return m.PrimeCustomersFunc(ctx, ids)
	}
	return len(ids), nil
}

type MockRunRecorder struct {
	created  []models.BootstrapRun
	finished []models.BootstrapRun
	err      error
}

func (m *MockRunRecorder) CreateRun(ctx context.Context, run *models.BootstrapRun) error {
	m.created = append(m.created, *run)
	return m.err
}

func (m *MockRunRecorder) FinishRun(ctx context.Context, run *models.BootstrapRun) error {
	m.finished = append(m.finished, *run)
	return m.err
}

type fixture struct {
	log      *calls
	auth     *MockAuthenticator
	sessions *MockSessionStore
	login    *MockLoginDriver
	fixtures *MockFixturePrimer
	recorder *MockRunRecorder
	opened   int
}

func newFixture() *fixture {
	log := &calls{}
	return &fixture{
		log:      log,
		auth:     &MockAuthenticator{log: log},
		sessions: &MockSessionStore{log: log},
		login:    &MockLoginDriver{log: log},
		fixtures: &MockFixturePrimer{log: log},
		recorder: &MockRunRecorder{},
	}
}

func (f *fixture) orchestrator() *Orchestrator {
	cfg := Config{
		ClientCode:  "545455",
		Username:    "pw test",
		Password:    "secret",
		ProductIDs:  []int{1, 2},
		CustomerIDs: []int{5},
	}
	deps := Dependencies{
		Auth:     f.auth,
		Sessions: f.sessions,
		NewLogin: func() (LoginDriver, error) {
			f.opened++
			return f.login, nil
		},
		Fixtures: f.fixtures,
		Recorder: f.recorder,
	}
	return New(cfg, deps, logger.Discard())
}

func TestOrchestrator_SkipsWhenStateExists(t *testing.T) {
	// Given a stored browser state for the client
	f := newFixture()
	f.sessions.HasValidSessionFunc = func(string) (bool, error) { return true, nil }

	// When the bootstrap runs
	result, err := f.orchestrator().Run(context.Background())

	// Then it completes without authenticating or opening a browser
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, calls{"hasValidSession"}, *f.log)
	assert.Zero(t, f.opened)
	assert.Equal(t, models.RunOutcomeSkipped, result.Run.Outcome)
}

func TestOrchestrator_FullRun(t *testing.T) {
	f := newFixture()
	var savedKey string
	var savedState []byte
	f.sessions.SaveSessionFunc = func(_, key string) error { savedKey = key; return nil }
	f.sessions.SaveBrowserStateFunc = func(_ string, state []byte) error { savedState = state; return nil }

	result, err := f.orchestrator().Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, calls{
		"hasValidSession",
		"verifyUser",
		"saveSession",
		"login",
		"primeProducts",
		"primeCustomers",
		"storageState",
		"saveBrowserState",
	}, *f.log)
	assert.Equal(t, "session-key", savedKey)
	assert.JSONEq(t, `{"cookies":[],"origins":[]}`, string(savedState))
	assert.Equal(t, 2, result.Products)
	assert.Equal(t, 1, result.Customers)
	assert.False(t, result.Skipped)
	assert.True(t, f.login.closed)
	assert.Equal(t, models.RunOutcomeReady, result.Run.Outcome)
}

func TestOrchestrator_PassesCredentials(t *testing.T) {
	f := newFixture()
	f.auth.VerifyUserFunc = func(_ context.Context, username, password string) (string, error) {
		assert.Equal(t, "pw test", username)
		assert.Equal(t, "secret", password)
		return "key", nil
	}
	f.login.LoginFunc = func(_ context.Context, clientCode, username, password string) error {
		assert.Equal(t, "545455", clientCode)
		assert.Equal(t, "pw test", username)
		assert.Equal(t, "secret", password)
		return nil
	}
	f.fixtures.PrimeProductsFunc = func(_ context.Context, ids []int) (int, error) {
		assert.Equal(t, []int{1, 2}, ids)
		return 2, nil
	}
	f.fixtures.PrimeCustomersFunc = func(_ context.Context, ids []int) (int, error) {
		assert.Equal(t, []int{5}, ids)
		return 1, nil
	}

	_, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)
}

func TestOrchestrator_FailsFast(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		setup     func(f *fixture)
		wantStep  Step
		wantCalls calls
		wantLogin bool
	}{
		{
			name:      "state check",
			setup:     func(f *fixture) { f.sessions.HasValidSessionFunc = func(string) (bool, error) { return false, boom } },
			wantStep:  StepCheckExistingState,
			wantCalls: calls{"hasValidSession"},
		},
		{
			name: "authentication",
			setup: func(f *fixture) {
				f.auth.VerifyUserFunc = func(context.Context, string, string) (string, error) { return "", boom }
			},
			wantStep:  StepAuthenticate,
			wantCalls: calls{"hasValidSession", "verifyUser"},
		},
		{
			name:      "session write",
			setup:     func(f *fixture) { f.sessions.SaveSessionFunc = func(string, string) error { return boom } },
			wantStep:  StepAuthenticate,
			wantCalls: calls{"hasValidSession", "verifyUser", "saveSession"},
		},
		{
			name: "interactive login",
			setup: func(f *fixture) {
				f.login.LoginFunc = func(context.Context, string, string, string) error { return boom }
			},
			wantStep:  StepInteractiveLogin,
			wantCalls: calls{"hasValidSession", "verifyUser", "saveSession", "login"},
			wantLogin: true,
		},
		{
			name: "product priming",
			setup: func(f *fixture) {
				f.fixtures.PrimeProductsFunc = func(context.Context, []int) (int, error) { return 0, boom }
			},
			wantStep:  StepPrimeProducts,
			wantCalls: calls{"hasValidSession", "verifyUser", "saveSession", "login", "primeProducts"},
			wantLogin: true,
		},
		{
			name: "customer priming",
			setup: func(f *fixture) {
				f.fixtures.PrimeCustomersFunc = func(context.Context, []int) (int, error) { return 0, boom }
			},
			wantStep:  StepPrimeCustomers,
			wantCalls: calls{"hasValidSession", "verifyUser", "saveSession", "login", "primeProducts", "primeCustomers"},
			wantLogin: true,
		},
		{
			name:     "state write",
			setup:    func(f *fixture) { f.sessions.SaveBrowserStateFunc = func(string, []byte) error { return boom } },
			wantStep: StepPersistBrowserState,
			wantCalls: calls{
				"hasValidSession", "verifyUser", "saveSession", "login",
				"primeProducts", "primeCustomers", "storageState", "saveBrowserState",
			},
			wantLogin: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a collaborator that fails
			f := newFixture()
			tt.setup(f)

			// When the bootstrap runs
			result, err := f.orchestrator().Run(context.Background())

			// Then it stops at the failing step and reports it
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)

			var stepErr *StepError
			require.ErrorAs(t, err, &stepErr)
			assert.Equal(t, tt.wantStep, stepErr.Step)
			assert.Equal(t, "bootstrap: "+string(tt.wantStep)+": boom", err.Error())

			assert.Equal(t, tt.wantCalls, *f.log)
			assert.Equal(t, tt.wantLogin, f.login.closed, "login browser closed")
			assert.Equal(t, models.RunOutcomeFailed, result.Run.Outcome)
		})
	}
}

func TestOrchestrator_LoginOpenFailure(t *testing.T) {
	f := newFixture()
	o := f.orchestrator()
	o.deps.NewLogin = func() (LoginDriver, error) { return nil, errors.New("no browser") }

	_, err := o.Run(context.Background())

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepInteractiveLogin, stepErr.Step)
}

func TestOrchestrator_RecordsRun(t *testing.T) {
	f := newFixture()

	result, err := f.orchestrator().Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.recorder.created, 1)
	require.Len(t, f.recorder.finished, 1)
	assert.Equal(t, models.RunOutcomeRunning, f.recorder.created[0].Outcome)
	assert.Equal(t, models.RunOutcomeReady, f.recorder.finished[0].Outcome)
	assert.Equal(t, result.Run.ID, f.recorder.finished[0].ID)
	assert.Equal(t, 2, f.recorder.finished[0].Products)
}

func TestOrchestrator_LedgerFailureIsIgnored(t *testing.T) {
	f := newFixture()
	f.recorder.err = errors.New("database down")

	result, err := f.orchestrator().Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.RunOutcomeReady, result.Run.Outcome)
}

func TestOrchestrator_WithoutRecorder(t *testing.T) {
	f := newFixture()
	o := f.orchestrator()
	o.deps.Recorder = nil

	_, err := o.Run(context.Background())
	require.NoError(t, err)
}
