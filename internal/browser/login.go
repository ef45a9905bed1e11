package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playwright-community/playwright-go"

	"github.com/posqa/posuite/internal/config"
	"github.com/posqa/posuite/internal/pages"
)

// LoginSession is a logged out browser context used once to sign in
// through the POS login form and snapshot the resulting storage state.
type LoginSession struct {
	baseURL string
	context playwright.BrowserContext
	page    playwright.Page
	// owner is set when the session launched its own browser
	owner *Harness
}

// OpenLoginSession launches a dedicated browser for a single login. Closing
// the session also closes that browser.
func OpenLoginSession(cfg *config.RunnerConfig, baseURL string, logger *slog.Logger) (*LoginSession, error) {
	h, err := Launch(cfg, logger)
	if err != nil {
		return nil, err
	}
	s, err := h.NewLoginSession(baseURL)
	if err != nil {
		h.Close()
		return nil, err
	}
	s.owner = h
	return s, nil
}

// NewLoginSession opens a fresh context without stored state
func (h *Harness) NewLoginSession(baseURL string) (*LoginSession, error) {
	ctx, page, err := h.NewPage("", "")
	if err != nil {
		return nil, err
	}
	return &LoginSession{baseURL: baseURL, context: ctx, page: page}, nil
}

// Login signs in through the login form. Playwright calls cannot be
// cancelled so ctx is only checked before the form is driven.
func (s *LoginSession) Login(ctx context.Context, clientCode, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.page.Goto(s.baseURL); err != nil {
		return fmt.Errorf("could not open %s: %w", s.baseURL, err)
	}
	if err := pages.NewLogin(s.page).SignIn(clientCode, username, password); err != nil {
		return fmt.Errorf("could not fill login form: %w", err)
	}
	if err := s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("login did not settle: %w", err)
	}
	return nil
}

// StorageState serializes the cookies and local storage of the context
func (s *LoginSession) StorageState() ([]byte, error) {
	state, err := s.context.StorageState()
	if err != nil {
		return nil, fmt.Errorf("could not read storage state: %w", err)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("could not encode storage state: %w", err)
	}
	return data, nil
}

// Close closes the page and its context
func (s *LoginSession) Close() error {
	err := errors.Join(s.page.Close(), s.context.Close())
	if s.owner != nil {
		err = errors.Join(err, s.owner.Close())
	}
	return err
}
