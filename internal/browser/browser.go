// Package browser starts playwright and creates the browser contexts the
// suite drives the POS with.
package browser

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/playwright-community/playwright-go"

	"github.com/posqa/posuite/internal/config"
)

// Harness owns the playwright driver and one launched browser
type Harness struct {
	cfg     *config.RunnerConfig
	logger  *slog.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Launch starts playwright and launches the configured browser
func Launch(cfg *config.RunnerConfig, logger *slog.Logger) (*Harness, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browserType := browserTypeFor(pw, cfg.Browser)
	browser, err := browserType.Launch(LaunchOptions(cfg))
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch %s: %w", cfg.Browser, err)
	}

	logger.Info("browser launched", "browser", cfg.Browser, "headless", cfg.Headless)
	return &Harness{cfg: cfg, logger: logger, pw: pw, browser: browser}, nil
}

func browserTypeFor(pw *playwright.Playwright, name string) playwright.BrowserType {
	switch name {
	case "firefox":
		return pw.Firefox
	case "webkit":
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// LaunchOptions returns the launch options for the runner configuration
func LaunchOptions(cfg *config.RunnerConfig) playwright.BrowserTypeLaunchOptions {
	return playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
}

// ContextOptions returns the options of a new browser context. An empty
// statePath starts a logged out context.
func ContextOptions(cfg *config.RunnerConfig, baseURL, statePath string) playwright.BrowserNewContextOptions {
	options := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.ViewportWidth,
			Height: cfg.ViewportHeight,
		},
	}
	if baseURL != "" {
		options.BaseURL = playwright.String(baseURL)
	}
	if statePath != "" {
		options.StorageStatePath = playwright.String(statePath)
	}
	return options
}

// NewContext creates a browser context with the suite's viewport and
// timeouts, restoring the stored browser state when statePath is set.
func (h *Harness) NewContext(baseURL, statePath string) (playwright.BrowserContext, error) {
	ctx, err := h.browser.NewContext(ContextOptions(h.cfg, baseURL, statePath))
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}
	ctx.SetDefaultTimeout(h.cfg.ActionTimeoutMillis())
	ctx.SetDefaultNavigationTimeout(h.cfg.NavigationTimeoutMillis())
	return ctx, nil
}

// NewPage creates a context and its first page. The context is closed when
// the page cannot be created.
func (h *Harness) NewPage(baseURL, statePath string) (playwright.BrowserContext, playwright.Page, error) {
	ctx, err := h.NewContext(baseURL, statePath)
	if err != nil {
		return nil, nil, err
	}
	page, err := openPage(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ctx, page, nil
}

func openPage(ctx playwright.BrowserContext) (playwright.Page, error) {
	page, err := ctx.NewPage()
	if err != nil {
		if closeErr := ctx.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return page, nil
}

// Config returns the runner configuration the harness was launched with
func (h *Harness) Config() *config.RunnerConfig {
	return h.cfg
}

// Close closes the browser and stops playwright
func (h *Harness) Close() error {
	var errs []error
	if err := h.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("could not close browser: %w", err))
	}
	if err := h.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("could not stop playwright: %w", err))
	}
	return errors.Join(errs...)
}
