package config

import (
	"fmt"
	"strconv"
	"time"
)

// Trace capture modes
const (
	TraceOn           = "on"
	TraceOnFirstRetry = "on-first-retry"
	TraceOff          = "off"
)

// RunnerConfig controls how the browser scenarios are executed.
// Retries and Workers are not knobs: they record the run policy (no retries,
// one worker) and Validate rejects any other value.
type RunnerConfig struct {
	CI                bool
	Retries           int
	Workers           int
	Trace             string
	Headless          bool
	Browser           string
	ActionTimeout     time.Duration
	NavigationTimeout time.Duration
	ViewportWidth     int
	ViewportHeight    int
	StorageDir        string
	FixturesDir       string
	CaptureDir        string
	ProductIDs        []int
	CustomerIDs       []int
}

// LoadRunnerConfig loads runner configuration from environment variables.
// The CI variable switches trace capture and headless defaults.
func LoadRunnerConfig(getenv func(string) string) (*RunnerConfig, error) {
	ci := getenv("CI") != ""

	config := &RunnerConfig{
		CI:                ci,
		Retries:           0,
		Workers:           1,
		Trace:             TraceOnFirstRetry,
		Headless:          ci,
		Browser:           valueOrDefault(getenv("BROWSER"), "chromium"),
		ActionTimeout:     70 * time.Second,
		NavigationTimeout: 80 * time.Second,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		StorageDir:        valueOrDefault(getenv("POS_STORAGE_DIR"), "storage"),
		FixturesDir:       valueOrDefault(getenv("POS_FIXTURES_DIR"), "fixtures"),
		CaptureDir:        valueOrDefault(getenv("POS_CAPTURE_DIR"), "test-results"),
	}
	if ci {
		config.Trace = TraceOn
	}

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS: invalid boolean %q", v)
		}
		config.Headless = headless
	}

	var err error
	if config.ProductIDs, err = parseIDs(valueOrDefault(getenv("POS_PRODUCT_IDS"), "1,2")); err != nil {
		return nil, fmt.Errorf("POS_PRODUCT_IDS: %w", err)
	}
	if config.CustomerIDs, err = parseIDs(valueOrDefault(getenv("POS_CUSTOMER_IDS"), "5")); err != nil {
		return nil, fmt.Errorf("POS_CUSTOMER_IDS: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the suite cannot run with. Scenarios share one
// backend session and mutate shared records, so only one worker is allowed.
func (c *RunnerConfig) Validate() error {
	if c.Workers != 1 {
		return fmt.Errorf("workers must be 1, got %d", c.Workers)
	}
	if c.Retries != 0 {
		return fmt.Errorf("retries are not supported, got %d", c.Retries)
	}
	switch c.Browser {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unsupported browser %q", c.Browser)
	}
	switch c.Trace {
	case TraceOn, TraceOnFirstRetry, TraceOff:
	default:
		return fmt.Errorf("unsupported trace mode %q", c.Trace)
	}
	return nil
}

// TraceAttempt reports whether a trace should be recorded for the given
// attempt, counted from zero.
func (c *RunnerConfig) TraceAttempt(attempt int) bool {
	switch c.Trace {
	case TraceOn:
		return true
	case TraceOnFirstRetry:
		return attempt == 1
	default:
		return false
	}
}

// ActionTimeoutMillis returns the action timeout in the unit playwright expects
func (c *RunnerConfig) ActionTimeoutMillis() float64 {
	return float64(c.ActionTimeout.Milliseconds())
}

// NavigationTimeoutMillis returns the navigation timeout in milliseconds
func (c *RunnerConfig) NavigationTimeoutMillis() float64 {
	return float64(c.NavigationTimeout.Milliseconds())
}
