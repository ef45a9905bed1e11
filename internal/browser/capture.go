package browser

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// TraceFile is the name of the trace archive inside a capture directory
const TraceFile = "trace.zip"

// Capture collects the screenshots and the trace of one scenario run under
// <root>/<run id>.
type Capture struct {
	runID uuid.UUID
	dir   string

	// Automatic step numbering of screenshots
	stepMu sync.Mutex
	step   int
}

// NewCapture creates a capture with a fresh run id
func NewCapture(root string) *Capture {
	return NewCaptureWithID(root, uuid.New())
}

// NewCaptureWithID creates a capture for a known run id
func NewCaptureWithID(root string, runID uuid.UUID) *Capture {
	return &Capture{
		runID: runID,
		dir:   filepath.Join(root, runID.String()),
	}
}

// RunID identifies the run the captures belong to
func (c *Capture) RunID() uuid.UUID {
	return c.runID
}

// Dir returns the capture directory of the run
func (c *Capture) Dir() string {
	return c.dir
}

// Path returns a path inside the capture directory and creates its parent
func (c *Capture) Path(parts ...string) (string, error) {
	out := filepath.Join(append([]string{c.dir}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("could not create capture dir: %w", err)
	}
	return out, nil
}

// TracePath is where the trace archive of the run is saved
func (c *Capture) TracePath() string {
	return filepath.Join(c.dir, TraceFile)
}

// ScreenshotName numbers the screenshot of a step, e.g. 03-cash_sale-end.png
func (c *Capture) ScreenshotName(testName, phase string) string {
	c.stepMu.Lock()
	defer c.stepMu.Unlock()

	c.step++
	return fmt.Sprintf("%02d-%s-%s.png", c.step, fileSafe(path.Base(testName)), phase)
}

// Screenshot saves a screenshot of the page for the named test step
func (c *Capture) Screenshot(page playwright.Page, testName, phase string) (string, error) {
	out, err := c.Path("screenshots", c.ScreenshotName(testName, phase))
	if err != nil {
		return "", err
	}
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(out),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("could not take screenshot: %w", err)
	}
	return out, nil
}

// StartTrace starts recording a trace of the context
func (c *Capture) StartTrace(ctx playwright.BrowserContext, title string) error {
	return ctx.Tracing().Start(playwright.TracingStartOptions{
		Title:       playwright.String(title),
		Screenshots: playwright.Bool(true),
		Snapshots:   playwright.Bool(true),
	})
}

// StopTrace stops the trace and saves it to TracePath
func (c *Capture) StopTrace(ctx playwright.BrowserContext) (string, error) {
	out, err := c.Path(TraceFile)
	if err != nil {
		return "", err
	}
	if err := ctx.Tracing().Stop(out); err != nil {
		return "", fmt.Errorf("could not save trace: %w", err)
	}
	return out, nil
}

// Finish removes the captures of a passed run unless keep is set. Captures
// of failed runs are always kept for inspection.
func (c *Capture) Finish(failed, keep bool) error {
	if failed || keep {
		return nil
	}
	return os.RemoveAll(c.dir)
}

var unsafeChars = strings.NewReplacer("/", "_", " ", "_", ":", "_", "#", "")

func fileSafe(name string) string {
	return unsafeChars.Replace(name)
}
