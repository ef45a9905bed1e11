//go:build e2e

package e2e

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/posqa/posuite/internal/api"
	"github.com/posqa/posuite/internal/browser"
	"github.com/posqa/posuite/internal/config"
	"github.com/posqa/posuite/internal/models"
	"github.com/posqa/posuite/internal/oracle"
	"github.com/posqa/posuite/internal/pages"
)

const (
	productName = "Cake"
	customerID  = 5
)

// Scenario is the per-test view of the suite: a fresh signed in browser
// context, its page objects and the reference data
type Scenario struct {
	t        *testing.T
	ctx      context.Context
	Pages    *pages.Pages
	Product  models.Product
	Customer models.Customer
	API      api.Client
	Config   *config.BackendConfig

	expect  playwright.PlaywrightAssertions
	context playwright.BrowserContext
	capture *browser.Capture
}

// newScenario opens the POS at the configured location with the stored
// browser state. Captures are kept only when the test fails.
func newScenario(t *testing.T) *Scenario {
	t.Helper()

	product, ok := env.products.Get(productName)
	require.True(t, ok, "product %q missing from fixtures", productName)
	customer, ok := env.customers.Get(customerID)
	require.True(t, ok, "customer %d missing from fixtures", customerID)

	capture := browser.NewCapture(env.runner.CaptureDir)
	t.Cleanup(func() {
		if err := capture.Finish(t.Failed(), env.runner.Trace == config.TraceOn); err != nil {
			t.Logf("WARNING: could not clean up captures: %v", err)
		}
	})

	bctx, page, err := env.harness.NewPage(env.backend.BaseURL, env.sessions.StatePath(env.backend.ClientCode))
	require.NoError(t, err, "could not open page")
	t.Cleanup(func() {
		if err := bctx.Close(); err != nil {
			t.Logf("WARNING: could not close context: %v", err)
		}
	})

	tracing := env.runner.TraceAttempt(0)
	if tracing {
		if err := capture.StartTrace(bctx, t.Name()); err != nil {
			t.Logf("WARNING: could not start trace: %v", err)
			tracing = false
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)

	s := &Scenario{
		t:        t,
		ctx:      ctx,
		Pages:    pages.New(page),
		Product:  product,
		Customer: customer,
		API:      env.client,
		Config:   env.backend,
		expect:   playwright.NewPlaywrightAssertions(),
		context:  bctx,
		capture:  capture,
	}

	t.Cleanup(func() {
		s.screenshot("end")
		if tracing {
			path, err := capture.StopTrace(bctx)
			if err != nil {
				t.Logf("WARNING: could not save trace: %v", err)
			} else if t.Failed() {
				t.Logf("trace saved to %s", path)
			}
		}
		cancel()
	})

	s.open()
	s.screenshot("start")
	return s
}

// open loads the POS and picks the location, leaving the sale view ready
func (s *Scenario) open() {
	s.t.Helper()
	page := s.Pages.Page

	_, err := page.Goto(s.Config.BaseURL)
	s.must(err, "open "+s.Config.BaseURL)
	s.must(s.Pages.Login.SelectPOS(s.Config.Location), "select point of sale")
	s.must(page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateLoad,
	}), "wait for load")

	s.visible(s.Pages.Home.UserMenu, "user menu")
	s.visible(s.Pages.Home.CustomerInfo, "customer information")
}

func (s *Scenario) screenshot(phase string) {
	if _, err := s.capture.Screenshot(s.Pages.Page, s.t.Name(), phase); err != nil {
		s.t.Logf("WARNING: could not take %s screenshot: %v", phase, err)
	}
}

func (s *Scenario) must(err error, action string) {
	s.t.Helper()
	require.NoError(s.t, err, action)
}

func (s *Scenario) visible(l playwright.Locator, what string) {
	s.t.Helper()
	require.NoError(s.t, s.expect.Locator(l).ToBeVisible(), "%s should be visible", what)
}

func (s *Scenario) notVisible(l playwright.Locator, what string) {
	s.t.Helper()
	require.NoError(s.t, s.expect.Locator(l).Not().ToBeVisible(), "%s should not be visible", what)
}

func (s *Scenario) containsText(l playwright.Locator, text, what string) {
	s.t.Helper()
	require.NoError(s.t, s.expect.Locator(l).ToContainText(text), "%s should contain %q", what, text)
}

func (s *Scenario) hasText(l playwright.Locator, text, what string) {
	s.t.Helper()
	require.NoError(s.t, s.expect.Locator(l).ToHaveText(text), "%s should be %q", what, text)
}

func (s *Scenario) hasValue(l playwright.Locator, value, what string) {
	s.t.Helper()
	require.NoError(s.t, s.expect.Locator(l).ToHaveValue(value), "%s should have value %q", what, value)
}

func (s *Scenario) disabled(l playwright.Locator, what string) {
	s.t.Helper()
	require.NoError(s.t, s.expect.Locator(l).ToBeDisabled(), "%s should be disabled", what)
}

// alert waits for the alert to contain text
func (s *Scenario) alert(text string) {
	s.t.Helper()
	s.containsText(s.Pages.Home.AlertMessage, text, "alert")
}

// addCustomerAndProduct puts the reference customer and one product in the cart
func (s *Scenario) addCustomerAndProduct() {
	s.t.Helper()
	s.must(s.Pages.Home.SearchCustomer(s.Customer.DisplayName()), "search customer")
	s.addProduct()
}

func (s *Scenario) addProduct() {
	s.t.Helper()
	s.must(s.Pages.Home.SearchProduct(s.Product.Name.EN), "search product")
}

// cart describes the reference product in the given quantity
func (s *Scenario) cart(amount float64) models.CartSpec {
	return models.NewCart(s.Product.ID, amount)
}

// checkCart compares the displayed totals with the backend computation of
// the cart and returns the displayed totals
func (s *Scenario) checkCart(spec models.CartSpec) oracle.CartTotals {
	s.t.Helper()

	result, err := s.API.CalculateShoppingCart(s.ctx, spec)
	s.must(err, "calculate shopping cart")

	totals, err := s.Pages.Home.CartTotals()
	s.must(err, "read cart totals")
	require.NoError(s.t, oracle.CheckCart(result, totals), "cart totals")
	return totals
}

// openPayment opens the payment modal for the current cart
func (s *Scenario) openPayment() {
	s.t.Helper()
	s.must(s.Pages.Home.ClickPay(), "click pay")
	s.visible(s.Pages.PaymentModal.Modal, "payment modal")
}

// pay adds a tender for amount and waits for its row
func (s *Scenario) pay(k models.TenderKind, amount string) {
	s.t.Helper()
	s.must(s.Pages.PaymentModal.AddTender(k, amount), "add "+k.String()+" tender")
	s.visible(s.Pages.PaymentModal.TenderContainer(k), k.String()+" tender")
}

// confirm confirms the payment and returns the number of the created document
func (s *Scenario) confirm() string {
	s.t.Helper()
	modal := s.Pages.PaymentModal

	s.must(modal.Confirm(), "confirm payment")
	s.visible(modal.SaleConfirmation, "sale confirmation")
	number, err := modal.InvoiceNumber()
	s.must(err, "read document number")
	return number
}

func (s *Scenario) closeConfirmation() {
	s.t.Helper()
	s.must(s.Pages.PaymentModal.CloseSaleConfirmation(), "close sale confirmation")
}

// paymentTotal returns the amount due shown in the payment modal
func (s *Scenario) paymentTotal() string {
	s.t.Helper()
	total, err := s.Pages.PaymentModal.Total()
	s.must(err, "read payment total")
	return strings.TrimSpace(total)
}

// expectation is the common shape of every document a scenario creates
func (s *Scenario) expectation(docType models.DocumentType, totals oracle.CartTotals) oracle.Expectation {
	return oracle.Expectation{
		Type:         docType,
		InvoiceState: models.InvoiceStateReady,
		ClientName:   s.Customer.FullName,
		Totals:       &totals,
	}
}

// verify fetches the document and checks it against want. Verified
// documents are recorded in the run ledger when one is configured.
func (s *Scenario) verify(number string, want oracle.Expectation) *models.SalesDocument {
	s.t.Helper()

	doc, err := s.API.GetSalesDocument(s.ctx, number, want.Type)
	s.must(err, "get sales document "+number)
	require.NoError(s.t, oracle.CheckDocument(doc, want), "%s %s", want.Type, number)

	s.record(doc)
	return doc
}

func (s *Scenario) record(doc *models.SalesDocument) {
	if env.ledger == nil {
		return
	}
	verified, err := models.NewVerifiedDocument(env.runID, s.t.Name(), doc)
	if err == nil {
		err = env.ledger.RecordDocument(s.ctx, verified)
	}
	if err != nil {
		s.t.Logf("WARNING: could not record document %s: %v", doc.Number, err)
	}
}

// forEachTender runs fn as a subtest per tender the flow supports
func forEachTender(t *testing.T, flow models.Flow, fn func(t *testing.T, k models.TenderKind)) {
	for _, k := range models.Tenders {
		if !k.Supports(flow) {
			continue
		}
		t.Run(k.String(), func(t *testing.T) {
			fn(t, k)
		})
	}
}
