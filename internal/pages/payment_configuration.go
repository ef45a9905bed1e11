package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/posqa/posuite/internal/models"
)

// TenderScope is the kind of transaction a tender setting applies to
type TenderScope string

// Tender setting scopes
const (
	ScopeSale                 TenderScope = "sale"
	ScopeReturnWithReceipt    TenderScope = "return_receipt"
	ScopeReturnWithoutReceipt TenderScope = "return"
)

// PaymentConfiguration is the payment configuration settings page. Each
// tender has an allow checkbox and an amount limit per scope.
type PaymentConfiguration struct {
	page playwright.Page

	SaveBtn playwright.Locator
}

// NewPaymentConfiguration creates the payment configuration page object
func NewPaymentConfiguration(page playwright.Page) *PaymentConfiguration {
	return &PaymentConfiguration{
		page:    page,
		SaveBtn: page.Locator(`div.modal-header:has-text("Payment Configuration") >> button.btn.btn-POS`),
	}
}

// settingKey names the setting of a tender in a scope, e.g. pos_allow_sale_cash
func settingKey(scope TenderScope, k models.TenderKind) string {
	return fmt.Sprintf("pos_allow_%s_%s", scope, tenderKey(k))
}

// AllowCheckbox returns the checkbox allowing the tender in the scope
func (p *PaymentConfiguration) AllowCheckbox(scope TenderScope, k models.TenderKind) playwright.Locator {
	return p.page.Locator(testKey("ctxinput-checkbox", settingKey(scope, k)))
}

// LimitInput returns the amount limit field of the tender in the scope
func (p *PaymentConfiguration) LimitInput(scope TenderScope, k models.TenderKind) playwright.Locator {
	return p.page.Locator(testKey("ctxinput-text", settingKey(scope, k)+"_limit"))
}

// ToggleAllowed flips whether the tender is allowed and saves
func (p *PaymentConfiguration) ToggleAllowed(scope TenderScope, k models.TenderKind) error {
	return clickAll(p.AllowCheckbox(scope, k), p.SaveBtn)
}

// SetLimit sets the tender limit and saves. An empty limit removes it.
func (p *PaymentConfiguration) SetLimit(scope TenderScope, k models.TenderKind, limit string) error {
	if err := p.LimitInput(scope, k).Fill(limit); err != nil {
		return err
	}
	return p.SaveBtn.Click()
}

// LimitAlert is the alert shown when a payment exceeds the tender limit
func LimitAlert(k models.TenderKind) string {
	return fmt.Sprintf("Reached %s limit", tenderKey(k))
}
