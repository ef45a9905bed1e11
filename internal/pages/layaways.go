package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Layaways covers the save as layaway form and the layaway list
type Layaways struct {
	page playwright.Page

	List            playwright.Locator
	ActionSelection playwright.Locator
	FullyPay        playwright.Locator
	PartiallyPay    playwright.Locator
	CancelBtn       playwright.Locator

	Modal                playwright.Locator
	SaveBtn              playwright.Locator
	PrepaymentPercentage playwright.Locator
}

// NewLayaways creates the layaways page object
func NewLayaways(page playwright.Page) *Layaways {
	return &Layaways{
		page:            page,
		List:            page.GetByTestId("layaway-container"),
		ActionSelection: page.GetByTestId("layaway-action-selection-modal"),
		FullyPay:        page.GetByTestId("layaway-action-selection-fullyPay-button"),
		PartiallyPay:    page.GetByTestId("layaway-action-selection-partiallyPay-button"),
		CancelBtn:       page.GetByTestId("layaway-action-selection-cancel-button"),

		Modal:                page.GetByTestId("layaway-sales"),
		SaveBtn:              page.GetByTestId("save-layaway-btn"),
		PrepaymentPercentage: page.Locator(testKey("layaway-field", "layaway-prepaymentPercent")),
	}
}

// Retrieve opens the action selection of the layaway with the given number
func (l *Layaways) Retrieve(number string) error {
	row := l.List.Locator(fmt.Sprintf(`[data-test-key="%s"]`, number))
	return clickVisible(row, "layaway "+number)
}

// ClickFullyPay finalizes the selected layaway
func (l *Layaways) ClickFullyPay() error { return l.FullyPay.Click() }

// ClickCancel cancels the selected layaway
func (l *Layaways) ClickCancel() error { return l.CancelBtn.Click() }

// ApplyPrepayment saves the cart as a layaway with the given prepayment percentage
func (l *Layaways) ApplyPrepayment(percent string) error {
	if err := l.PrepaymentPercentage.Fill(percent); err != nil {
		return err
	}
	return l.SaveBtn.Click()
}

// ApplyFullPrepayment saves the cart as a fully prepaid layaway
func (l *Layaways) ApplyFullPrepayment() error { return l.ApplyPrepayment("100") }

// ApplyPartialPrepayment saves the cart as a half prepaid layaway
func (l *Layaways) ApplyPartialPrepayment() error { return l.ApplyPrepayment("50") }
