package pages

import "github.com/playwright-community/playwright-go"

// AccountSales is the on account sale form
type AccountSales struct {
	Modal                playwright.Locator
	PrepaymentPercentage playwright.Locator
	SaveBtn              playwright.Locator
}

// NewAccountSales creates the account sales page object
func NewAccountSales(page playwright.Page) *AccountSales {
	return &AccountSales{
		Modal:                page.GetByTestId("account-sales-modal"),
		PrepaymentPercentage: page.Locator(testKey("input-field", "prepaymentPercent")),
		SaveBtn:              page.GetByTestId("save-btn"),
	}
}

// ApplyPrepayment saves the account sale with the given prepayment percentage
func (a *AccountSales) ApplyPrepayment(percent string) error {
	if err := a.PrepaymentPercentage.Fill(percent); err != nil {
		return err
	}
	return a.SaveBtn.Click()
}

func (a *AccountSales) ApplyFullPrepayment() error { return a.ApplyPrepayment("100") }

func (a *AccountSales) ApplyPartialPrepayment() error { return a.ApplyPrepayment("50") }
