package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// RecentSales lists completed sales and starts referenced returns
type RecentSales struct {
	page playwright.Page

	View               playwright.Locator
	InvoiceList        playwright.Locator
	SaveBtn            playwright.Locator
	ProductReturnView  playwright.Locator
	ProductReturnTitle playwright.Locator
	ProductRowCheckbox playwright.Locator
}

// NewRecentSales creates the recent sales page object
func NewRecentSales(page playwright.Page) *RecentSales {
	return &RecentSales{
		page:               page,
		View:               page.GetByTestId("recent-sales"),
		InvoiceList:        page.GetByTestId("previous-purchases"),
		SaveBtn:            page.GetByTestId("save-return-btn"),
		ProductReturnView:  page.GetByTestId("product-return"),
		ProductReturnTitle: page.GetByTestId("return-title"),
		ProductRowCheckbox: page.GetByTestId("product-row-toggle"),
	}
}

// StartReturn opens the return view of the invoice with the given number
func (r *RecentSales) StartReturn(invoiceNumber string) error {
	btn := r.page.Locator(fmt.Sprintf(`[data-test-key="start-return-%s"]`, invoiceNumber))
	return clickVisible(btn, "invoice "+invoiceNumber)
}

// AddReturnToCart selects the returned row and moves it to the cart
func (r *RecentSales) AddReturnToCart() error {
	return clickAll(r.ProductRowCheckbox, r.SaveBtn)
}
