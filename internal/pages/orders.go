package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Orders is the pickup orders list
type Orders struct {
	page playwright.Page

	ActionSelection playwright.Locator
	PickUp          playwright.Locator
	CancelBtn       playwright.Locator
}

// NewOrders creates the orders page object
func NewOrders(page playwright.Page) *Orders {
	return &Orders{
		page:            page,
		ActionSelection: page.GetByTestId("pickup-orders-action-selection-modal"),
		PickUp:          page.GetByTestId("order-action-selection-pickup-button"),
		CancelBtn:       page.GetByTestId("order-action-selection-cancel-button"),
	}
}

// Retrieve opens the action selection of the order with the given number
func (o *Orders) Retrieve(number string) error {
	return clickVisible(o.page.Locator(fmt.Sprintf(`[data-test-key="%s"]`, number)), "order "+number)
}

// ClickPickUp loads the selected order into the cart
func (o *Orders) ClickPickUp() error { return o.PickUp.Click() }

// ClickCancel cancels the selected order
func (o *Orders) ClickCancel() error { return o.CancelBtn.Click() }
