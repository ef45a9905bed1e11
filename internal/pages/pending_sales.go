package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// PendingSales is the list of saved, unpaid carts
type PendingSales struct {
	page playwright.Page

	Modal            playwright.Locator
	ConfirmDeleteBtn playwright.Locator
}

// NewPendingSales creates the pending sales page object
func NewPendingSales(page playwright.Page) *PendingSales {
	return &PendingSales{
		page:             page,
		Modal:            page.GetByTestId("pending-sales-modal"),
		ConfirmDeleteBtn: page.GetByTestId("confirm-btn"),
	}
}

// Resume loads the pending sale whose total matches the displayed cart total
func (p *PendingSales) Resume(total string) error {
	cell := p.page.Locator("td", playwright.PageLocatorOptions{HasText: total}).First()
	return clickVisible(cell, "pending sale "+total)
}

// Delete removes the pending sale whose total matches
func (p *PendingSales) Delete(total string) error {
	row := p.page.Locator(fmt.Sprintf(`tr:has-text(%q)`, total))
	return clickAll(row.Locator("i.icon_trash"), p.ConfirmDeleteBtn)
}
