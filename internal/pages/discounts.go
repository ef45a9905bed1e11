package pages

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/playwright-community/playwright-go"
)

// DiscountPercentages are the preset buttons of the sale discount dialog
var DiscountPercentages = []int{0, 5, 10, 15, 20, 25, 50}

// ErrUnknownDiscount is returned for a percentage without a preset button
var ErrUnknownDiscount = errors.New("percentage has no preset button")

// Discounts is the sale discount dialog
type Discounts struct {
	page playwright.Page

	Modal           playwright.Locator
	SaveBtn         playwright.Locator
	PercentageInput playwright.Locator
}

// NewDiscounts creates the discounts page object
func NewDiscounts(page playwright.Page) *Discounts {
	return &Discounts{
		page:            page,
		Modal:           page.GetByTestId("sale-discount-modal"),
		SaveBtn:         page.GetByTestId("save-btn"),
		PercentageInput: page.GetByTestId("percentage-input"),
	}
}

// presetSelector returns the selector of a preset percentage button
func presetSelector(percent int) (string, error) {
	for _, p := range DiscountPercentages {
		if p == percent {
			return testKey("percentage", strconv.Itoa(percent)), nil
		}
	}
	return "", fmt.Errorf("%d%%: %w", percent, ErrUnknownDiscount)
}

// AddPercentDiscount clicks a preset percentage button
func (d *Discounts) AddPercentDiscount(percent int) error {
	selector, err := presetSelector(percent)
	if err != nil {
		return err
	}
	return d.page.Locator(selector).Click()
}

// InputPercentage types a custom percentage and saves it
func (d *Discounts) InputPercentage(percent string) error {
	if err := d.PercentageInput.Fill(percent); err != nil {
		return err
	}
	return d.SaveBtn.Click()
}

// Save saves the selected discount
func (d *Discounts) Save() error { return d.SaveBtn.Click() }
