package pages

import (
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Offers is the saved offers list
type Offers struct {
	Modal       playwright.Locator
	Search      playwright.Locator
	OfferRow    playwright.Locator
	OfferNumber playwright.Locator
	OfferSum    playwright.Locator
}

// NewOffers creates the offers page object
func NewOffers(page playwright.Page) *Offers {
	return &Offers{
		Modal:       page.GetByTestId("offers-modal"),
		Search:      page.GetByTestId("offer-input"),
		OfferRow:    page.GetByTestId("offer"),
		OfferNumber: page.GetByTestId("offer-number"),
		OfferSum:    page.GetByTestId("total"),
	}
}

// LatestNumber returns the number of the newest offer, listed first
func (o *Offers) LatestNumber() (string, error) {
	latest := o.OfferNumber.First()
	if err := latest.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return "", err
	}
	text, err := latest.TextContent()
	return strings.TrimSpace(text), err
}

// PickUpLatest loads the newest offer into the cart
func (o *Offers) PickUpLatest() error {
	return o.OfferRow.First().Click()
}
