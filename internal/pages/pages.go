// Package pages wraps the POS web UI in page objects. Every page object only
// holds locators and the clicks that drive them; assertions live in the
// scenarios.
package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/posqa/posuite/internal/models"
)

// testKey builds a selector matching both the test id and the test key
// attributes the POS puts on repeated widgets.
func testKey(testID, key string) string {
	return fmt.Sprintf(`[data-testid="%s"][data-test-key="%s"]`, testID, key)
}

// clickAll clicks the locators in order and stops at the first failure
func clickAll(locators ...playwright.Locator) error {
	for _, l := range locators {
		if err := l.Click(); err != nil {
			return err
		}
	}
	return nil
}

// clickVisible waits for the locator and clicks it. what names the element
// in the returned error.
func clickVisible(l playwright.Locator, what string) error {
	if err := l.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return fmt.Errorf("%s not found: %w", what, err)
	}
	return l.Click()
}

// KeypadDigits keeps only the characters the payment keypad can type:
// digits and the decimal point. "$-12.50" becomes "12.50".
func KeypadDigits(amount string) string {
	var b strings.Builder
	for _, r := range amount {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tenderKey is the lower case tender name used in settings keys
func tenderKey(k models.TenderKind) string {
	switch k {
	case models.TenderStoreCredit:
		return "storecredit"
	default:
		return strings.ToLower(k.String())
	}
}

// containerType is the data-test-type of a tender row in the payment modal
func containerType(k models.TenderKind) string {
	switch k {
	case models.TenderStoreCredit:
		return "STORECREDIT"
	default:
		return k.String()
	}
}

// Pages bundles every page object bound to one browser page
type Pages struct {
	Page                 playwright.Page
	Login                *Login
	Home                 *Home
	PaymentModal         *PaymentModal
	RecentSales          *RecentSales
	Layaways             *Layaways
	Offers               *Offers
	Orders               *Orders
	PendingSales         *PendingSales
	AccountSales         *AccountSales
	ClockInOut           *ClockInOut
	Discounts            *Discounts
	PaymentConfiguration *PaymentConfiguration
	ProductInformation   *ProductInformation
}

// New binds all page objects to page
func New(page playwright.Page) *Pages {
	return &Pages{
		Page:                 page,
		Login:                NewLogin(page),
		Home:                 NewHome(page),
		PaymentModal:         NewPaymentModal(page),
		RecentSales:          NewRecentSales(page),
		Layaways:             NewLayaways(page),
		Offers:               NewOffers(page),
		Orders:               NewOrders(page),
		PendingSales:         NewPendingSales(page),
		AccountSales:         NewAccountSales(page),
		ClockInOut:           NewClockInOut(page),
		Discounts:            NewDiscounts(page),
		PaymentConfiguration: NewPaymentConfiguration(page),
		ProductInformation:   NewProductInformation(page),
	}
}
