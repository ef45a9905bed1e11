package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/posqa/posuite/internal/models"
	"github.com/posqa/posuite/internal/oracle"
)

// PaymentModal is the desktop payment dialog with its keypad, tender
// buttons and the sale confirmation shown after a successful payment.
type PaymentModal struct {
	page playwright.Page

	Modal            playwright.Locator
	PaymentTotal     playwright.Locator
	RemainingBalance playwright.Locator
	CancelPaymentBtn playwright.Locator
	ConfirmBtn       playwright.Locator

	DecimalButton playwright.Locator
	OkButton      playwright.Locator

	PaidContainer       playwright.Locator
	ConfirmCheckRemoval playwright.Locator

	SaleConfirmation  playwright.Locator
	InvoiceID         playwright.Locator
	CloseConfirmation playwright.Locator
}

// NewPaymentModal creates the payment modal page object
func NewPaymentModal(page playwright.Page) *PaymentModal {
	return &PaymentModal{
		page:             page,
		Modal:            page.GetByTestId("payment-desktop"),
		PaymentTotal:     page.GetByTestId("payment-total-value"),
		RemainingBalance: page.GetByTestId("payment-balance-value"),
		CancelPaymentBtn: page.GetByTestId("cancel-payment-button"),
		ConfirmBtn:       page.GetByTestId("confirm-payment-button"),

		DecimalButton: page.GetByTestId("decimal-button"),
		OkButton:      page.GetByTestId("enter-button"),

		PaidContainer:       page.Locator(`[data-testid="payment-item"][data-test-type="PAID"]`),
		ConfirmCheckRemoval: page.GetByTestId("confirm-btn"),

		SaleConfirmation:  page.GetByTestId("confirmation"),
		InvoiceID:         page.GetByTestId("invoice-nr"),
		CloseConfirmation: page.GetByTestId("new-sale-button"),
	}
}

// TenderButton returns the button that adds the tender to the payment
func (m *PaymentModal) TenderButton(k models.TenderKind) playwright.Locator {
	switch k {
	case models.TenderCash:
		return m.page.GetByTestId("cash-payment-button")
	case models.TenderCard:
		return m.page.GetByTestId("card-payment-button")
	case models.TenderCheck:
		return m.page.GetByTestId("payment-check")
	default:
		return m.page.GetByTestId("payment-store-credit")
	}
}

// TenderContainer returns the row of an added tender
func (m *PaymentModal) TenderContainer(k models.TenderKind) playwright.Locator {
	return m.page.Locator(fmt.Sprintf(`[data-testid="payment-item"][data-test-type="%s"]`, containerType(k)))
}

// OriginalTenderContainer returns the row listing how the returned document was paid
func (m *PaymentModal) OriginalTenderContainer(k models.TenderKind) playwright.Locator {
	return m.page.Locator(fmt.Sprintf(`[data-testid="original-payment-item"][data-test-type="%s"]`, containerType(k)))
}

// Total returns the amount due as displayed
func (m *PaymentModal) Total() (string, error) {
	return m.PaymentTotal.TextContent()
}

// Balance returns the remaining balance without its sign
func (m *PaymentModal) Balance() (string, error) {
	text, err := m.RemainingBalance.TextContent()
	if err != nil {
		return "", err
	}
	return oracle.NormalizeBalance(text), nil
}

// EnterAmount types the amount on the keypad and presses OK
func (m *PaymentModal) EnterAmount(amount string) error {
	for _, r := range KeypadDigits(amount) {
		key := m.DecimalButton
		if r != '.' {
			key = m.page.Locator(fmt.Sprintf(`[data-test-key="%c"]`, r))
		}
		if err := key.Click(); err != nil {
			return err
		}
	}
	return m.OkButton.Click()
}

// AddTender adds a tender. A non-empty amount is typed on the keypad,
// otherwise the modal keeps its suggested amount.
func (m *PaymentModal) AddTender(k models.TenderKind, amount string) error {
	if err := m.TenderButton(k).Click(); err != nil {
		return err
	}
	if k == models.TenderStoreCredit {
		if err := m.TenderContainer(k).Click(); err != nil {
			return err
		}
	}
	if amount == "" {
		return nil
	}
	return m.EnterAmount(amount)
}

// RemoveReturnTender removes the refund tender the POS suggests on a return.
// Store credit sales are refunded in cash, checks need a confirmation.
func (m *PaymentModal) RemoveReturnTender(k models.TenderKind) error {
	switch k {
	case models.TenderCheck:
		return clickAll(m.TenderContainer(k), m.ConfirmCheckRemoval)
	case models.TenderStoreCredit:
		return clickAll(m.TenderContainer(models.TenderCash), m.OkButton)
	default:
		return clickAll(m.TenderContainer(k), m.OkButton)
	}
}

// Cancel closes the modal without paying
func (m *PaymentModal) Cancel() error { return m.CancelPaymentBtn.Click() }

// Confirm confirms the payment
func (m *PaymentModal) Confirm() error { return m.ConfirmBtn.Click() }

// InvoiceNumber reads the document number from the sale confirmation
func (m *PaymentModal) InvoiceNumber() (string, error) {
	label, err := m.InvoiceID.TextContent()
	if err != nil {
		return "", err
	}
	return models.ParseDocumentNumber(label)
}

// CloseSaleConfirmation starts a new sale from the confirmation
func (m *PaymentModal) CloseSaleConfirmation() error { return m.CloseConfirmation.Click() }

// RefundTender is the tender the POS suggests when refunding a sale paid
// with k. Store credit is refunded in cash.
func RefundTender(k models.TenderKind) models.TenderKind {
	if k == models.TenderStoreCredit {
		return models.TenderCash
	}
	return k
}
