package oracle

import (
	"errors"
	"fmt"

	"github.com/posqa/posuite/internal/models"
)

// ErrMismatch is wrapped by every failed comparison
var ErrMismatch = errors.New("mismatch")

// CartTotals holds the totals as text scraped from the UI
type CartTotals struct {
	Total    string
	NetTotal string
	VatTotal string
}

// Expected returns the totals the UI should display for a cart computation
func Expected(result *models.CartResult) CartTotals {
	return CartTotals{
		Total:    FormatCurrency(result.Total.Float64()),
		NetTotal: FormatCurrency(result.NetTotal.Float64()),
		VatTotal: FormatCurrency(result.VatTotal.Float64()),
	}
}

// CheckCart compares the backend computation with the observed UI totals.
// All mismatching fields are reported.
func CheckCart(result *models.CartResult, observed CartTotals) error {
	want := Expected(result)
	var errs []error
	errs = append(errs, compare("total", want.Total, observed.Total))
	errs = append(errs, compare("netTotal", want.NetTotal, observed.NetTotal))
	errs = append(errs, compare("vatTotal", want.VatTotal, observed.VatTotal))
	return errors.Join(errs...)
}

// Expectation describes the sales document a UI action should have produced.
// Zero fields are not checked, except PaymentType which is checked when
// CheckPaymentType is set so that an expected null can be asserted.
type Expectation struct {
	Type             models.DocumentType
	InvoiceState     string
	PaymentStatus    string
	CheckPaymentType bool
	PaymentType      *string
	ClientName       string
	// Totals are compared as formatted currency strings
	Totals *CartTotals
	// Base, when set, must match the first base document
	Base *models.BaseDocument
}

// WithPayment sets the payment expectation for a tender in a flow
func (e Expectation) WithPayment(p models.PaymentExpectation) Expectation {
	e.CheckPaymentType = true
	e.PaymentType = p.PaymentType
	e.PaymentStatus = p.PaymentStatus
	return e
}

// CheckDocument verifies a sales document against an expectation and
// returns every mismatch joined.
func CheckDocument(doc *models.SalesDocument, want Expectation) error {
	if doc == nil {
		return fmt.Errorf("document: %w: got none", ErrMismatch)
	}

	var errs []error
	if want.Type != "" {
		errs = append(errs, compare("type", string(want.Type), string(doc.Type)))
	}
	if want.InvoiceState != "" {
		errs = append(errs, compare("invoiceState", want.InvoiceState, doc.InvoiceState))
	}
	if want.PaymentStatus != "" {
		errs = append(errs, compare("paymentStatus", want.PaymentStatus, doc.PaymentStatus))
	}
	if want.CheckPaymentType {
		errs = append(errs, compare("paymentType", display(want.PaymentType), display(doc.PaymentType)))
	}
	if want.ClientName != "" {
		errs = append(errs, compare("clientName", want.ClientName, doc.ClientName))
	}
	if want.Totals != nil {
		errs = append(errs,
			compare("total", want.Totals.Total, FormatCurrency(doc.Total.Float64())),
			compare("netTotal", want.Totals.NetTotal, FormatCurrency(doc.NetTotal.Float64())),
			compare("vatTotal", want.Totals.VatTotal, FormatCurrency(doc.VatTotal.Float64())),
		)
	}
	if want.Base != nil {
		if len(doc.BaseDocuments) == 0 {
			errs = append(errs, fmt.Errorf("baseDocuments: %w: want %s %s, got none", ErrMismatch, want.Base.Type, want.Base.Number))
		} else {
			base := doc.BaseDocuments[0]
			if want.Base.Type != "" {
				errs = append(errs, compare("baseDocuments[0].type", string(want.Base.Type), string(base.Type)))
			}
			if want.Base.Number != "" {
				errs = append(errs, compare("baseDocuments[0].number", want.Base.Number, base.Number))
			}
		}
	}
	return errors.Join(errs...)
}

func compare(field, want, got string) error {
	if want == got {
		return nil
	}
	return fmt.Errorf("%s: %w: want %q, got %q", field, ErrMismatch, want, got)
}

func display(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}
