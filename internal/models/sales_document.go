package models

import (
	"errors"
	"regexp"
	"strings"
)

// DocumentType is the type of a backend sales document
type DocumentType string

// Sales document types
const (
	DocumentCashInvoice    DocumentType = "CASHINVOICE"
	DocumentCreditInvoice  DocumentType = "CREDITINVOICE"
	DocumentPrepayment     DocumentType = "PREPAYMENT"
	DocumentOrder          DocumentType = "ORDER"
	DocumentOffer          DocumentType = "OFFER"
	DocumentWaybill        DocumentType = "WAYBILL"
	DocumentInvoiceWaybill DocumentType = "INVWAYBILL"
)

// Payment and invoice states reported on sales documents
const (
	PaymentStatusPaid     = "PAID"
	PaymentStatusUnpaid   = "UNPAID"
	InvoiceStateReady     = "READY"
	InvoiceStateCancelled = "CANCELLED"
)

// BaseDocument references the document a later document was created from
type BaseDocument struct {
	ID     int          `json:"id"`
	Number string       `json:"number"`
	Type   DocumentType `json:"type"`
}

// SalesDocument is a backend sales document record
type SalesDocument struct {
	ID            int            `json:"id"`
	Number        string         `json:"number"`
	Type          DocumentType   `json:"type"`
	ClientName    string         `json:"clientName"`
	NetTotal      Amount         `json:"netTotal"`
	VatTotal      Amount         `json:"vatTotal"`
	Total         Amount         `json:"total"`
	Paid          Amount         `json:"paid"`
	PaymentType   *string        `json:"paymentType"`
	PaymentStatus string         `json:"paymentStatus"`
	InvoiceState  string         `json:"invoiceState"`
	BaseDocuments []BaseDocument `json:"baseDocuments"`
}

// PaymentTypeOrEmpty returns the payment type, or "" when the backend sent null
func (d SalesDocument) PaymentTypeOrEmpty() string {
	if d.PaymentType == nil {
		return ""
	}
	return *d.PaymentType
}

// ErrNoDocumentNumber is returned when a confirmation label holds no digits
var ErrNoDocumentNumber = errors.New("no document number found")

var digitsRe = regexp.MustCompile(`\d+`)

// ParseDocumentNumber extracts the document number from the text of the sale
// confirmation label. A trailing "K" suffix is dropped before the first run
// of digits is taken.
func ParseDocumentNumber(label string) (string, error) {
	label = strings.TrimSpace(label)
	label = strings.TrimSuffix(label, "K")
	number := digitsRe.FindString(label)
	if number == "" {
		return "", ErrNoDocumentNumber
	}
	return number, nil
}
