package models

import "fmt"

// TenderKind is a payment instrument accepted by the POS
type TenderKind int

// Supported tenders
const (
	TenderCash TenderKind = iota
	TenderCard
	TenderCheck
	TenderStoreCredit
)

// Tenders lists every tender in the order scenarios iterate them
var Tenders = []TenderKind{TenderCash, TenderCard, TenderStoreCredit, TenderCheck}

// String returns a human readable tender name used in scenario names
func (k TenderKind) String() string {
	switch k {
	case TenderCash:
		return "CASH"
	case TenderCard:
		return "CARD"
	case TenderCheck:
		return "CHECK"
	case TenderStoreCredit:
		return "STORE CREDIT"
	default:
		return fmt.Sprintf("TenderKind(%d)", int(k))
	}
}

// UIType is the tender identifier used by the payment modal
func (k TenderKind) UIType() string {
	if k == TenderStoreCredit {
		return "STORE_CREDIT"
	}
	return k.String()
}

// Flow is the checkout flow a tender is used in
type Flow int

// Checkout flows
const (
	FlowSale Flow = iota
	FlowReferencedReturn
	FlowUnreferencedReturn
	FlowLayaway
	FlowOrder
	FlowOffer
	FlowAccountSale
	FlowPendingSale
)

func (f Flow) String() string {
	switch f {
	case FlowSale:
		return "sale"
	case FlowReferencedReturn:
		return "referenced return"
	case FlowUnreferencedReturn:
		return "unreferenced return"
	case FlowLayaway:
		return "layaway"
	case FlowOrder:
		return "order"
	case FlowOffer:
		return "offer"
	case FlowAccountSale:
		return "account sale"
	case FlowPendingSale:
		return "pending sale"
	default:
		return fmt.Sprintf("Flow(%d)", int(f))
	}
}

// PaymentExpectation is what the backend should record for a tender in a flow.
// A nil PaymentType means the document carries no payment type.
type PaymentExpectation struct {
	PaymentType   *string
	PaymentStatus string
}

// Supports reports whether the tender can be used in the flow
func (k TenderKind) Supports(f Flow) bool {
	return !(f == FlowAccountSale && k == TenderStoreCredit)
}

// ExpectedPayment returns the payment type and status the resulting document
// should carry when the full total is paid with the tender in the given flow.
func ExpectedPayment(k TenderKind, f Flow) PaymentExpectation {
	paymentType := tenderPaymentType(k)

	switch f {
	case FlowLayaway, FlowAccountSale, FlowPendingSale:
		// partially settled documents: store credit settles the balance, the
		// other tenders leave an open invoice behind
		if k == TenderStoreCredit {
			return PaymentExpectation{PaymentType: nil, PaymentStatus: PaymentStatusPaid}
		}
		return PaymentExpectation{PaymentType: paymentType, PaymentStatus: PaymentStatusUnpaid}
	case FlowReferencedReturn:
		// the original tender is offered back; store credit comes back as cash
		return PaymentExpectation{PaymentType: ReturnPaymentType(k), PaymentStatus: PaymentStatusPaid}
	case FlowUnreferencedReturn:
		if k == TenderStoreCredit {
			return PaymentExpectation{PaymentType: nil, PaymentStatus: PaymentStatusUnpaid}
		}
		return PaymentExpectation{PaymentType: paymentType, PaymentStatus: PaymentStatusPaid}
	default:
		return PaymentExpectation{PaymentType: paymentType, PaymentStatus: PaymentStatusPaid}
	}
}

// ReturnPaymentType is the payment type recorded when a document paid with
// the tender is refunded. Store credit is refunded in cash.
func ReturnPaymentType(k TenderKind) *string {
	if k == TenderStoreCredit {
		return stringPtr(TenderCash.String())
	}
	return tenderPaymentType(k)
}

func tenderPaymentType(k TenderKind) *string {
	if k == TenderStoreCredit {
		return nil
	}
	return stringPtr(k.String())
}

func stringPtr(s string) *string {
	return &s
}
