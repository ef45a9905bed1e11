//go:build e2e

package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"

	"github.com/posqa/posuite/internal/models"
	"github.com/posqa/posuite/internal/oracle"
)

// saveOffer saves the cart as an offer, checks the OFFER document and loads
// it back into the cart. It returns the offer number.
func (s *Scenario) saveOffer(totals oracle.CartTotals) string {
	s.t.Helper()
	home := s.Pages.Home
	offers := s.Pages.Offers

	s.must(home.ClickSaveAsOffer(), "save as offer")
	s.must(s.Pages.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}), "wait for offer to save")
	s.must(home.ClickMainView(), "go to main view")
	s.must(home.ClickOffers(), "open offers")
	s.visible(offers.Modal, "offers modal")

	number, err := offers.LatestNumber()
	s.must(err, "read offer number")
	s.verify(number, s.expectation(models.DocumentOffer, totals).WithPayment(models.PaymentExpectation{
		PaymentStatus: models.PaymentStatusUnpaid,
	}))

	s.must(offers.PickUpLatest(), "pick up offer")
	return number
}

func offerBase(number string) *models.BaseDocument {
	return &models.BaseDocument{Number: number, Type: models.DocumentOffer}
}

// TestOffer saves an offer and pays it after picking it up
// Feature: Offers
//
//	Scenario Outline: Finalize a saved offer with <tender>
//	  Given a customer and a product are in the cart
//	  When I save the cart as an offer
//	  Then an unpaid OFFER is created
//	  When I pick up the offer and pay it with <tender>
//	  Then a paid CASHINVOICE based on the offer is created
func TestOffer(t *testing.T) {
	forEachTender(t, models.FlowOffer, func(t *testing.T, k models.TenderKind) {
		s := newScenario(t)

		// Given a customer and a product are in the cart
		s.addCustomerAndProduct()
		totals := s.checkCart(s.cart(1))

		// When I save the cart as an offer and pick it up
		offer := s.saveOffer(totals)
		s.checkCart(s.cart(1))

		// When I pay it with the tender
		s.openPayment()
		s.pay(k, totals.Total)
		number := s.confirm()

		// Then a paid CASHINVOICE based on the offer is created
		want := s.expectation(models.DocumentCashInvoice, totals).
			WithPayment(models.ExpectedPayment(k, models.FlowOffer))
		want.Base = offerBase(offer)
		s.verify(number, want)
	})
}

// TestOfferWithPromotion saves an offer with a manual promotion applied
// Feature: Offers
//
//	Scenario Outline: Finalize a promoted offer with <tender>
//	  Given a customer and a product are in the cart
//	  When I apply the manual promotion
//	  Then the product row shows "Manual Promotion"
//	  And the cart totals match the backend calculation with the promotion
//	  When I save the cart as an offer, pick it up and pay it with <tender>
//	  Then a paid CASHINVOICE based on the offer is created
func TestOfferWithPromotion(t *testing.T) {
	forEachTender(t, models.FlowOffer, func(t *testing.T, k models.TenderKind) {
		s := newScenario(t)
		home := s.Pages.Home

		// Given a customer and a product are in the cart
		s.addCustomerAndProduct()

		// When I apply the manual promotion
		s.must(home.ClickPromotions(), "open promotions")
		s.must(home.ApplyManualPromotion(), "apply manual promotion")

		// Then the product row shows the promotion
		s.containsText(home.ProductRowDiscount, "Manual Promotion", "product row discount")
		s.visible(home.CartDiscountSum, "cart discount")
		spec := s.cart(1).WithPromotions(1)
		totals := s.checkCart(spec)

		// When I save the cart as an offer, pick it up and pay it
		offer := s.saveOffer(totals)
		s.checkCart(spec)
		s.openPayment()
		s.pay(k, totals.Total)
		number := s.confirm()

		// Then a paid CASHINVOICE based on the offer is created
		want := s.expectation(models.DocumentCashInvoice, totals).
			WithPayment(models.ExpectedPayment(k, models.FlowOffer))
		want.Base = offerBase(offer)
		s.verify(number, want)
	})
}

// TestOfferConversion turns a picked up offer into other documents
// Feature: Offers
//
//	Scenario Outline: Save an offer as <document>
//	  Given I saved an offer and picked it up
//	  When I save it as <document> paying in cash
//	  Then a <document> based on the offer is created
func TestOfferConversion(t *testing.T) {
	tests := []struct {
		name    string
		save    func(s *Scenario)
		docType models.DocumentType
		payment models.PaymentExpectation
	}{
		{
			name: "layaway",
			save: func(s *Scenario) {
				s.must(s.Pages.Home.ClickSaveAsLayaway(), "save as layaway")
				s.visible(s.Pages.Layaways.Modal, "layaway modal")
				s.must(s.Pages.Layaways.ApplyPartialPrepayment(), "apply partial prepayment")
			},
			docType: models.DocumentPrepayment,
			payment: models.ExpectedPayment(models.TenderCash, models.FlowLayaway),
		},
		{
			name:    "order",
			save:    func(s *Scenario) { s.must(s.Pages.Home.ClickSaveAsOrder(), "save as order") },
			docType: models.DocumentOrder,
			payment: models.ExpectedPayment(models.TenderCash, models.FlowOrder),
		},
		{
			name:    "waybill",
			save:    func(s *Scenario) { s.must(s.Pages.Home.ClickSaveAsWaybill(), "save as waybill") },
			docType: models.DocumentWaybill,
			payment: models.ExpectedPayment(models.TenderCash, models.FlowSale),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScenario(t)

			// Given I saved an offer and picked it up
			s.addCustomerAndProduct()
			totals := s.checkCart(s.cart(1))
			offer := s.saveOffer(totals)

			// When I save it as the document paying in cash
			tt.save(s)
			s.visible(s.Pages.PaymentModal.Modal, "payment modal")
			s.pay(models.TenderCash, s.paymentTotal())
			number := s.confirm()

			// Then the document is based on the offer
			want := s.expectation(tt.docType, totals).WithPayment(tt.payment)
			want.Base = offerBase(offer)
			s.verify(number, want)
		})
	}
}
