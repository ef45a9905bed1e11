//go:build e2e

package e2e

import (
	"fmt"
	"testing"

	"github.com/posqa/posuite/internal/models"
	"github.com/posqa/posuite/internal/oracle"
)

// applyDiscount picks a preset sale discount
func (s *Scenario) applyDiscount(percent int) {
	s.t.Helper()
	discounts := s.Pages.Discounts

	s.must(s.Pages.Home.ClickDiscounts(), "open discounts")
	s.visible(discounts.Modal, "discount modal")
	s.must(discounts.AddPercentDiscount(percent), fmt.Sprintf("pick %d%%", percent))
	s.must(discounts.Save(), "save discount")
	s.containsText(s.Pages.Home.ProductRowDiscount, "Adjustment", "product row discount")
	s.visible(s.Pages.Home.CartDiscountSum, "cart discount")
}

// applyPromotion applies the manual promotion
func (s *Scenario) applyPromotion() {
	s.t.Helper()
	s.must(s.Pages.Home.ClickPromotions(), "open promotions")
	s.must(s.Pages.Home.ApplyManualPromotion(), "apply manual promotion")
	s.containsText(s.Pages.Home.ProductRowDiscount, "Manual Promotion", "product row discount")
	s.visible(s.Pages.Home.CartDiscountSum, "cart discount")
}

// parkSale saves the cart as a pending sale and resumes it from the list
func (s *Scenario) parkSale(totals oracle.CartTotals) {
	s.t.Helper()
	home := s.Pages.Home

	s.must(home.ClickSaveSale(), "save sale")
	s.notVisible(home.CartTotal, "cart total")
	s.must(home.ClickPendingSales(), "open pending sales")
	s.visible(s.Pages.PendingSales.Modal, "pending sales modal")
	s.must(s.Pages.PendingSales.Resume(totals.Total), "resume pending sale")
	s.hasText(home.CartTotalSum, totals.Total, "cart total")
}

// TestPendingSale parks a sale, resumes it and pays it
// Feature: Pending sales
//
//	Scenario Outline: Finalize a pending sale with <tender>
//	  Given a customer and a product are in the cart
//	  When I save the sale and resume it from the pending sales
//	  Then the cart shows the saved totals
//	  When I pay the total with <tender>
//	  Then a paid CASHINVOICE is created
func TestPendingSale(t *testing.T) {
	forEachTender(t, models.FlowPendingSale, func(t *testing.T, k models.TenderKind) {
		s := newScenario(t)

		// Given a customer and a product are in the cart
		s.addCustomerAndProduct()
		totals := s.checkCart(s.cart(1))

		// When I save the sale and resume it
		s.parkSale(totals)

		// Then the cart shows the saved totals
		s.checkCart(s.cart(1))

		// When I pay the total with the tender
		s.openPayment()
		s.pay(k, totals.Total)
		number := s.confirm()

		// Then a paid CASHINVOICE is created
		s.verify(number, s.expectation(models.DocumentCashInvoice, totals).
			WithPayment(models.ExpectedPayment(k, models.FlowSale)))
	})
}

// TestPendingSaleAdjustments parks carts carrying promotions, discounts and
// negative quantities and pays them in cash
// Feature: Pending sales
//
//	Scenario Outline: Finalize a pending sale with <adjustment>
//	  Given a customer and a product are in the cart
//	  And I applied <adjustment>
//	  When I save the sale and resume it from the pending sales
//	  Then the adjustments are kept
//	  When I pay the total in cash
//	  Then a paid <document> is created with the adjusted totals
func TestPendingSaleAdjustments(t *testing.T) {
	tests := []struct {
		name    string
		adjust  func(s *Scenario) models.CartSpec
		resumed func(s *Scenario) models.CartSpec
		kept    []string
		docType models.DocumentType
	}{
		{
			name: "manual promotion",
			adjust: func(s *Scenario) models.CartSpec {
				s.applyPromotion()
				return s.cart(1).WithPromotions(1)
			},
			kept:    []string{"Manual Promotion"},
			docType: models.DocumentCashInvoice,
		},
		{
			name: "discount changed after resume",
			adjust: func(s *Scenario) models.CartSpec {
				s.applyDiscount(15)
				return s.cart(1).WithDiscount(0, 15)
			},
			resumed: func(s *Scenario) models.CartSpec {
				s.applyDiscount(50)
				return s.cart(1).WithDiscount(0, 50)
			},
			kept:    []string{"Adjustment"},
			docType: models.DocumentCashInvoice,
		},
		{
			name: "promotion and discount",
			adjust: func(s *Scenario) models.CartSpec {
				s.applyPromotion()
				s.applyDiscount(15)
				return s.cart(1).WithDiscount(0, 15).WithPromotions(1)
			},
			kept:    []string{"Manual Promotion", "Adjustment"},
			docType: models.DocumentCashInvoice,
		},
		{
			name: "negative quantity",
			adjust: func(s *Scenario) models.CartSpec {
				s.applyDiscount(5)
				s.negateQuantity()
				return s.cart(-1).WithDiscount(0, 5)
			},
			docType: models.DocumentCreditInvoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScenario(t)

			// Given a customer and a product are in the cart with the adjustment
			s.addCustomerAndProduct()
			totals := s.checkCart(tt.adjust(s))

			// When I save the sale and resume it
			s.parkSale(totals)

			// Then the adjustments are kept
			for _, label := range tt.kept {
				s.containsText(s.Pages.Home.ProductRowDiscount, label, "product row discount")
			}
			if tt.resumed != nil {
				totals = s.checkCart(tt.resumed(s))
			}

			// When I pay the total in cash
			s.openPayment()
			s.pay(models.TenderCash, totals.Total)
			number := s.confirm()

			// Then a paid document is created with the adjusted totals
			s.verify(number, s.expectation(tt.docType, totals).
				WithPayment(models.ExpectedPayment(models.TenderCash, models.FlowSale)))
		})
	}
}

// TestPendingSaleDelete removes a parked sale from the list
// Feature: Pending sales
//
//	Scenario: Delete a pending sale
//	  Given a cart with a 99% discount was saved as a pending sale
//	  When I delete it from the pending sales
//	  Then it is no longer listed
func TestPendingSaleDelete(t *testing.T) {
	s := newScenario(t)
	home := s.Pages.Home
	pending := s.Pages.PendingSales

	// Given a cart with a 99% discount was saved as a pending sale
	s.addCustomerAndProduct()
	s.must(home.ClickDiscounts(), "open discounts")
	s.visible(s.Pages.Discounts.Modal, "discount modal")
	s.must(s.Pages.Discounts.InputPercentage("99"), "input 99%")
	s.containsText(home.ProductRowDiscount, "Adjustment", "product row discount")
	totals := s.checkCart(s.cart(1).WithDiscount(0, 99))

	s.must(home.ClickSaveSale(), "save sale")
	s.notVisible(home.CartTotal, "cart total")
	s.must(home.ClickPendingSales(), "open pending sales")
	s.visible(pending.Modal, "pending sales modal")

	// When I delete it from the pending sales
	s.must(pending.Delete(totals.Total), "delete pending sale")

	// Then it is no longer listed
	s.notVisible(s.Pages.Page.Locator(fmt.Sprintf(`tr:has-text(%q)`, totals.Total)), "pending sale "+totals.Total)
}
