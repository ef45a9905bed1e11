package pages

import (
	"github.com/playwright-community/playwright-go"

	"github.com/posqa/posuite/internal/oracle"
)

// Home is the main POS sale view: header, searches, cart and the function
// and sale option buttons around it.
type Home struct {
	page playwright.Page

	Header          playwright.Locator
	Settings        playwright.Locator
	UserMenu        playwright.Locator
	UserMenuSignOut playwright.Locator
	AlertMessage    playwright.Locator

	CloseBtn             playwright.Locator
	PaymentConfiguration playwright.Locator

	CustomerSearch       playwright.Locator
	CustomerSearchResult playwright.Locator
	ProductSearch        playwright.Locator
	ProductSearchResult  playwright.Locator
	CustomerInfo         playwright.Locator

	EmployeeContainer   playwright.Locator
	EmployeeClockInTime playwright.Locator

	ShoppingCart       playwright.Locator
	ProductRow         playwright.Locator
	ProductRowName     playwright.Locator
	ProductRowQty      playwright.Locator
	ProductRowDiscount playwright.Locator
	CartTotal          playwright.Locator
	CartTotalSum       playwright.Locator
	CartDiscountSum    playwright.Locator
	CartTaxSum         playwright.Locator
	CartNetSum         playwright.Locator

	AddCustomer  playwright.Locator
	RecentSales  playwright.Locator
	PendingSales playwright.Locator
	Orders       playwright.Locator
	Layaways     playwright.Locator
	ClockInOut   playwright.Locator
	Offers       playwright.Locator
	PayAnInvoice playwright.Locator

	GoToMainViewBtn playwright.Locator
	SaveSale        playwright.Locator
	SaveAsOrder     playwright.Locator
	SaveAsLayaway   playwright.Locator
	SaveAsWaybill   playwright.Locator
	Discounts       playwright.Locator
	Promotions      playwright.Locator
	SaveAsOffer     playwright.Locator
	AccountSales    playwright.Locator
	ExtendBtn       playwright.Locator

	ManualPromotion     playwright.Locator
	ClosePromotionsView playwright.Locator

	LockPos   playwright.Locator
	BinSale   playwright.Locator
	ReturnBtn playwright.Locator
	PayBtn    playwright.Locator

	ConfirmationModal playwright.Locator
	ConfirmButton     playwright.Locator
}

// NewHome creates the home page object
func NewHome(page playwright.Page) *Home {
	functionButton := func(key string) playwright.Locator {
		return page.Locator(testKey("function-button", key))
	}
	saleOption := func(key string) playwright.Locator {
		return page.Locator(testKey("sale-option-button", key))
	}

	return &Home{
		page:            page,
		Header:          page.GetByTestId("erply-header"),
		Settings:        page.GetByTestId("header-settings"),
		UserMenu:        page.GetByTestId("header-user-menu"),
		UserMenuSignOut: page.Locator("text=Sign out"),
		AlertMessage:    page.GetByTestId("alert"),

		CloseBtn:             page.GetByTestId("close"),
		PaymentConfiguration: page.Locator(testKey("setting", "Payment Configuration")),

		CustomerSearch:       page.GetByPlaceholder("Customers"),
		CustomerSearchResult: page.GetByTestId("search-results-row"),
		ProductSearch:        page.GetByPlaceholder("Products"),
		ProductSearchResult:  page.Locator(testKey("search-result-product", "1")),
		CustomerInfo:         page.GetByTestId("customer-information-container"),

		EmployeeContainer:   page.GetByTestId("employee-badge-container"),
		EmployeeClockInTime: page.GetByTestId("employee-clock-in-time"),

		ShoppingCart:       page.Locator(".bill-container"),
		ProductRow:         page.GetByTestId("product-row"),
		ProductRowName:     page.GetByTestId("product-name-cell"),
		ProductRowQty:      page.Locator(testKey("amount", "product-amount-1")),
		ProductRowDiscount: page.Locator(`[data-testid="discount"]`),
		CartTotal:          page.GetByTestId("table-total"),
		CartTotalSum:       page.GetByTestId("table-total-sum"),
		CartDiscountSum:    page.GetByTestId("bill-discount-sum"),
		CartTaxSum:         page.GetByTestId("bill-tax-total-sum"),
		CartNetSum:         page.GetByTestId("bill-net-total-sum"),

		AddCustomer:  functionButton("addCustomer"),
		RecentSales:  functionButton("completedSales"),
		PendingSales: functionButton("pendingSales"),
		Orders:       functionButton("orderSales"),
		Layaways:     functionButton("layawaySales"),
		ClockInOut:   functionButton("clockInOut"),
		Offers:       functionButton("offers"),
		PayAnInvoice: functionButton("payAnInvoice"),

		GoToMainViewBtn: saleOption("special-go-to-main-view"),
		SaveSale:        saleOption("saveSale"),
		SaveAsOrder:     saleOption("saveAsOrder"),
		SaveAsLayaway:   saleOption("saveAsLayaway"),
		SaveAsWaybill:   saleOption("saveAsWaybill"),
		Discounts:       saleOption("discount"),
		Promotions:      saleOption("promotions"),
		SaveAsOffer:     saleOption("saveAsOffer"),
		AccountSales:    saleOption("accountSales"),
		ExtendBtn:       saleOption("saleoption-extend-btn"),

		ManualPromotion:     page.GetByTestId("promotion"),
		ClosePromotionsView: page.GetByTestId("custom-close-button"),

		LockPos:   page.GetByTestId("hard-logout-btn"),
		BinSale:   page.GetByTestId("new-sale-btn"),
		ReturnBtn: page.GetByTestId("return-btn"),
		PayBtn:    page.GetByTestId("payment-button"),

		ConfirmationModal: page.GetByTestId("confirmation-modal"),
		ConfirmButton:     page.GetByTestId("confirm-btn"),
	}
}

// OpenPaymentConfiguration opens the payment configuration settings page
func (h *Home) OpenPaymentConfiguration() error {
	return clickAll(h.Settings, h.PaymentConfiguration)
}

// SignOut signs the user out through the user menu
func (h *Home) SignOut() error {
	return clickAll(h.UserMenu, h.UserMenuSignOut)
}

// CloseSettings leaves the settings view
func (h *Home) CloseSettings() error {
	return h.CloseBtn.Click()
}

// SearchCustomer types the name into the customer search and picks the first hit
func (h *Home) SearchCustomer(name string) error {
	if err := h.CustomerSearch.Click(); err != nil {
		return err
	}
	if err := h.CustomerSearch.Fill(name); err != nil {
		return err
	}
	return h.CustomerSearchResult.Click()
}

// SearchProduct types the name into the product search and adds the first hit
func (h *Home) SearchProduct(name string) error {
	if err := h.ProductSearch.Click(); err != nil {
		return err
	}
	if err := h.ProductSearch.Fill(name); err != nil {
		return err
	}
	return h.ProductSearchResult.Click()
}

// OpenProductInformation opens the product form of the first cart row
func (h *Home) OpenProductInformation() error {
	return h.ProductRowName.Click()
}

// CartTotals scrapes the cart totals as displayed
func (h *Home) CartTotals() (oracle.CartTotals, error) {
	var totals oracle.CartTotals
	var err error
	if totals.Total, err = h.CartTotalSum.TextContent(); err != nil {
		return totals, err
	}
	if totals.VatTotal, err = h.CartTaxSum.TextContent(); err != nil {
		return totals, err
	}
	if totals.NetTotal, err = h.CartNetSum.TextContent(); err != nil {
		return totals, err
	}
	return totals, nil
}

// DiscountTotal returns the displayed bill discount
func (h *Home) DiscountTotal() (string, error) {
	return h.CartDiscountSum.TextContent()
}

// ClickRecentSales opens the recent sales list
func (h *Home) ClickRecentSales() error { return h.RecentSales.Click() }

// ClickPendingSales opens the pending sales list
func (h *Home) ClickPendingSales() error { return h.PendingSales.Click() }

// ClickPickupOrders opens the orders list
func (h *Home) ClickPickupOrders() error { return h.Orders.Click() }

// ClickLayaways opens the layaways list
func (h *Home) ClickLayaways() error { return h.Layaways.Click() }

// ClickClockInOut opens the clock in modal
func (h *Home) ClickClockInOut() error { return h.ClockInOut.Click() }

// ClickOffers opens the offers list
func (h *Home) ClickOffers() error { return h.Offers.Click() }

// ClickPayAnInvoice opens the open invoices list
func (h *Home) ClickPayAnInvoice() error { return h.PayAnInvoice.Click() }

// ClickMainView returns from a sale option view to the function buttons
func (h *Home) ClickMainView() error { return h.GoToMainViewBtn.Click() }

func (h *Home) ClickSaveSale() error { return h.SaveSale.Click() }

func (h *Home) ClickSaveAsOrder() error { return h.SaveAsOrder.Click() }

func (h *Home) ClickSaveAsLayaway() error { return h.SaveAsLayaway.Click() }

func (h *Home) ClickSaveAsWaybill() error { return h.SaveAsWaybill.Click() }

func (h *Home) ClickDiscounts() error { return h.Discounts.Click() }

func (h *Home) ClickPromotions() error { return h.Promotions.Click() }

// ClickSaveAsOffer opens the extended sale options and saves the cart as an offer
func (h *Home) ClickSaveAsOffer() error {
	return clickAll(h.ExtendBtn, h.SaveAsOffer)
}

// ClickAccountSales opens the extended sale options and starts an account sale
func (h *Home) ClickAccountSales() error {
	return clickAll(h.ExtendBtn, h.AccountSales)
}

// ApplyManualPromotion applies the first manual promotion and closes the view
func (h *Home) ApplyManualPromotion() error {
	return clickAll(h.ManualPromotion, h.ClosePromotionsView)
}

// LockPOS locks the register, the user has to sign in again with a PIN
func (h *Home) LockPOS() error { return h.LockPos.Click() }

// ClickBinSale discards the current cart
func (h *Home) ClickBinSale() error { return h.BinSale.Click() }

// ClickReturn toggles return mode
func (h *Home) ClickReturn() error { return h.ReturnBtn.Click() }

// ClickPay opens the payment modal
func (h *Home) ClickPay() error { return h.PayBtn.Click() }

// ClickOk confirms the confirmation modal
func (h *Home) ClickOk() error { return h.ConfirmButton.Click() }
