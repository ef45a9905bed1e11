package pages

import "github.com/playwright-community/playwright-go"

// ProductInformation is the form opened from a cart row
type ProductInformation struct {
	Modal               playwright.Locator
	ProductDetailsBtn   playwright.Locator
	EditProductBtn      playwright.Locator
	CloseBtn            playwright.Locator
	DecreaseQuantityBtn playwright.Locator
	Quantity            playwright.Locator
}

// NewProductInformation creates the product information page object
func NewProductInformation(page playwright.Page) *ProductInformation {
	return &ProductInformation{
		Modal:               page.GetByTestId("product-order-form"),
		ProductDetailsBtn:   page.Locator(testKey("action", "Product details")),
		EditProductBtn:      page.Locator(testKey("action", "Edit product")),
		CloseBtn:            page.GetByTestId("custom-close-button"),
		DecreaseQuantityBtn: page.GetByTestId("decrease-btn"),
		Quantity:            page.GetByTestId("amount"),
	}
}

// Close closes the form and applies the edits
func (p *ProductInformation) Close() error { return p.CloseBtn.Click() }

// DecreaseQuantity lowers the row quantity by one
func (p *ProductInformation) DecreaseQuantity() error { return p.DecreaseQuantityBtn.Click() }
