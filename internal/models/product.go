package models

// LocalizedName holds the per-language names of a catalog product
type LocalizedName struct {
	EN string `json:"en"`
}

// Product is a catalog record as returned by the product-catalog endpoint
type Product struct {
	ID           int           `json:"id"`
	Status       string        `json:"status"`
	Name         LocalizedName `json:"name"`
	Code         string        `json:"code"`
	Code2        string        `json:"code2"`
	Code3        string        `json:"code3"`
	Price        Amount        `json:"price"`
	PriceWithTax Amount        `json:"price_with_tax"`
	TaxRateID    int           `json:"tax_rate_id"`
}

// Valid reports whether the record carries the fields the fixture is keyed by
func (p Product) Valid() bool {
	return p.ID != 0 && p.Name.EN != ""
}

// ProductFixtures maps the English product name to the product record
type ProductFixtures map[string]Product

// Get returns the product with the given English name
func (f ProductFixtures) Get(name string) (Product, bool) {
	p, ok := f[name]
	return p, ok
}
