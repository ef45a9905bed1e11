package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cart errors
var (
	ErrEmptyCart         = errors.New("cart must contain at least one line")
	ErrInvalidCartLine   = errors.New("cart line must reference a product and a non-zero amount")
	ErrInvalidDiscount   = errors.New("discount percentage must be between 0 and 100")
	ErrMissingWarehouse  = errors.New("warehouse id is required")
	ErrMissingClientCode = errors.New("client code is required")
)

// CartLine is a single product row of a shopping cart.
// A negative Amount describes a returned item.
type CartLine struct {
	ProductID int
	Amount    float64
	Discount  float64
}

// CartSpec describes a cart for the calculateShoppingCart oracle
type CartSpec struct {
	Lines              []CartLine
	ManualPromotionIDs []int
	WarehouseID        string
	ClientCode         string
}

// NewCart builds a single-line cart spec
func NewCart(productID int, amount float64) CartSpec {
	return CartSpec{Lines: []CartLine{{ProductID: productID, Amount: amount}}}
}

// WithDiscount sets a percentage discount on the line at index i
func (c CartSpec) WithDiscount(i int, percent float64) CartSpec {
	lines := append([]CartLine(nil), c.Lines...)
	if i >= 0 && i < len(lines) {
		lines[i].Discount = percent
	}
	c.Lines = lines
	return c
}

// WithPromotions applies manual promotions to the cart
func (c CartSpec) WithPromotions(ids ...int) CartSpec {
	c.ManualPromotionIDs = append(append([]int(nil), c.ManualPromotionIDs...), ids...)
	return c
}

// Validate checks the cart before it is sent to the backend
func (c CartSpec) Validate() error {
	if len(c.Lines) == 0 {
		return ErrEmptyCart
	}
	for i, line := range c.Lines {
		if line.ProductID <= 0 || line.Amount == 0 {
			return fmt.Errorf("line %d: %w", i+1, ErrInvalidCartLine)
		}
		if line.Discount < 0 || line.Discount > 100 {
			return fmt.Errorf("line %d: %w", i+1, ErrInvalidDiscount)
		}
	}
	if c.WarehouseID == "" {
		return ErrMissingWarehouse
	}
	if c.ClientCode == "" {
		return ErrMissingClientCode
	}
	return nil
}

// Params encodes the cart into the indexed parameters of the verb API
// (productID1, amount1, discount1, ...). The request name is not included.
func (c CartSpec) Params() map[string]string {
	params := map[string]string{
		"clientCode":  c.ClientCode,
		"warehouseID": c.WarehouseID,
	}
	for i, line := range c.Lines {
		n := strconv.Itoa(i + 1)
		params["productID"+n] = strconv.Itoa(line.ProductID)
		params["amount"+n] = formatNumber(line.Amount)
		if line.Discount != 0 {
			params["discount"+n] = formatNumber(line.Discount)
		}
	}
	if len(c.ManualPromotionIDs) > 0 {
		ids := make([]string, 0, len(c.ManualPromotionIDs))
		for _, id := range c.ManualPromotionIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		params["manualPromotionIDs"] = strings.Join(ids, ",")
	}
	return params
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CartRow is the per-row breakdown of a cart computation
type CartRow struct {
	RowNumber                  int    `json:"rowNumber"`
	ProductID                  string `json:"productID"`
	Amount                     Amount `json:"amount"`
	VatRateID                  int    `json:"vatrateID"`
	VatRate                    Amount `json:"vatRate"`
	OriginalPrice              Amount `json:"originalPrice"`
	OriginalPriceWithVAT       Amount `json:"originalPriceWithVAT"`
	ManualDiscountPrice        Amount `json:"manualDiscountPrice"`
	ManualDiscountPriceWithVAT Amount `json:"manualDiscountPriceWithVAT"`
	PromotionPrice             Amount `json:"promotionPrice"`
	PromotionPriceWithVAT      Amount `json:"promotionPriceWithVAT"`
	PromotionDiscount          Amount `json:"promotionDiscount"`
	ManualDiscount             Amount `json:"manualDiscount"`
	Discount                   Amount `json:"discount"`
	FinalPrice                 Amount `json:"finalPrice"`
	FinalPriceWithVAT          Amount `json:"finalPriceWithVAT"`
	RowNetTotal                Amount `json:"rowNetTotal"`
	RowVAT                     Amount `json:"rowVAT"`
	RowTotal                   Amount `json:"rowTotal"`
}

// CartResult is the backend's computation of a cart, used as ground truth
type CartResult struct {
	Rows                  []CartRow         `json:"rows"`
	NetTotal              Amount            `json:"netTotal"`
	VatTotal              Amount            `json:"vatTotal"`
	Rounding              Amount            `json:"rounding"`
	Total                 Amount            `json:"total"`
	UsedCouponIdentifiers string            `json:"usedCouponIdentifiers"`
	AppliedPromotions     []json.RawMessage `json:"appliedPromotions"`
}
