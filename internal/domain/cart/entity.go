// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/pkg/money"
)

// PaymentMethod is the closed set of payment choices
type PaymentMethod string

const (
	PaymentMethodCardOrWallet   PaymentMethod = "card_or_wallet"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// Valid reports whether the payment method is one of the known choices.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCardOrWallet || m == PaymentMethodCashOnDelivery
}

// Address is the shipping destination collected during checkout
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// MissingFields returns the names of address fields that are empty.
func (a Address) MissingFields() []string {
	var missing []string
	if a.Street == "" {
		missing = append(missing, "street")
	}
	if a.City == "" {
		missing = append(missing, "city")
	}
	if a.PostalCode == "" {
		missing = append(missing, "postal_code")
	}
	if a.Country == "" {
		missing = append(missing, "country")
	}
	return missing
}

// Line is one product plus quantity entry in a cart. Identity is ProductID;
// the rest is a snapshot taken when the line was added or last replaced.
type Line struct {
	ProductID  uint   `json:"product_id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"` // In cents
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
	StockLimit int    `json:"stock_limit"`
}

// Cart represents the items a shopper intends to buy, with derived pricing.
// The four price fields are never set directly; Recalculate derives them from
// Lines after every line mutation.
type Cart struct {
	Lines           []Line        `json:"lines"`
	ShippingAddress *Address      `json:"shipping_address,omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method,omitempty"`
	ItemsTotal      int64         `json:"items_total"`
	ShippingFee     int64         `json:"shipping_fee"`
	Tax             int64         `json:"tax"`
	GrandTotal      int64         `json:"grand_total"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	now := time.Now().UTC()
	return &Cart{
		Lines:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// FindLine returns the index of the line with the given product id, or -1.
func (c *Cart) FindLine(productID uint) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Recalculate derives the four price fields from Lines. Each field is rounded
// to two decimals independently, half away from zero; the shipping fee is the
// flat fee unless the items total exceeds the free-shipping threshold. An
// empty cart collapses every total to zero.
func (c *Cart) Recalculate(pricing config.PricingConfig) {
	if len(c.Lines) == 0 {
		c.ItemsTotal = 0
		c.ShippingFee = 0
		c.Tax = 0
		c.GrandTotal = 0
		return
	}

	items := decimal.Zero
	for _, line := range c.Lines {
		items = items.Add(money.FromCents(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	c.ItemsTotal = money.Round2Cents(items)

	if c.ItemsTotal > pricing.FreeShippingThreshold {
		c.ShippingFee = 0
	} else {
		c.ShippingFee = pricing.ShippingFee
	}

	c.Tax = money.Round2Cents(money.FromCents(c.ItemsTotal).Mul(pricing.TaxRate))

	c.GrandTotal = money.Round2Cents(
		money.FromCents(c.ItemsTotal).
			Add(money.FromCents(c.ShippingFee)).
			Add(money.FromCents(c.Tax)))
}

// lineFromSnapshot builds a cart line from a catalog snapshot with the given
// absolute quantity.
func lineFromSnapshot(snap *product.Snapshot, quantity int) Line {
	return Line{
		ProductID:  snap.ProductID,
		Name:       snap.Name,
		UnitPrice:  snap.UnitPrice,
		Image:      snap.Image,
		Quantity:   quantity,
		StockLimit: snap.StockLimit,
	}
}
