// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/cart"
)

// Order is an immutable snapshot of a cart at submission time. Totals are
// copied as-is, never recomputed.
type Order struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          uint         `json:"user_id" gorm:"not null;index"`
	Lines           []OrderLine  `json:"lines" gorm:"foreignKey:OrderID"`
	ShippingAddress cart.Address `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`
	PaymentMethod   string       `json:"payment_method" gorm:"size:50;not null"`
	ItemsTotal      int64        `json:"items_total" gorm:"not null"`
	ShippingFee     int64        `json:"shipping_fee" gorm:"not null"`
	Tax             int64        `json:"tax" gorm:"not null"`
	GrandTotal      int64        `json:"grand_total" gorm:"not null"`
	IsPaid          bool         `json:"is_paid" gorm:"default:false"`
	PaidAt          *time.Time   `json:"paid_at,omitempty"`
	IsDelivered     bool         `json:"is_delivered" gorm:"default:false"`
	DeliveredAt     *time.Time   `json:"delivered_at,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderLine is one purchased line, frozen from the cart line.
type OrderLine struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	OrderID   uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	UnitPrice int64     `json:"unit_price" gorm:"not null"`
	Image     string    `json:"image" gorm:"size:500"`
	Quantity  int       `json:"quantity" gorm:"not null"`
}

// OwnedOrder is the admin listing projection: an order plus its owner's
// display name, resolved at read time.
type OwnedOrder struct {
	Order
	OwnerName string `json:"owner_name" gorm:"-"`
}

// fromCart freezes the cart into a new order for the given user.
func fromCart(userID uint, c *cart.Cart) *Order {
	o := &Order{
		UserID:        userID,
		PaymentMethod: string(c.PaymentMethod),
		ItemsTotal:    c.ItemsTotal,
		ShippingFee:   c.ShippingFee,
		Tax:           c.Tax,
		GrandTotal:    c.GrandTotal,
	}
	if c.ShippingAddress != nil {
		o.ShippingAddress = *c.ShippingAddress
	}
	for _, l := range c.Lines {
		o.Lines = append(o.Lines, OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Image:     l.Image,
			Quantity:  l.Quantity,
		})
	}
	return o
}
