// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a sellable catalog item
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Brand       string         `gorm:"size:255" json:"brand"`
	Category    string         `gorm:"size:255" json:"category"`
	Image       string         `gorm:"size:500" json:"image"`
	Price       int64          `gorm:"not null" json:"price"` // Price in cents
	Stock       int            `gorm:"default:0" json:"stock"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// Snapshot is the copied-by-value view of a product taken when a cart line is
// added or updated. It is intentionally detached from later catalog changes.
type Snapshot struct {
	ProductID  uint   `json:"product_id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"` // In cents
	Image      string `json:"image"`
	StockLimit int    `json:"stock_limit"`
}

// Snapshot returns the line-item snapshot of the product.
func (p *Product) Snapshot() Snapshot {
	return Snapshot{
		ProductID:  p.ID,
		Name:       p.Name,
		UnitPrice:  p.Price,
		Image:      p.Image,
		StockLimit: p.Stock,
	}
}
