// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: users and products first, orders reference both.
	models := []interface{}{
		&user.User{},
		&product.Product{},
		&order.Order{},
		&order.OrderLine{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_active_created ON products(is_active, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_is_paid ON orders(is_paid)",
		"CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
		}
	}

	log.Println("✅ Database indexes ready")
	return nil
}

// SeedInitialData inserts development fixtures: an admin account and a
// small product catalog. Every insert is guarded by an exists check, so
// re-running it is safe.
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedSampleProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := user.User{
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		Name:     "Admin User",
		IsActive: true,
		IsAdmin:  true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("✅ Created admin user: admin@example.com")
	return nil
}

func (m *Migration) seedSampleProducts() error {
	products := []product.Product{
		{
			Name:        "Wireless Mechanical Keyboard",
			Description: "Hot-swappable switches, tri-mode connectivity",
			Brand:       "Keychron",
			Category:    "Electronics",
			Image:       "/images/keyboard.jpg",
			Price:       9999, // 99.99
			Stock:       25,
			IsActive:    true,
		},
		{
			Name:        "4K Monitor 27\"",
			Description: "IPS panel, USB-C with 90W power delivery",
			Brand:       "Dell",
			Category:    "Electronics",
			Image:       "/images/monitor.jpg",
			Price:       44900, // 449.00
			Stock:       10,
			IsActive:    true,
		},
		{
			Name:        "Noise Cancelling Headphones",
			Description: "Over-ear, 30h battery, multipoint bluetooth",
			Brand:       "Sony",
			Category:    "Electronics",
			Image:       "/images/headphones.jpg",
			Price:       29900, // 299.00
			Stock:       18,
			IsActive:    true,
		},
		{
			Name:        "Standing Desk Frame",
			Description: "Dual motor, 120kg load, memory presets",
			Brand:       "Flexispot",
			Category:    "Home & Office",
			Image:       "/images/desk.jpg",
			Price:       119900, // 1199.00
			Stock:       5,
			IsActive:    true,
		},
		{
			Name:        "USB-C Dock",
			Description: "Dual HDMI, gigabit ethernet, SD reader",
			Brand:       "Anker",
			Category:    "Electronics",
			Image:       "/images/dock.jpg",
			Price:       7900, // 79.00
			Stock:       40,
			IsActive:    true,
		},
	}

	for _, p := range products {
		var existing product.Product
		result := m.db.Where("name = ?", p.Name).First(&existing)
		if result.Error == nil {
			continue
		}
		if err := m.db.Create(&p).Error; err != nil {
			return err
		}
		log.Printf("✅ Created product: %s", p.Name)
	}

	return nil
}
