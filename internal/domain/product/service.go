// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by,default=created_at"`
	SortOrder string `form:"sort_order,default=desc"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Price       int64  `json:"price" binding:"required,min=0"`
	Stock       int    `json:"stock" binding:"min=0"`
	IsActive    *bool  `json:"is_active"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Brand       *string `json:"brand"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
	IsActive    *bool   `json:"is_active"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Where("is_active = ?", true)

	if req.Search != "" {
		like := "%" + req.Search + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ? OR category ILIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var prod Product
	result := s.db.Where("id = ? AND is_active = ?", id, true).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &prod, nil
}

// ProductSnapshot returns the line-item snapshot for a product. It satisfies
// the cart's SnapshotSource interface.
func (s *Service) ProductSnapshot(ctx context.Context, productID uint) (*Snapshot, error) {
	prod, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	snap := prod.Snapshot()
	return &snap, nil
}

// CreateProduct creates a new product, admin only
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	prod := Product{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Image:       req.Image,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    true,
	}
	if req.IsActive != nil {
		prod.IsActive = *req.IsActive
	}

	if err := s.db.Create(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &prod, nil
}

// UpdateProduct updates an existing product, admin only
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var prod Product
	if err := s.db.First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Brand != nil {
		prod.Brand = *req.Brand
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.Image != nil {
		prod.Image = *req.Image
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}
	if req.IsActive != nil {
		prod.IsActive = *req.IsActive
	}

	if err := s.db.Save(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &prod, nil
}

// DeleteProduct soft-deletes a product, admin only
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"price":      true,
		"name":       true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
