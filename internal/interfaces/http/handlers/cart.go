// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	store := cart.NewRedisStore(redisClient)
	catalog := product.NewService(db, cfg)
	return &CartHandler{
		cartService: cart.NewService(store, catalog, cfg.Pricing),
	}
}

// UpsertLineRequest carries the absolute quantity for a cart line.
type UpsertLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	cartDoc, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartDoc,
	})
}

// UpsertLine handles POST /cart/items
func (h *CartHandler) UpsertLine(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req UpsertLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	cartDoc, err := h.cartService.UpsertLine(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    cartDoc,
	})
}

// RemoveLine handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveLine(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	productID, err := parseUintParam(c, "productId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
			"kind":  "invalid_identifier",
		})
		return
	}

	cartDoc, err := h.cartService.RemoveLine(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart",
		"data":    cartDoc,
	})
}

// IncrementLine handles POST /cart/items/:productId/increment
func (h *CartHandler) IncrementLine(c *gin.Context) {
	h.adjustLine(c, h.cartService.IncrementLine)
}

// DecrementLine handles POST /cart/items/:productId/decrement
func (h *CartHandler) DecrementLine(c *gin.Context) {
	h.adjustLine(c, h.cartService.DecrementLine)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	cartDoc, err := h.cartService.Clear(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cartDoc,
	})
}

func (h *CartHandler) adjustLine(c *gin.Context, adjust func(ctx context.Context, userID, productID uint) (*cart.Cart, error)) {
	userID, _ := middleware.GetUserIDFromContext(c)

	productID, err := parseUintParam(c, "productId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
			"kind":  "invalid_identifier",
		})
		return
	}

	cartDoc, err := adjust(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart updated successfully",
		"data":    cartDoc,
	})
}
