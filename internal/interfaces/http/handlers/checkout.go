// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout flow endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CheckoutHandler {
	cartService := cart.NewService(cart.NewRedisStore(redisClient), product.NewService(db, cfg), cfg.Pricing)
	orderService := order.NewService(order.NewPostgresStore(db))

	return &CheckoutHandler{
		checkoutService: checkout.NewService(
			checkout.NewRedisStore(redisClient),
			checkout.NewRedisLocker(redisClient, 30*time.Second),
			cartService,
			orderService,
		),
	}
}

// PaymentMethodRequest selects how the order will be paid.
type PaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// GetState handles GET /checkout
func (h *CheckoutHandler) GetState(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	state, err := h.checkoutService.Current(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout state retrieved successfully",
		"data":    state,
	})
}

// SubmitAddress handles PUT /checkout/address
func (h *CheckoutHandler) SubmitAddress(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var addr cart.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		respondBindingError(c, err)
		return
	}

	state, err := h.checkoutService.SubmitAddress(c.Request.Context(), userID, addr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping address saved",
		"data":    state,
	})
}

// SelectPaymentMethod handles PUT /checkout/payment-method
func (h *CheckoutHandler) SelectPaymentMethod(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	state, err := h.checkoutService.SelectPaymentMethod(c.Request.Context(), userID, cart.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment method saved",
		"data":    state,
	})
}

// Review handles POST /checkout/review
func (h *CheckoutHandler) Review(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	review, err := h.checkoutService.EnterReview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order ready for review",
		"data":    review,
	})
}

// Submit handles POST /checkout/submit and POST /orders
func (h *CheckoutHandler) Submit(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	o, err := h.checkoutService.Submit(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    o,
	})
}
