// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// respondError maps domain errors onto the API error contract: a JSON
// body with a human message and a machine-readable kind. Anything not
// recognized is a 500 with the detail withheld.
func respondError(c *gin.Context, err error) {
	var addrErr *checkout.AddressValidationError
	if errors.As(err, &addrErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  addrErr.Error(),
			"kind":   "validation_error",
			"fields": addrErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "kind": "unauthorized"})
	case errors.Is(err, user.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "conflict"})
	case errors.Is(err, checkout.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "conflict"})
	case errors.Is(err, order.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "kind": "forbidden"})
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "not_found"})
	case errors.Is(err, order.ErrInvalidOrderID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "invalid_identifier"})
	case errors.Is(err, order.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "empty_order"})
	case errors.Is(err, checkout.ErrAddressRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "checkout_redirect", "redirect": "address"})
	case errors.Is(err, checkout.ErrPaymentMethodRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "checkout_redirect", "redirect": "payment-method"})
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrInvalidPaymentMethod),
		errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation_error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": "internal_error"})
	}
}

// respondBindingError reports a malformed or incomplete request body.
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"kind":    "validation_error",
		"details": err.Error(),
	})
}
