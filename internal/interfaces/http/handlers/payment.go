// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// PaymentHandler handles payment provider callbacks
type PaymentHandler struct {
	orderService *order.Service
	config       *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		orderService: order.NewService(order.NewPostgresStore(db)),
		config:       cfg,
	}
}

// WebhookPayload is the payment provider's confirmation message.
type WebhookPayload struct {
	OrderID string `json:"order_id"`
	Success bool   `json:"success"`
}

// Webhook handles POST /webhooks/payment. The signature covers the raw
// body; parsing happens only after verification.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
			"kind":  "validation_error",
		})
		return
	}

	signature := c.GetHeader("X-Payment-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing signature header",
			"kind":  "validation_error",
		})
		return
	}

	if !h.verifySignature(body, signature) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid signature",
			"kind":  "unauthorized",
		})
		return
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON payload",
			"kind":  "validation_error",
		})
		return
	}

	if !payload.Success {
		// Failed payments are acknowledged but change nothing.
		logrus.WithField("order_id", payload.OrderID).Warn("Payment failure reported by provider")
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	if _, err := h.orderService.MarkPaid(c.Request.Context(), payload.OrderID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// verifySignature checks the HMAC-SHA256 of the raw body against the
// shared webhook secret. An empty secret rejects everything.
func (h *PaymentHandler) verifySignature(body []byte, signature string) bool {
	if h.config.Payment.WebhookSecret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.config.Payment.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}
