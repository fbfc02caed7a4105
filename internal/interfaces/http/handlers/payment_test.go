package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/your-org/storefront-backend/internal/config"
)

func webhookRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := &PaymentHandler{
		config: &config.Config{Payment: config.PaymentConfig{WebhookSecret: secret}},
	}

	r := gin.New()
	r.POST("/webhooks/payment", h.Webhook)
	return r
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	r := webhookRouter("topsecret")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r := webhookRouter("topsecret")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(`{}`))
	req.Header.Set("X-Payment-Signature", "deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsEverythingWithoutSecret(t *testing.T) {
	r := webhookRouter("")

	body := `{"order_id":"x","success":true}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("X-Payment-Signature", sign("", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookAcknowledgesFailedPayment(t *testing.T) {
	r := webhookRouter("topsecret")

	// success=false is acknowledged without touching any order.
	body := `{"order_id":"3f0f4a9e-8f1f-4f6c-9a2e-0d9c1b2a3c4d","success":false}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("X-Payment-Signature", sign("topsecret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "received")
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	r := webhookRouter("topsecret")

	body := `{"order_id":`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	req.Header.Set("X-Payment-Signature", sign("topsecret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
