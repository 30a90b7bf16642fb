package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"villfresh_store/internal/domain/payment/gateway"
	"villfresh_store/internal/domain/payment/service"
	"villfresh_store/internal/pkg/config"
	"villfresh_store/pkg/logger"
	"villfresh_store/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives asynchronous payment notifications from the
// gateway. No authentication: the X-VERIFY signature is the sole gate.
type WebhookHandler struct {
	service service.WebhookService
	cfg     config.PhonePeConfig
}

func NewWebhookHandler(s service.WebhookService, cfg config.PhonePeConfig) *WebhookHandler {
	return &WebhookHandler{service: s, cfg: cfg}
}

// Webhook handles POST /api/payments/webhook.
//
// Transport and auth failures (malformed body, missing/invalid signature,
// unknown reference, unknown order) get real HTTP error codes. Everything
// past those gates responds 200 so the gateway stops redelivering, with
// the processing result reported in the body.
func (h *WebhookHandler) Webhook(c *gin.Context) {
	collector := metrics.GetGlobalCollector()

	// The exact request bytes are hashed for verification, so the body
	// must be read raw, before any JSON binding.
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook data format"})
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		logger.Log.Error("error parsing webhook body", zap.Error(err))
		collector.RecordWebhook("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook data format"})
		return
	}

	xVerify := c.GetHeader("X-VERIFY")
	if xVerify == "" {
		logger.Log.Error("missing X-VERIFY header in webhook")
		collector.RecordWebhook("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing X-VERIFY header"})
		return
	}

	if !gateway.VerifyCallback(raw, xVerify, h.cfg.SaltKey, h.cfg.SaltIndex) {
		logger.Log.Error("invalid webhook signature")
		collector.RecordWebhook("rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	outcome, err := h.service.Process(payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingReference):
			collector.RecordWebhook("rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing merchant transaction ID"})
		case errors.Is(err, service.ErrOrderNotFound):
			collector.RecordWebhook("rejected")
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrAmountMismatch):
			collector.RecordWebhook("amount_mismatch")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount mismatch"})
		default:
			// Internal failure after the gates: acknowledge receipt so the
			// gateway does not redeliver, report failure in the body.
			logger.Log.Error("webhook processing error", zap.Error(err))
			collector.RecordWebhook("error")
			c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	collector.RecordWebhook(outcome)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Webhook processed"})
}
