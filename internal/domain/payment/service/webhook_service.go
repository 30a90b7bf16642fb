package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	orderModel "villfresh_store/internal/domain/order/model"
	orderRepo "villfresh_store/internal/domain/order/repository"
	"villfresh_store/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Webhook outcomes, used for the response body and metrics.
const (
	OutcomePaid      = "paid"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
	OutcomePending   = "pending"
	OutcomeNoop      = "noop"
)

// amountTolerance is the maximum accepted difference (in rupees) between
// the order total and the gateway-settled amount.
const amountTolerance = 0.01

// Notifier schedules the order-confirmation mail; implemented by the
// notification worker pool.
type Notifier interface {
	EnqueueConfirmation(orderID, recipient string)
}

// WebhookService applies a verified webhook payload to its order. This is
// the only code path allowed to mark an order paid.
type WebhookService interface {
	Process(payload map[string]interface{}) (string, error)
}

type webhookService struct {
	orders   orderRepo.OrderRepository
	notifier Notifier
}

func NewWebhookService(orders orderRepo.OrderRepository, notifier Notifier) WebhookService {
	return &webhookService{orders: orders, notifier: notifier}
}

// Process normalizes the payload shape, correlates the order, and
// performs the idempotent state transition. Signature verification has
// already happened; payload here is trusted to be authentic.
func (s *webhookService) Process(payload map[string]interface{}) (string, error) {
	data := unwrapResponse(payload)

	merchantTxnID := extractString(data, "merchantTransactionId")
	gatewayTxnID := extractString(data, "transactionId")
	state := extractString(data, "state")
	code := firstString(data["code"], payload["code"])

	if merchantTxnID == "" {
		return "", ErrMissingReference
	}

	order, err := s.orders.GetByID(merchantTxnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOrderNotFound
		}
		return "", err
	}

	switch {
	case state == "SUCCESS" || code == "PAYMENT_SUCCESS":
		return s.applySuccess(order, gatewayTxnID, data)

	case state == "FAILED" || code == "PAYMENT_ERROR":
		transitioned, err := s.orders.MarkFailed(order.ID)
		if err != nil {
			return "", err
		}
		if transitioned {
			logger.Log.Info("order payment failed via webhook", zap.String("order_id", order.ID))
			return OutcomeFailed, nil
		}
		return OutcomeNoop, nil

	default:
		// PENDING or anything unrecognized: acknowledge, mutate nothing.
		return OutcomePending, nil
	}
}

func (s *webhookService) applySuccess(order *orderModel.Order, gatewayTxnID string, data map[string]interface{}) (string, error) {
	// Fraud check before any mutation: the settled amount arrives in
	// paise and must match the order total.
	if paise, ok := extractAmount(data); ok {
		webhookAmount := paise / 100
		if math.Abs(webhookAmount-order.Total) > amountTolerance {
			logger.Log.Error("webhook amount mismatch",
				zap.String("order_id", order.ID),
				zap.Float64("expected", order.Total),
				zap.Float64("got", webhookAmount),
			)
			return "", fmt.Errorf("%w: expected %.2f, got %.2f", ErrAmountMismatch, order.Total, webhookAmount)
		}
	}

	transitioned, err := s.orders.MarkPaid(order.ID, gatewayTxnID)
	if err != nil {
		return "", err
	}
	if !transitioned {
		// Redelivery of a webhook already applied; acknowledge as no-op.
		return OutcomeDuplicate, nil
	}

	logger.Log.Info("order marked as paid via webhook verification", zap.String("order_id", order.ID))

	if s.notifier != nil {
		s.notifier.EnqueueConfirmation(order.ID, order.Recipient())
	}

	return OutcomePaid, nil
}

// unwrapResponse handles the two delivery shapes: fields at the top level
// or nested under response (as an object or a base64-encoded JSON blob).
// Falls back to the outer object when unwrapping fails.
func unwrapResponse(payload map[string]interface{}) map[string]interface{} {
	raw, ok := payload["response"]
	if !ok {
		return payload
	}

	switch v := raw.(type) {
	case string:
		blob, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return payload
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(blob, &decoded); err != nil {
			return payload
		}
		return decoded
	case map[string]interface{}:
		return v
	default:
		return payload
	}
}

// extractString looks for key at data.<key> first, then at the top level.
func extractString(m map[string]interface{}, key string) string {
	if inner, ok := m["data"].(map[string]interface{}); ok {
		if s, ok := inner[key].(string); ok && s != "" {
			return s
		}
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// extractAmount returns the settled amount in paise when present.
func extractAmount(m map[string]interface{}) (float64, bool) {
	if inner, ok := m["data"].(map[string]interface{}); ok {
		if f, ok := inner["amount"].(float64); ok {
			return f, true
		}
	}
	if f, ok := m["amount"].(float64); ok {
		return f, true
	}
	return 0, false
}

func firstString(vals ...interface{}) string {
	for _, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}
