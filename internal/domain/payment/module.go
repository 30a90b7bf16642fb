package payment

import (
	"villfresh_store/internal/domain/order/repository"
	"villfresh_store/internal/domain/payment/handler"
	"villfresh_store/internal/domain/payment/service"
	"villfresh_store/internal/pkg/config"
	"villfresh_store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PaymentModule wires the webhook endpoint, the single authoritative
// path by which an order becomes paid.
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// after the order module it writes into
	return 30
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	orders := repository.NewOrderRepository(ctx.DB)

	var notifier service.Notifier
	if ctx.Notifier != nil {
		notifier = ctx.Notifier
	}
	wService := service.NewWebhookService(orders, notifier)
	wHandler := handler.NewWebhookHandler(wService, config.GlobalConfig.PhonePe)

	setupRoutes(ctx.Router, wHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.WebhookHandler) {
	// No auth middleware here: the gateway authenticates via X-VERIFY.
	r.POST("/api/payments/webhook", h.Webhook)
}
