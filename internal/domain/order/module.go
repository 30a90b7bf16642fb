package order

import (
	"villfresh_store/internal/domain/order/handler"
	"villfresh_store/internal/domain/order/repository"
	"villfresh_store/internal/domain/order/service"
	"villfresh_store/internal/domain/payment/gateway"
	productRepo "villfresh_store/internal/domain/product/repository"
	"villfresh_store/internal/pkg/config"
	"villfresh_store/internal/pkg/middleware"
	"villfresh_store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

// Priority 20: after product (stock checks) and before payment webhook
// wiring, which shares the same order repository semantics.
func (m *OrderModule) Priority() int {
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	oRepo := repository.NewOrderRepository(ctx.DB)
	pRepo := productRepo.NewProductRepository(ctx.DB)
	gw := gateway.NewClient(config.GlobalConfig.PhonePe)

	var notifier service.Notifier
	if ctx.Notifier != nil {
		notifier = ctx.Notifier
	}

	oService := service.NewOrderService(oRepo, pRepo, gw, notifier)
	oHandler := handler.NewOrderHandler(oService)

	setupRoutes(ctx.Router, oHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/api/orders")
	g.Use(middleware.AuthMiddleware())
	{
		g.POST("", h.CreateOrder)
		g.GET("/my-orders", h.GetMyOrders)
		g.GET("/:id", h.GetOrder)
		g.GET("/:id/payment-status", h.CheckPaymentStatus)

		admin := g.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("", h.GetAllOrders)
			admin.PUT("/:id/status", h.UpdateOrderStatus)
		}
	}
}
