package cart

import (
	"villfresh_store/internal/domain/cart/handler"
	"villfresh_store/internal/domain/cart/repository"
	"villfresh_store/internal/domain/cart/service"
	"villfresh_store/internal/pkg/middleware"
	"villfresh_store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

type CartModule struct{}

func init() {
	registry.Register(&CartModule{})
}

func (m *CartModule) Name() string {
	return "cart"
}

func (m *CartModule) Priority() int {
	return 15
}

func (m *CartModule) Init(ctx *registry.ModuleContext) error {
	cRepo := repository.NewCartRepository(ctx.DB)
	cService := service.NewCartService(cRepo)
	cHandler := handler.NewCartHandler(cService)

	setupRoutes(ctx.Router, cHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CartHandler) {
	g := r.Group("/api/cart")
	g.Use(middleware.AuthMiddleware())
	{
		g.GET("", h.GetCart)
		g.POST("/add", h.AddToCart)
		g.PUT("/update", h.UpdateCart)
		g.DELETE("/remove", h.RemoveFromCart)
		g.DELETE("/clear", h.ClearCart)
	}
}
