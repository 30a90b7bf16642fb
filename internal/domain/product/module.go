package product

import (
	"villfresh_store/internal/domain/product/handler"
	"villfresh_store/internal/domain/product/repository"
	"villfresh_store/internal/domain/product/service"
	"villfresh_store/internal/pkg/middleware"
	"villfresh_store/internal/pkg/registry"
	"villfresh_store/pkg/cache"

	"github.com/gin-gonic/gin"
)

// ProductModule wires the catalog: repository, cached service, routes.
type ProductModule struct{}

func init() {
	registry.Register(&ProductModule{})
}

func (m *ProductModule) Name() string {
	return "product"
}

func (m *ProductModule) Priority() int {
	return 10
}

func (m *ProductModule) Init(ctx *registry.ModuleContext) error {
	pRepo := repository.NewProductRepository(ctx.DB)

	var pService service.ProductService
	if ctx.Redis != nil {
		pService = service.NewCachedProductService(pRepo, cache.NewRedisCache(ctx.Redis))
	} else {
		pService = service.NewProductService(pRepo)
	}

	pHandler := handler.NewProductHandler(pService)
	setupRoutes(ctx.Router, pHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ProductHandler) {
	g := r.Group("/api/products")

	// Catalog reads are public
	g.GET("", h.GetProducts)
	g.GET("/:id", h.GetProduct)

	// Writes are admin-only
	admin := g.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("", h.CreateProduct)
		admin.PUT("/:id", h.UpdateProduct)
		admin.DELETE("/:id", h.DeleteProduct)
	}
}
