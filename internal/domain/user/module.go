package user

import (
	"villfresh_store/internal/domain/user/handler"
	"villfresh_store/internal/domain/user/repository"
	"villfresh_store/internal/domain/user/service"
	"villfresh_store/internal/pkg/middleware"
	"villfresh_store/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

type UserModule struct{}

func init() {
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

// Highest priority: every other module's routes sit behind tokens this
// module issues.
func (m *UserModule) Priority() int {
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	uRepo := repository.NewUserRepository(ctx.DB)
	uService := service.NewUserService(uRepo)
	uHandler := handler.NewUserHandler(uService)

	setupRoutes(ctx.Router, uHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	g := r.Group("/api/auth")

	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)

	authorized := g.Group("")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/me", h.Me)
		authorized.PUT("/profile", h.UpdateProfile)
	}
}
