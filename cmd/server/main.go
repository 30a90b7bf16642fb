package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villfresh_store/internal/pkg/config"
	"villfresh_store/internal/pkg/mailer"
	"villfresh_store/internal/pkg/middleware"
	"villfresh_store/internal/pkg/registry"
	"villfresh_store/internal/pkg/worker"
	"villfresh_store/pkg/database"
	"villfresh_store/pkg/logger"
	"villfresh_store/pkg/response"

	orderRepo "villfresh_store/internal/domain/order/repository"

	// Module registration via init()
	_ "villfresh_store/internal/domain/cart"
	_ "villfresh_store/internal/domain/order"
	_ "villfresh_store/internal/domain/payment"
	_ "villfresh_store/internal/domain/product"
	_ "villfresh_store/internal/domain/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.GlobalConfig

	logger.InitLogger(cfg.Server.Mode != "release")
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP)
	notifier := worker.NewNotificationPool(orderRepo.NewOrderRepository(db), smtpMailer, 4, 256)
	notifier.Start()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	if cfg.App.FrontendURL != "" {
		corsConfig.AllowOrigins = []string{cfg.App.FrontendURL}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	moduleCtx := &registry.ModuleContext{
		DB:       db,
		Redis:    rdb,
		Router:   r,
		Mailer:   smtpMailer,
		Notifier: notifier,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("failed to initialize modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
}
