package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gencart/internal/metrics"
	"github.com/polkiloo/gencart/internal/server/http/handlers"
	"github.com/polkiloo/gencart/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.ShopFacade, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.RequestMetrics(m))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	walletHandler := handlers.NewWalletHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Healthz)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")
	api.GET("/products", catalogHandler.Products)
	api.GET("/products/:id", catalogHandler.Product)
	api.POST("/payments/webhook", orderHandler.PaymentWebhook)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	authed.POST("/user/addresses", catalogHandler.AddAddress)
	authed.GET("/user/addresses", catalogHandler.Addresses)

	authed.GET("/cart", cartHandler.Get)
	authed.DELETE("/cart", cartHandler.Clear)
	authed.POST("/cart/items", cartHandler.AddItem)
	authed.PATCH("/cart/items/:id", cartHandler.UpdateItem)
	authed.DELETE("/cart/items/:id", cartHandler.RemoveItem)

	authed.POST("/orders", orderHandler.Checkout)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.POST("/orders/:id/cancel", orderHandler.Cancel)
	authed.GET("/orders/:id/payment", orderHandler.Payment)

	authed.POST("/wallet", walletHandler.Connect)
	authed.GET("/wallet", walletHandler.Summary)
	authed.POST("/wallet/verify", walletHandler.Verify)
	authed.GET("/wallet/transactions", walletHandler.Transactions)
	authed.GET("/wallet/payments", walletHandler.Payments)
	authed.POST("/wallet/payments", walletHandler.InitiatePayment)

	admin := authed.Group("/admin")
	admin.Use(middleware.StaffRequired())
	admin.POST("/products", catalogHandler.CreateProduct)
	admin.GET("/orders/by-user/:userID", orderHandler.ListByUser)
	admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	admin.POST("/wallets/:userID/balance", walletHandler.SetBalance)

	return engine
}
