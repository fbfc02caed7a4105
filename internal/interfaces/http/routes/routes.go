// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires every API endpoint under the given group.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, redisClient, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)
	paymentHandler := handlers.NewPaymentHandler(db, cfg)

	// Public endpoints
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	// Authenticated endpoints
	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.UpsertLine)
		cart.DELETE("/items/:productId", cartHandler.RemoveLine)
		cart.POST("/items/:productId/increment", cartHandler.IncrementLine)
		cart.POST("/items/:productId/decrement", cartHandler.DecrementLine)
	}

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.GET("", checkoutHandler.GetState)
		checkout.PUT("/address", checkoutHandler.SubmitAddress)
		checkout.PUT("/payment-method", checkoutHandler.SelectPaymentMethod)
		checkout.POST("/review", checkoutHandler.Review)
		checkout.POST("/submit", checkoutHandler.Submit)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("", checkoutHandler.Submit)
		orders.GET("/mine", orderHandler.ListMine)
		orders.GET("/:id", orderHandler.GetOrder)
	}

	// Admin endpoints
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/users", authHandler.ListUsers)

		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.GET("/orders", orderHandler.ListAll)
		admin.PATCH("/orders/:id/pay", orderHandler.MarkPaid)
		admin.PATCH("/orders/:id/deliver", orderHandler.MarkDelivered)
	}

	// Provider callbacks authenticate by signature, not by bearer token
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/payment", paymentHandler.Webhook)
	}
}
