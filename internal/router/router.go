package router

import (
	"duzanda/internal/handlers"
	"duzanda/internal/middleware"
	"duzanda/internal/token"

	"github.com/gin-contrib/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Orders   *handlers.OrderHandler
	Products *handlers.ProductHandler
}

func Router(h Handlers, tokens *token.HSProvider, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register-master", h.Auth.RegisterMaster)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/login-phone", h.Auth.PhoneLogin)

		protected := auth.Group("", middleware.AuthRequired(tokens, log))
		protected.GET("/profile", h.Auth.Profile)
		protected.PATCH("/profile", h.Auth.UpdateProfile)
	}

	// Корзина и оформление работают и для гостей: владелец определяется
	// по токену либо по сессионной куке.
	cart := api.Group("/cart", middleware.AuthOptional(tokens, log))
	{
		cart.GET("", h.Cart.List)
		cart.GET("/count", h.Cart.Count)
		cart.POST("/items", h.Cart.Add)
		cart.PATCH("/items/:id", h.Cart.Adjust)
		cart.DELETE("/items/:id", h.Cart.Remove)
	}

	api.POST("/checkout", middleware.AuthOptional(tokens, log), h.Checkout.Checkout)

	products := api.Group("/products")
	{
		products.GET("", h.Products.List)
		products.GET("/:id", h.Products.Get)

		protected := products.Group("", middleware.AuthRequired(tokens, log))
		protected.POST("", h.Products.Create)
		protected.PATCH("/:id", h.Products.Update)
		protected.DELETE("/:id", h.Products.Delete)
	}

	orders := api.Group("/orders")
	{
		orders.GET("/by-phone", h.Orders.FindByPhone)

		protected := orders.Group("", middleware.AuthRequired(tokens, log))
		protected.GET("", h.Orders.ListMyOrders)
		protected.GET("/:id", h.Orders.GetMyOrder)
		protected.POST("/:id/confirm-delivery", h.Orders.ConfirmDelivery)
	}

	seller := api.Group("/seller/orders", middleware.AuthRequired(tokens, log))
	{
		seller.GET("", h.Orders.ListSellerOrders)
		seller.POST("/:id/accept", h.Orders.Accept)
		seller.POST("/:id/reject", h.Orders.Reject)
		seller.POST("/:id/status", h.Orders.AdvanceStatus)
	}

	return r
}
