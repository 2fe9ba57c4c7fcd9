package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/nandani/internal/config"
	"github.com/example/nandani/internal/handlers"
	"github.com/example/nandani/internal/middleware"
	"github.com/example/nandani/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	smsService := services.NewSMSService(cfg.SMSGatewayKey)
	firebaseService := services.NewFirebaseService(cfg.FirebaseAPIKey)
	orderService := services.NewOrderService(db, cfg)
	wheelService := services.NewWheelService(db)

	authHandler := handlers.NewAuthHandler(db, cfg, smsService, firebaseService)
	shopHandler := handlers.NewShopHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService)
	couponHandler := handlers.NewCouponHandler(db, cfg, wheelService)
	reviewHandler := handlers.NewReviewHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/google", authHandler.GoogleLogin)
	auth.Post("/firebase-login", authHandler.FirebaseLogin)

	// Storefront reads
	api.Get("/announcements", shopHandler.ListAnnouncements)
	api.Get("/banners", shopHandler.ListBanners)
	api.Get("/categories", shopHandler.ListCategories)
	api.Get("/products", shopHandler.ListProducts)
	api.Get("/products/:id", shopHandler.GetProduct)

	// Catalog management
	api.Post("/categories", shopHandler.CreateCategory)
	api.Put("/categories/:id", shopHandler.UpdateCategory)
	api.Delete("/categories/:id", shopHandler.DeleteCategory)
	api.Post("/banners", shopHandler.CreateBanner)
	api.Put("/banners/:id", shopHandler.UpdateBanner)
	api.Delete("/banners/:id", shopHandler.DeleteBanner)
	api.Post("/announcements", shopHandler.CreateAnnouncement)
	api.Delete("/announcements/:id", shopHandler.DeleteAnnouncement)
	api.Post("/products", shopHandler.CreateProduct)
	api.Put("/products/:id", shopHandler.UpdateProduct)
	api.Delete("/products/:id", shopHandler.DeleteProduct)

	// Orders: creation is open for guest checkout
	orders := api.Group("/orders")
	orders.Post("/create", orderHandler.CreateOrder)
	orders.Put("/:id/status", orderHandler.UpdateStatus)

	// Coupons and spin wheel
	coupons := api.Group("/coupons")
	coupons.Post("/validate-coupon", couponHandler.ValidateCoupon)
	coupons.Get("/wheel-items", couponHandler.WheelItems)
	coupons.Post("/spin-result", couponHandler.SpinResult)

	// Reviews: listing is public, submission requires login
	api.Get("/reviews/:product_id", reviewHandler.ListReviews)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/update-profile", authHandler.UpdateProfile)
	protected.Get("/orders/my-orders", orderHandler.MyOrders)
	protected.Post("/reviews/:product_id", reviewHandler.CreateReview)
	protected.Post("/reviews/:review_id/like", reviewHandler.ToggleLike)
}
