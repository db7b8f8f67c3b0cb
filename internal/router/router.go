package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/pkoziol/bookshare/internal/config"
	"github.com/pkoziol/bookshare/internal/handler"
	"github.com/pkoziol/bookshare/internal/middleware"
	"github.com/pkoziol/bookshare/internal/model"
)

// Handlers groups everything the route table needs.
type Handlers struct {
	Auth          *handler.AuthHandler
	Offers        *handler.OfferHandler
	CounterOffers *handler.CounterOfferHandler
	Rentals       *handler.RentalHandler
	Categories    *handler.CategoryHandler
	Roles         *handler.RoleHandler
	Files         *handler.FileHandler
}

// Register wires the full route table. Public browse endpoints sit in
// front of the optional Redis response cache; everything that mutates
// state requires a valid access token, and the role admin surface
// additionally requires ROLE_ADMIN.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// session lifecycle, no token required
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.GET("/verify", h.Auth.VerifyEmail)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// unauthenticated browse, cached when Redis is configured
	pub := e.Group("/v1")
	pub.Use(middleware.ResponseCache(cacheCfg, rdb))
	pub.GET("/offers", h.Offers.List)
	pub.GET("/offers/:id", h.Offers.Get)
	pub.POST("/offers/search", h.Offers.Search)
	pub.GET("/categories", h.Categories.List)
	pub.GET("/categories/:id", h.Categories.Get)
	pub.GET("/files/:id", h.Files.Download)

	// authenticated surface
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.GET("/me", h.Auth.Me)
	v1.POST("/me/password", h.Auth.ChangePassword)

	v1.POST("/offers", h.Offers.Create)
	v1.PUT("/offers/:id", h.Offers.Update)
	v1.DELETE("/offers/:id", h.Offers.Delete)

	v1.GET("/counter-offers", h.CounterOffers.List)
	v1.GET("/counter-offers/mine", h.CounterOffers.Mine)
	v1.GET("/counter-offers/:id", h.CounterOffers.Get)
	v1.POST("/counter-offers", h.CounterOffers.Create)
	v1.PUT("/counter-offers/:id", h.CounterOffers.Update)
	v1.DELETE("/counter-offers/:id", h.CounterOffers.Delete)

	v1.GET("/rentals", h.Rentals.List)
	v1.GET("/rentals/mine", h.Rentals.Mine)
	v1.GET("/rentals/:id", h.Rentals.Get)
	v1.POST("/rentals", h.Rentals.Create)
	v1.PUT("/rentals/:id", h.Rentals.Update)
	v1.DELETE("/rentals/:id", h.Rentals.Delete)

	v1.POST("/files", h.Files.Upload)
	v1.DELETE("/files/:id", h.Files.Delete)

	// admin-only reference data management
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/categories", h.Categories.Create)
	admin.PUT("/categories/:id", h.Categories.Update)
	admin.DELETE("/categories/:id", h.Categories.Delete)
	admin.GET("/roles", h.Roles.List)
	admin.GET("/roles/:id", h.Roles.Get)
	admin.POST("/roles", h.Roles.Create)
	admin.PUT("/roles/:id", h.Roles.Update)
	admin.DELETE("/roles/:id", h.Roles.Delete)
}
