package handlers

import (
	"rentalhub/internal/middleware"
	"rentalhub/internal/models"

	"github.com/labstack/echo/v4"
)

// APIVersion is reported on every /api response.
const APIVersion = "1.0.0"

// Handlers groups every handler set mounted by RegisterRoutes.
type Handlers struct {
	Auth       *AuthHandlers
	Users      *UserHandlers
	Properties *PropertyHandlers
	Bookings   *BookingHandlers
	Reviews    *ReviewHandlers
	Health     *HealthHandlers
}

// RegisterRoutes mounts the API under /api and the health probes at the
// root.
func RegisterRoutes(e *echo.Echo, h *Handlers, auth *middleware.AuthMiddleware) {
	protect := auth.Protect()
	admin := middleware.RequireRoles(models.RoleAdmin)
	tenant := middleware.RequireRoles(models.RoleTenant)
	agent := middleware.RequireRoles(models.RoleAgent)
	agentOrAdmin := middleware.RequireRoles(models.RoleAgent, models.RoleAdmin)
	tenantOrAdmin := middleware.RequireRoles(models.RoleTenant, models.RoleAdmin)

	e.GET("/health", h.Health.LivenessCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)

	api := e.Group("/api", middleware.VersionHeader(APIVersion, ""))

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.GET("/me", h.Auth.Me, protect)
	authGroup.POST("/logout", h.Auth.Logout, protect)

	users := api.Group("/users", protect)
	users.PUT("/profile", h.Users.UpdateProfile)
	users.GET("", h.Users.ListUsers, admin)
	users.GET("/:id", h.Users.GetUser, admin)
	users.PUT("/:id", h.Users.UpdateUser, admin)
	users.DELETE("/:id", h.Users.DeleteUser, admin)

	properties := api.Group("/properties")
	properties.GET("", h.Properties.ListProperties, auth.OptionalAuth())
	properties.GET("/agent/my-properties", h.Properties.AgentProperties, protect, agent)
	properties.POST("", h.Properties.CreateProperty, protect, agentOrAdmin)
	properties.GET("/:id", h.Properties.GetProperty)
	properties.PUT("/:id", h.Properties.UpdateProperty, protect, agentOrAdmin)
	properties.DELETE("/:id", h.Properties.DeleteProperty, protect, agentOrAdmin)
	properties.GET("/:id/images", h.Properties.ImageURLs)
	properties.POST("/:id/images", h.Properties.UploadImage, protect, agentOrAdmin)

	bookings := api.Group("/bookings", protect)
	bookings.POST("", h.Bookings.CreateBooking, tenant)
	bookings.GET("", h.Bookings.ListBookings, admin)
	bookings.GET("/my-bookings", h.Bookings.TenantBookings, tenant)
	bookings.GET("/agent/property-bookings", h.Bookings.AgentBookings, agent)
	bookings.GET("/:id", h.Bookings.GetBooking)
	bookings.PUT("/:id", h.Bookings.UpdateBooking, agentOrAdmin)
	bookings.DELETE("/:id", h.Bookings.CancelBooking, tenant)

	reviews := api.Group("/reviews")
	reviews.GET("/property/:propertyId", h.Reviews.PropertyReviews)
	reviews.POST("", h.Reviews.CreateReview, protect, tenant)
	reviews.GET("", h.Reviews.ListReviews, protect, admin)
	reviews.PUT("/:id", h.Reviews.UpdateReview, protect, tenant)
	reviews.DELETE("/:id", h.Reviews.DeleteReview, protect, tenantOrAdmin)
}
