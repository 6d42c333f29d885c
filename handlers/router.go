// router.go - Route table

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-room-booking/middleware"
)

// NewRouter builds the Gin engine with every route and middleware.
func NewRouter(h *Handler, authn middleware.Authenticator) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.ErrorHandler(),
	)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)

	// Protected routes (require JWT authentication)
	api := r.Group("/api", middleware.RequireAuth(authn))
	{
		api.POST("/logout", h.Logout)
		api.GET("/profile", h.Profile)
		api.PUT("/profile", h.UpdateProfile)
		api.PUT("/profile/password", h.ChangePassword)

		api.GET("/rooms", h.ListRooms)
		api.GET("/rooms/:id", h.GetRoom)
		api.GET("/rooms/:id/watch", h.WatchRoom)
		api.POST("/rooms/:id/reservations", h.CreateReservation)
		api.GET("/reservations", h.MyReservations)

		// room management is admin only; the role is checked before the room is looked up
		api.POST("/rooms", middleware.RequireAdmin(), h.CreateRoom)
		api.PUT("/rooms/:id", middleware.RequireAdmin(), h.UpdateRoom)
		api.DELETE("/rooms/:id", middleware.RequireAdmin(), h.DeleteRoom)
	}

	admin := api.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("", h.AdminOverview)
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.ListUsers)
		admin.POST("/users", h.CreateUser)
		admin.POST("/bookings/suspend", h.SuspendBookings)
		admin.POST("/bookings/resume", h.ResumeBookings)
		admin.GET("/bookings/status", h.BookingStatus)
	}

	return r
}
