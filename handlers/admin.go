// admin.go - Admin dashboard, user administration and the booking switch
// Suspending bookings works like an emergency stop: every reservation
// attempt is answered with 503 until an admin resumes bookings.

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-room-booking/middleware"
	"go-room-booking/services"
)

type CreateUserInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	AccessLevel string `json:"access_level" binding:"omitempty,accesslevel"` // admin or user, default user
}

type SuspendInput struct {
	Reason string `json:"reason" binding:"required"`
}

// AdminOverview handles GET /api/admin
func (h *Handler) AdminOverview(c *gin.Context) {
	ov, err := h.Admin.Overview(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":        ov.Users,
		"rooms":        ov.Rooms,
		"reservations": toReservations(ov.Reservations),
	})
}

// AdminStats handles GET /api/admin/stats
func (h *Handler) AdminStats(c *gin.Context) {
	st, err := h.Admin.Stats(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// CreateUser handles POST /api/admin/users
func (h *Handler) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if !bind(c, &input) {
		return
	}
	user, err := h.Users.Create(c.Request.Context(), middleware.CurrentIdentity(c), services.NewUser{
		Name:        input.Name,
		Email:       input.Email,
		Password:    input.Password,
		AccessLevel: input.AccessLevel,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListUsers handles GET /api/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// SuspendBookings handles POST /api/admin/bookings/suspend
func (h *Handler) SuspendBookings(c *gin.Context) {
	var input SuspendInput
	if !bind(c, &input) {
		return
	}
	st, err := h.Admin.SuspendBookings(c.Request.Context(), middleware.CurrentIdentity(c), input.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "bookings suspended",
		"reason":       st.Reason,
		"suspended_by": st.SuspendedBy,
		"suspended_at": st.SuspendedAt,
	})
}

// ResumeBookings handles POST /api/admin/bookings/resume
func (h *Handler) ResumeBookings(c *gin.Context) {
	if err := h.Admin.ResumeBookings(c.Request.Context(), middleware.CurrentIdentity(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "bookings resumed",
		"resumed_at": time.Now().UTC(),
	})
}

// BookingStatus handles GET /api/admin/bookings/status
func (h *Handler) BookingStatus(c *gin.Context) {
	st, err := h.Admin.BookingStatus(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
