// reservations.go - Booking endpoints

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-room-booking/middleware"
)

type ReservationInput struct {
	Start string `json:"start" binding:"required"` // ISO-8601
	End   string `json:"end" binding:"required"`   // ISO-8601, exclusive
}

// CreateReservation handles POST /api/rooms/:id/reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var input ReservationInput
	if !bind(c, &input) {
		return
	}
	res, err := h.Reservations.Create(c.Request.Context(), middleware.CurrentIdentity(c), id, input.Start, input.End)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservation(*res))
}

// MyReservations handles GET /api/reservations
func (h *Handler) MyReservations(c *gin.Context) {
	list, err := h.Reservations.Mine(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": toReservations(list)})
}
