// handler.go - HTTP handlers shared state and helpers

package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"go-room-booking/apperrors"
	"go-room-booking/realtime"
	"go-room-booking/services"
)

// Handler groups the services the HTTP layer calls into.
type Handler struct {
	Auth         *services.AuthSvc
	Users        *services.UserSvc
	Rooms        *services.RoomSvc
	Reservations *services.ReservationSvc
	Admin        *services.AdminSvc
	Hub          *realtime.Hub
}

// fail records err for the error middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// bind decodes the JSON body into dst, reporting a 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperrors.Invalid(err.Error()))
		return false
	}
	return true
}

// roomID parses the :id path parameter.
func roomID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, apperrors.Invalid("invalid room id"))
		return 0, false
	}
	return uint(id), true
}
