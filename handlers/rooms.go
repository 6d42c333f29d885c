// rooms.go - Room catalogue, admin room management and room watch

package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-room-booking/apperrors"
	"go-room-booking/middleware"
	"go-room-booking/models"
	"go-room-booking/services"
)

type RoomInput struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
	Location string `json:"location"`
}

func (in RoomInput) toService() services.RoomInput {
	return services.RoomInput{Name: in.Name, Capacity: in.Capacity, Location: in.Location}
}

// ListRooms handles GET /api/rooms?q=&min_capacity=&location=
func (h *Handler) ListRooms(c *gin.Context) {
	filter := models.RoomFilter{Search: c.Query("q"), Location: c.Query("location")}
	if v := c.Query("min_capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			fail(c, apperrors.Invalid("min_capacity must be a non-negative integer"))
			return
		}
		filter.MinCapacity = n
	}
	rooms, err := h.Rooms.List(c.Request.Context(), middleware.CurrentIdentity(c), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": toRoomList(rooms)})
}

// GetRoom handles GET /api/rooms/:id
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	room, err := h.Rooms.Get(c.Request.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomDetail(room))
}

// CreateRoom handles POST /api/rooms (admin)
func (h *Handler) CreateRoom(c *gin.Context) {
	var input RoomInput
	if !bind(c, &input) {
		return
	}
	room, err := h.Rooms.Create(c.Request.Context(), middleware.CurrentIdentity(c), input.toService())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom handles PUT /api/rooms/:id (admin)
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var input RoomInput
	if !bind(c, &input) {
		return
	}
	room, err := h.Rooms.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, input.toService())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /api/rooms/:id (admin)
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	if err := h.Rooms.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "room deleted"})
}

// WatchRoom handles GET /api/rooms/:id/watch and streams the room's events
// over a WebSocket until either side closes it.
func (h *Handler) WatchRoom(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	if err := h.Rooms.Exists(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	if err := h.Hub.Serve(c.Writer, c.Request, id); err != nil {
		log.Printf("[ws] room %d upgrade: %v", id, err)
	}
}
