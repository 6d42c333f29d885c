// dto.go - JSON shapes returned by the API

package handlers

import (
	"time"

	"go-room-booking/models"
	"go-room-booking/services"
)

type reservationResponse struct {
	ID        uint      `json:"id"`
	RoomID    uint      `json:"room_id"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

func toReservation(r models.Reservation) reservationResponse {
	out := reservationResponse{
		ID:        r.ID,
		RoomID:    r.RoomID,
		UserID:    r.UserID,
		Start:     r.StartTime.UTC(),
		End:       r.EndTime.UTC(),
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.User != nil {
		out.UserName = r.User.Name
		out.UserEmail = r.User.Email
	}
	return out
}

func toReservations(rs []models.Reservation) []reservationResponse {
	out := make([]reservationResponse, len(rs))
	for i, r := range rs {
		out[i] = toReservation(r)
	}
	return out
}

type roomListItem struct {
	models.Room
	NextReservation *reservationResponse `json:"next_reservation"`
}

func toRoomList(list []services.RoomSummary) []roomListItem {
	out := make([]roomListItem, len(list))
	for i, s := range list {
		out[i] = roomListItem{Room: s.Room}
		if s.Next != nil {
			next := toReservation(*s.Next)
			out[i].NextReservation = &next
		}
	}
	return out
}

type roomDetail struct {
	models.Room
	Reservations []reservationResponse `json:"reservations"`
}

func toRoomDetail(room *models.Room) roomDetail {
	return roomDetail{Room: *room, Reservations: toReservations(room.Reservations)}
}
