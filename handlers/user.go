// user.go - Handles user registration, login and profile

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-room-booking/middleware"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"` // length checked by the service
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type PasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if !bind(c, &input) {
		return
	}
	user, err := h.Auth.Register(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if !bind(c, &input) {
		return
	}
	token, user, err := h.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.CurrentIdentity(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) Profile(c *gin.Context) {
	user, err := h.Users.Profile(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if !bind(c, &input) {
		return
	}
	user, err := h.Users.UpdateProfile(c.Request.Context(), middleware.CurrentIdentity(c), input.Name, input.Email)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var input PasswordInput
	if !bind(c, &input) {
		return
	}
	id := middleware.CurrentIdentity(c)
	if err := h.Users.ChangePassword(c.Request.Context(), id, input.CurrentPassword, input.NewPassword); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
