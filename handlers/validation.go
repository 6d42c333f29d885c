// validation.go - Custom binding rules

package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"go-room-booking/models"
)

var registerOnce sync.Once

// RegisterValidators adds the "accesslevel" tag to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("accesslevel", func(fl validator.FieldLevel) bool {
			return models.ValidAccessLevel(fl.Field().String())
		})
	})
}
