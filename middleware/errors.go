// errors.go - Renders handler errors as JSON

package middleware

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"go-room-booking/apperrors"
)

// detailer is implemented by errors that add fields to the response body.
type detailer interface {
	Details() map[string]any
}

// ErrorHandler writes the last error recorded with c.Error as
// {"error": message, "code": code}. Internal errors are logged and replaced
// with a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		public := apperrors.Public(err)
		if apperrors.IsInternal(err) {
			log.Printf("[http] %s %s request_id=%s: %v", c.Request.Method, c.Request.URL.Path, RequestID(c), err)
		}

		body := gin.H{"error": public.Message, "code": public.Code}
		var d detailer
		if errors.As(err, &d) {
			for k, v := range d.Details() {
				body[k] = v
			}
		}
		c.AbortWithStatusJSON(public.Status, body)
	}
}
