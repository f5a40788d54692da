package response

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Message writes the flat {"message": ...} body used for
// acknowledgements and resource-specific errors.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// BadRequest translates a gin binding failure into the structured
// field-error list. Non-validator failures (malformed JSON and the
// like) get a generic 400.
func BadRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: messageFor(fe)})
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}
	Message(c, http.StatusBadRequest, "Invalid request payload")
}

// Internal logs the real failure server-side and returns an opaque body.
func Internal(c *gin.Context, op string, err error) {
	log.Printf("%s: %v", op, err)
	Message(c, http.StatusInternalServerError, "Internal server error")
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
