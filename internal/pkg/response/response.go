package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	govalidator "github.com/go-playground/validator/v10"

	"resortbooking/internal/domain"
	"resortbooking/internal/pkg/validator"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Status maps a domain error kind onto an HTTP status and error code.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return http.StatusConflict, "ALREADY_CANCELLED"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrSlotConflict):
		return http.StatusConflict, "BOOKING_CONFLICT"
	case errors.Is(err, domain.ErrBelowPaidAmount):
		return http.StatusConflict, "BELOW_PAID_AMOUNT"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// FromError writes err with the status of its kind. Storage and unknown
// failures are logged by the error middleware and reported generically.
func FromError(c *gin.Context, err error) {
	status, code := Status(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message := "Internal server error"
		var se *domain.StorageError
		if errors.As(err, &se) && se.Retryable {
			c.Header("Retry-After", "1")
			message = "Storage is busy, please retry"
		}
		Error(c, status, code, message)
		return
	}
	Error(c, status, code, err.Error())
}

// BindError reports a request body gin could not bind or validate.
func BindError(c *gin.Context, err error) {
	var verrs govalidator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", validator.Message(verrs[0]), details)
		return
	}
	Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
}
