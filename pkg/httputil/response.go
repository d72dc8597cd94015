package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/bondaralexcy/medical-diagnostic/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, NewSuccessResponse(data))
}

// RespondWithMessage sends a success response carrying only a message
func RespondWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, &Response{Status: "success", Message: message})
}

// RespondWithError sends an error response. Errors that are not AppErrors
// are logged and reported as a generic internal error.
func RespondWithError(c *gin.Context, err error) {
	RespondWithErrorData(c, err, nil)
}

// RespondWithErrorData sends an error response echoing data back to the
// client, e.g. the submitted form slots.
func RespondWithErrorData(c *gin.Context, err error, data interface{}) {
	appErr, ok := errors.As(err)
	if !ok || appErr.Code == errors.ErrInternal {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	c.JSON(appErr.StatusCode(), &Response{
		Status:  "error",
		Message: appErr.Message,
		Data:    data,
		Errors:  appErr.Fields,
	})
}
