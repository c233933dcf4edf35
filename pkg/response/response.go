package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/mistake-journal/pkg/errors"
)

// Envelope is the fixed response contract: every reply carries a success
// flag, a human-readable message and a data payload (empty when irrelevant).
// Authentication failures additionally expose the error code so clients can
// distinguish "need to log in" from a bad request.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

// OK sends a success response.
func OK(c *gin.Context, message string, data interface{}) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Fail sends a failure response derived from the error's type.
func Fail(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	env := Envelope{Success: false, Message: appErr.Message, Data: gin.H{}}
	if appErr.Code == appErrors.ErrAuthRequired.Code {
		env.Error = appErr.Code
	}
	c.JSON(appErr.Status, env)
}

// FailMessage sends a failure response with an explicit message and status.
func FailMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message, Data: gin.H{}})
}
