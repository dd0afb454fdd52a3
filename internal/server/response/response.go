// Package response implements the JSON envelope shared by every API
// endpoint. Successful responses carry data, failures carry a single
// error message, and the two never mix.
package response

import (
	"github.com/gin-gonic/gin"

	"github.com/fittrack/fittrack/internal/apierr"
)

// Envelope is the wire format for all API responses.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a success envelope with the given status and payload.
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Message writes a success envelope carrying only a message.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: true, Message: message})
}

// Fail writes a failure envelope with the given status and message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Error: message})
}

// AbortWithError classifies err, writes the matching failure envelope
// and aborts the handler chain.
func AbortWithError(c *gin.Context, err error) {
	apiErr := apierr.FromError(err)
	c.AbortWithStatusJSON(apiErr.Status(), Envelope{Success: false, Error: apiErr.Message})
}

// Error classifies err and writes the matching failure envelope.
func Error(c *gin.Context, err error) {
	apiErr := apierr.FromError(err)
	c.JSON(apiErr.Status(), Envelope{Success: false, Error: apiErr.Message})
}
