package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CtxRequestIDKey is the context key the response envelope reads.
	CtxRequestIDKey = "request_id"

	requestIDHeader = "X-Request-ID"
)

// RequestID tags every request with an id and echoes it in the response
// header so clients can quote it in bug reports. An id supplied by the
// caller is kept as long as it is a UUID; anything else is replaced.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.Set(CtxRequestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
