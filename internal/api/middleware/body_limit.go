package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-transcript/internal/api/errors"
)

// BodyLimit rejects request bodies larger than limit bytes. Bodies without a
// declared length are cut off while they are read.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			HandleError(c, errors.NewPayloadTooLargeError())
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
