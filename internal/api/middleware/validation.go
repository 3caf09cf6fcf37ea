package middleware

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"yt-transcript/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateRequest binds the JSON body into req and checks its binding tags.
// A body over the size limit yields a 413 error; any other binding failure
// yields a 400 carrying invalidMessage.
func ValidateRequest(c *gin.Context, req interface{}, invalidMessage string) error {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewPayloadTooLargeError()
		}
		return errors.NewBadRequestError(invalidMessage)
	}

	// Then, perform domain validation if the struct implements Validator
	if validator, ok := req.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return errors.FromError(err)
		}
	}

	return nil
}
