package images

import (
	"errors"
	"fmt"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrUnauthorized  = errors.New("photo service unauthorized (check access key)")
	ErrRateLimited   = errors.New("photo service rate limit exceeded")
)

// StatusError is returned for unexpected photo service responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("photo service error %d", e.Code)
	}
	return fmt.Sprintf("photo service error %d: %s", e.Code, e.Body)
}
