package trackingclient

import (
	"errors"
	"fmt"
)

var (
	ErrTrackingNotFound = errors.New("tracking code not found")
	ErrEmptyCode        = errors.New("tracking code is empty")
)

// StatusError is any non successful upstream answer other than 404
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tracking api returned status %d", e.StatusCode)
}

func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
