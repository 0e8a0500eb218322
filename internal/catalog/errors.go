package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidChapterData is returned when a chapter detail response lacks the
// fields needed to build page URLs.
var ErrInvalidChapterData = errors.New("Invalid chapter data")

// ErrEmptyEnvelope is returned when the upstream envelope carries no data.
var ErrEmptyEnvelope = errors.New("upstream response has no data")

// TransportError represents a network or decode failure talking to the upstream API.
type TransportError struct {
	URL   string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
