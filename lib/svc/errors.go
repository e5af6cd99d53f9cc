package svc

import "fmt"

// ErrProtocolExtraction is returned when a protocol cannot be extracted from
// a response.
type ErrProtocolExtraction struct {
	Protocol string
}

func (e ErrProtocolExtraction) Error() string {
	return fmt.Sprintf(
		"Failed to extract protocol %q from response", e.Protocol)
}
