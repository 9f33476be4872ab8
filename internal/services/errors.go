package services

import "errors"

// ErrInvalidProductID is returned when a path identifier does not parse as an
// integer. Distinct from not-found: the store is never consulted.
var ErrInvalidProductID = errors.New("product id must be an integer")

// ValidationError reports the first payload check that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
