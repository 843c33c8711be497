package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrMalformedRecord  = errors.New("malformed record")
)
