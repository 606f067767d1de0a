package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrMalformedNode = errors.New("malformed node")
)
