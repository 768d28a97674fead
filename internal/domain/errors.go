package domain

import "errors"

// Sentinel errors for the workspace core - match with errors.Is().
//
// ErrNotFound deliberately covers both "does not exist" and "exists but is
// owned by someone else", so callers cannot probe for entities they do not
// own.
var (
	ErrNotFound          = errors.New("not found or access denied")
	ErrCircularReference = errors.New("circular folder reference")
	ErrSlugTaken         = errors.New("slug is already taken")
	ErrSelfLink          = errors.New("page cannot link to itself")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
)
