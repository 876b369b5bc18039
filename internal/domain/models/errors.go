package models

import "errors"

// ErrInvalidURL is returned when a URL cannot be parsed and is therefore not
// scoreable. Malformed structural input is never silently scored.
var ErrInvalidURL = errors.New("invalid URL")

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("not found")
