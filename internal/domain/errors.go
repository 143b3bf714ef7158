package domain

import "errors"

// ErrNotFound is returned when a referenced entity or integration does not exist.
// HTTP handlers translate it to a 404.
var ErrNotFound = errors.New("not found")
