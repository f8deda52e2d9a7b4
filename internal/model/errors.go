package model

import "errors"

// ErrNotFound is returned by storage when the targeted row does not exist.
var ErrNotFound = errors.New("not found")
