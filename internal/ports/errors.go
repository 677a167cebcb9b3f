package ports

import "errors"

// ErrNotFound is the sentinel every OrderRepository implementation returns
// when no row matches the requested identity, so command handlers can probe
// existence with errors.Is without depending on a concrete repository
// package.
var ErrNotFound = errors.New("ports: not found")
