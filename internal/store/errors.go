package store

import "errors"

// ErrCacheMiss is returned when the requested cipher id is not in the
// local cache.
var ErrCacheMiss = errors.New("cipher not found in local cache")
