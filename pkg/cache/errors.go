package cache

import "errors"

var (
	ErrSetFailed    = errors.New("cache: failed to store value")
	ErrDeleteFailed = errors.New("cache: failed to delete keys")
)
