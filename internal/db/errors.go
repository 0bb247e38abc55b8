package db

import "errors"

// ErrFieldNotFound signals a missing hash field.
var ErrFieldNotFound = errors.New("db: hash field not found")

// Op constants map to Redis command names for error context.
const (
	OpDel     = "DEL"
	OpHGet    = "HGET"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpExists  = "EXISTS"
	OpScan    = "SCAN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
