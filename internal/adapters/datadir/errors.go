package datadir

import "errors"

// Sentinel kinds for data provider errors.
var (
	ErrTableNotFound = errors.New("name table not found")
	ErrInvalidTable  = errors.New("invalid table name")
	ErrBootstrap     = errors.New("data directory bootstrap failed")
)
