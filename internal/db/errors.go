package db

import "errors"

// Database error sentinels.
var (
	ErrUnavailable = errors.New("database unavailable")
	ErrMigration   = errors.New("migration failed")
)
