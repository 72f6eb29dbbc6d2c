package sessionstore

import "errors"

var (
	// ErrNotFound is returned when a session id is unknown.
	ErrNotFound = errors.New("session not found")
	// ErrExists is returned when creating a session whose id is already stored.
	ErrExists = errors.New("session already exists")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrLocked is returned when another process holds the session lock.
	ErrLocked = errors.New("session store is locked by another process")
)
