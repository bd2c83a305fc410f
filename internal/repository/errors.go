package repository

import "errors"

var (
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyExists    = errors.New("entity already exists")
	ErrConnectionFailed = errors.New("database connection failed")
	ErrQueryFailed      = errors.New("database query failed")

	// ErrCatalogUnavailable is the one condition surfaced to users as a hard
	// error: without a catalog there is nothing to rank.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
