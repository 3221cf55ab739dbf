package concierge

import (
	"errors"

	"concierge/database/repository/store"
)

var (
	// ErrNotFound is the store's miss, re-exported so handlers need only this package.
	ErrNotFound           = store.ErrNotFound
	ErrForbidden          = errors.New("permission denied")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrStorageUnavailable = errors.New("file storage is not configured")
)
