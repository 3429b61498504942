package domain

import "errors"

var (
	// ErrNotFound is returned when a key or record does not exist in the store
	ErrNotFound = errors.New("not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrStoreUnavailable is returned when the storage backend cannot be reached
	ErrStoreUnavailable = errors.New("storage unavailable")

	// ErrUnknownProgram is returned when a loyalty program name is not recognized
	ErrUnknownProgram = errors.New("unknown loyalty program")

	// ErrUnknownDataKey is returned when ingest targets a key outside the known data set
	ErrUnknownDataKey = errors.New("unknown data key")

	// ErrInvalidCatalog is returned when the model catalog fails validation
	ErrInvalidCatalog = errors.New("invalid model catalog")
)
