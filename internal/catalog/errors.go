package catalog

import "errors"

// Catalog errors. Both are wrapped with details; match them with errors.Is.
var (
	// ErrEmptyCatalog is returned when a catalog holds no levels.
	ErrEmptyCatalog = errors.New("catalog has no levels")

	// ErrInvalidLevel is returned when a level definition fails validation.
	ErrInvalidLevel = errors.New("invalid level definition")
)
