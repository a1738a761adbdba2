package smt

import "errors"

var (
	// ErrOutOfRange is returned for path indices, bounds or nibble values
	// outside of the allowed range and for paths that would exceed
	// MaxPathLen nibbles.
	ErrOutOfRange = errors.New("out of range")
	// ErrInvalidPath is returned when a hex path string can't be parsed.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidValue is returned for leaf values that are empty or whose
	// length is not a multiple of 32.
	ErrInvalidValue = errors.New("invalid value")
	// ErrIntegrity is returned when a decoded record doesn't match its own
	// commitment.
	ErrIntegrity = errors.New("data integrity violation")
	// ErrInvalidRecord is returned for records with inconsistent fields.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrRootNotFound is returned when the store has no root with the
	// requested hash.
	ErrRootNotFound = errors.New("root not found")
	// ErrVersionConflict is returned when saving a record whose version is
	// not strictly greater than the latest stored one for the same top path.
	ErrVersionConflict = errors.New("non-increasing node version")
	// ErrDuplicateLeaf is returned when the same leaf is written twice in a
	// single version.
	ErrDuplicateLeaf = errors.New("duplicate leaf in version")
)
