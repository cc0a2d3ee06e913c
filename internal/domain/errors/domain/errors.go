// Package domain provides domain-specific error definitions and utilities.
package domain

import "errors"

// Parse-related errors.
var (
	ErrParseCancelled = errors.New("parse cancelled")
	ErrParseTimeout   = errors.New("parse timed out")
	ErrSourceTooLarge = errors.New("source exceeds maximum size")
	ErrNilLanguage    = errors.New("language descriptor is nil")
)

// Tree-related errors.
var (
	ErrInvalidEdit = errors.New("invalid edit")
	ErrNilTree     = errors.New("tree is nil")
)

// General domain errors.
var (
	ErrInvalidInput = errors.New("invalid input")
)
