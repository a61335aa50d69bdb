package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., jsonfile) inside this directory.

import "errors"

var (
	// ErrNotFound is returned when no record exists for the given id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned by Create when the id is already taken.
	// Callers are expected to regenerate the id and retry.
	ErrDuplicateID = errors.New("record id already exists")
)
