// Package repository is the persistence boundary of the reservation engine.
// The engine only sees the Store and Repository interfaces; GormStore is the
// relational implementation used in production and tests.
package repository

import "errors"

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with the unique active
// slot index, i.e. another reserved booking already holds the slot.
var ErrDuplicate = errors.New("duplicate active reservation")

// ErrStaleState is returned when a guarded status update matched no row
// because the reservation left the expected state in the meantime.
var ErrStaleState = errors.New("reservation state changed")
