// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound marks a lookup that matched no row, while
// ErrConflict signals that a guarded update found the row's version
// or status had already changed.
package repository

import "errors"

// ErrNotFound is returned when a lookup by id matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden marks an operation on a resource the caller does not
// own. No repository in this package returns it. Handlers should
// translate it into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a guarded update matches no row
// because the row's version or status no longer matches what the
// caller read. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")