// Package repository holds the MySQL-backed stores for users, refresh
// tokens, movies and bookings.  Sentinel errors let handlers tell a
// missing row or a duplicate apart from a database failure.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist or is not
// visible to the caller.  Handlers translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an address that is taken.
var ErrEmailExists = errors.New("email already exists")
