// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors. For example, ErrLabNotFound lets a
// handler answer 404 while any other error maps to a generic storage
// failure.
package repository

import "errors"

// ErrLabNotFound is returned when a referenced lab does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrLabNotFound = errors.New("lab not found")

// ErrResourceNotFound is returned when a referenced resource does not
// exist or belongs to a different lab.
var ErrResourceNotFound = errors.New("resource not found")

// ErrDuplicateNotification is returned by NotificationRepo.Create when
// the dedup unique index rejects the row. Callers treat it as "already
// notified", not as a failure.
var ErrDuplicateNotification = errors.New("notification already exists")

// ErrEmailExists is returned when registering a user with an email that
// is already taken.
var ErrEmailExists = errors.New("email already exists")
