// Package apperrors defines the sentinel errors shared by repositories and
// handlers. The Postgres and Mongo layers translate their driver errors into
// this taxonomy so the HTTP boundary can map them to status codes uniformly.
package apperrors

import "errors"

var (
	// ErrDuplicateUser signals a registration whose username or email is taken
	ErrDuplicateUser = errors.New("user with this email or username already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken signals a missing, malformed, tampered or expired bearer token
	ErrInvalidToken = errors.New("invalid or expired token")

	ErrUserNotFound = errors.New("user not found")
	ErrPostNotFound = errors.New("post not found")

	// ErrForbidden signals an ownership violation on update/delete
	ErrForbidden = errors.New("not authorized to modify this resource")
)
