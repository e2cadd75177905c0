// Package common defines the shared error taxonomy used across the files
// manager services. Callers match categories with errors.Is; the message is
// the stable, user-visible text returned by the HTTP layer.
package common

import "errors"

// Category sentinels. Every error produced by a service wraps exactly one
// of these.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage error")
	ErrProcessing   = errors.New("processing error")
)

// Error carries a category sentinel and a human-readable message. The
// category is matched with errors.Is; the message is safe to return to
// clients (storage and processing failures get generic messages, internal
// detail stays in logs).
type Error struct {
	category error
	message  string
}

func (e *Error) Error() string { return e.message }

func (e *Error) Unwrap() error { return e.category }

// Unauthorized returns the authentication failure error. The message never
// distinguishes between a missing token, an unknown token and a wrong
// password so account existence does not leak.
func Unauthorized() error {
	return &Error{category: ErrUnauthorized, message: "Unauthorized"}
}

// Validation returns a request validation failure with the given message.
func Validation(msg string) error {
	return &Error{category: ErrValidation, message: msg}
}

// NotFound returns an absent-entity error with the given message.
func NotFound(msg string) error {
	return &Error{category: ErrNotFound, message: msg}
}

// Storage returns an I/O failure. The message is fixed so driver detail is
// never exposed.
func Storage() error {
	return &Error{category: ErrStorage, message: "Storage error"}
}

// Processing returns a derived-asset generation failure with the given
// message.
func Processing(msg string) error {
	return &Error{category: ErrProcessing, message: msg}
}
