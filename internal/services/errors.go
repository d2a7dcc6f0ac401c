package services

import "errors"

var (
	// ErrNotFound is returned when an operation's target id is absent.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is returned when a required field is missing or invalid.
	// The operation is rejected and no state is changed.
	ErrValidation = errors.New("validation error")

	// ErrExternalService is returned when a network, auth, or storage
	// failure at a service boundary prevented the operation.
	ErrExternalService = errors.New("external service failure")
)
