package backend

import (
	"errors"
	"fmt"
)

// Error taxonomy of the gateway. Fetch paths report these through cache
// entries; mutation paths return them to the caller directly.

type NotFoundError struct {
	Table string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no row found in %s", e.Table)
}

type AmbiguousError struct {
	Table string
	Count int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("expected a single row in %s, got %d", e.Table, e.Count)
}

// BackendError is a request the backend rejected, with its code when one
// was supplied.
type BackendError struct {
	Code    string
	Message string
}

func (e *BackendError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("backend error: %s", e.Message)
	}
	return fmt.Sprintf("backend error %s: %s", e.Code, e.Message)
}

// NetworkError wraps a transport-level failure (connect, timeout).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return fmt.Sprintf("auth error: %s", e.Message) }

// ValidationError is raised locally before any backend call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error on %s: %s", e.Field, e.Message)
}

// SubscriptionError is a change or presence channel failure.
type SubscriptionError struct {
	Channel string
	Err     error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription error on %s: %v", e.Channel, e.Err)
}
func (e *SubscriptionError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
