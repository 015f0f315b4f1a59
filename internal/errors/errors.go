// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrEmptyResult indicates a remote lookup succeeded but returned no documents.
	ErrEmptyResult = errors.New("empty result set")

	// ErrInvalidSignature indicates the webhook payload signature did not
	// match the HMAC computed from the app secret.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrVerifyTokenMismatch indicates the subscription handshake carried
	// a verify token that does not match the configured one.
	ErrVerifyTokenMismatch = errors.New("verify token mismatch")
)

// FetchError represents content API failures with context.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("content fetch error (url=%s, status=%d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("content fetch error (url=%s): %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new content fetch error.
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// SendError represents a failed call to the platform send endpoint.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send endpoint returned status %d: %s", e.StatusCode, e.Body)
}
