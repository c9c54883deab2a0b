// Package server provides the HTTP API for questionnaire intake and book
// generation.
package server

import (
	"fmt"
	"net/http"
)

// ErrMissingField indicates a required questionnaire field was absent.
type ErrMissingField struct {
	Field string
}

func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// ErrInvalidPayload indicates the request body could not be accepted.
type ErrInvalidPayload struct {
	Reason string
	Err    error
}

func (e *ErrInvalidPayload) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid payload: %s", e.Reason)
}

func (e *ErrInvalidPayload) Unwrap() error {
	return e.Err
}

// ErrUnauthorized indicates a missing or invalid bearer token.
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

// ErrProcessing indicates a pipeline stage failed while generating a book.
type ErrProcessing struct {
	Stage string
	Err   error
}

func (e *ErrProcessing) Error() string {
	return fmt.Sprintf("processing failed at %s: %v", e.Stage, e.Err)
}

func (e *ErrProcessing) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrMissingField, *ErrInvalidPayload:
		return http.StatusBadRequest
	case *ErrUnauthorized:
		return http.StatusUnauthorized
	case *ErrProcessing:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
