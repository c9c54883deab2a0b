package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing field", &ErrMissingField{Field: "birth_date"}, http.StatusBadRequest},
		{"invalid payload", &ErrInvalidPayload{Reason: "bad json"}, http.StatusBadRequest},
		{"unauthorized", &ErrUnauthorized{Reason: "no token"}, http.StatusUnauthorized},
		{"processing", &ErrProcessing{Stage: "render", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestErrProcessing_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &ErrProcessing{Stage: "render", Err: inner}

	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Error(), "render")
	assert.Contains(t, err.Error(), "disk full")
}

func TestErrInvalidPayload_Unwrap(t *testing.T) {
	inner := errors.New("unexpected token")
	err := &ErrInvalidPayload{Reason: "decoding request body", Err: inner}

	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Error(), "decoding request body")
}
