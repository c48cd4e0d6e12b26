package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeConflict, "an account with this email already exists")
	assert.Equal(t, CodeConflict, err.Code())
	assert.Equal(t, "an account with this email already exists", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(CodeStorage, cause, "persist user collection")

	assert.Equal(t, CodeStorage, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "persist user collection: disk full", err.Error())
	assert.Equal(t, "persist user collection", err.Message())
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeValidation, nil, "missing field")
	assert.Equal(t, CodeValidation, err.Code())
	assert.Nil(t, err.Unwrap())
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeAuth, CodeOf(New(CodeAuth, "invalid email or password")))

	wrapped := fmt.Errorf("handler: %w", New(CodeNotFound, "no active session"))
	require.Equal(t, CodeNotFound, CodeOf(wrapped))

	require.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation: http.StatusBadRequest,
		CodeConflict:   http.StatusConflict,
		CodeAuth:       http.StatusUnauthorized,
		CodeNotFound:   http.StatusNotFound,
		CodeStorage:    http.StatusInternalServerError,
		CodeInternal:   http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(New(code, "x")), string(code))
	}
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestPublicMessageHidesUnclassifiedErrors(t *testing.T) {
	assert.Equal(t, "no active session", PublicMessage(New(CodeNotFound, "no active session")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("sql: driver crashed")))
}
