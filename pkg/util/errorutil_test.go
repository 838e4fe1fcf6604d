package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationReasonSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("register: %w", NewValidationReason(ReasonPasswordTooShort, "password must be at least 6 characters long"))

	assert.True(t, HasCode(err, CodeValidation))
	assert.Equal(t, ReasonPasswordTooShort, ReasonOf(err))

	de := ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestToDomainErrorMapsUnknownErrors(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	require.NotNil(t, de)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)

	de = ToDomainError(sql.ErrNoRows)
	assert.Equal(t, CodeNotFound, de.Code)

	assert.Nil(t, ToDomainError(nil))
}

func TestStatusPerCode(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewExpired("otp has expired"), CodeExpired, http.StatusGone},
		{NewLocked("too many failed attempts"), CodeLocked, http.StatusLocked},
		{NewInvalidCredentials(), CodeInvalidCredentials, http.StatusUnauthorized},
		{NewConflict("email already registered", nil), CodeConflict, http.StatusConflict},
		{NewProviderFailure(errors.New("dial tcp")), CodeProviderFailure, http.StatusBadGateway},
		{NewNotFound("otp challenge", nil), CodeNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		de := ToDomainError(tc.err)
		assert.Equal(t, tc.code, de.Code)
		assert.Equal(t, tc.status, de.HTTPStatus)
		assert.Empty(t, ReasonOf(tc.err))
	}
}

func TestProviderFailureHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewProviderFailure(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "request failed, please try again", ToDomainError(err).Message)
}
