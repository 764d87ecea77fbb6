/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSystemError(t *testing.T) {
	err := NewSystemError("testComp", "TestOp", errors.New("some error"))
	require.Equal(t, "system-error[testComp, TestOp]: some error", err.Error())

	code, msg := err.HTTPCodeMsg()
	require.Equal(t, http.StatusInternalServerError, code)

	body, ok := msg.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "system-error", body["code"])
	require.Equal(t, "testComp", body["component"])
	require.Equal(t, "some error", body["message"])
}

func TestNewValidationError(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		wantHTTP int
	}{
		{code: InvalidValue, wantHTTP: http.StatusBadRequest},
		{code: BadRequest, wantHTTP: http.StatusBadRequest},
		{code: AlreadyExist, wantHTTP: http.StatusConflict},
		{code: DoesntExist, wantHTTP: http.StatusNotFound},
		{code: ConditionNotMet, wantHTTP: http.StatusPreconditionFailed},
		{code: VerificationFailed, wantHTTP: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code.Name(), func(t *testing.T) {
			err := NewValidationError(tt.code, "test.value1", errors.New("some error"))
			require.Equal(t, fmt.Sprintf("%s[test.value1]: some error", tt.code.Name()), err.Error())

			code, msg := err.HTTPCodeMsg()
			require.Equal(t, tt.wantHTTP, code)

			body, ok := msg.(map[string]interface{})
			require.True(t, ok)
			require.Equal(t, tt.code.Name(), body["code"])
			require.Equal(t, "test.value1", body["incorrectValue"])
		})
	}
}

func TestNewCustomError(t *testing.T) {
	err := NewCustomError(DoesntExist, errors.New("no such file"))
	require.Equal(t, "doesnt-exist: no such file", err.Error())

	code, msg := err.HTTPCodeMsg()
	require.Equal(t, http.StatusNotFound, code)

	body, ok := msg.(map[string]interface{})
	require.True(t, ok)
	require.NotContains(t, body, "incorrectValue")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NewSystemError("comp", "Op", fmt.Errorf("wrap: %w", cause))
	require.ErrorIs(t, err, cause)
}

func TestGetErrorDetails(t *testing.T) {
	cause := errors.New("innermost")
	require.Equal(t, "innermost", GetErrorDetails(fmt.Errorf("outer: %w", fmt.Errorf("mid: %w", cause))))
	require.Equal(t, "flat", GetErrorDetails(errors.New("flat")))
}
