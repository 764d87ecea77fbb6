/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resterr

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "echo http error",
			err:      echo.NewHTTPError(http.StatusNotFound, "route not found"),
			wantCode: http.StatusNotFound,
			wantBody: "route not found",
		},
		{
			name:     "custom error",
			err:      NewValidationError(InvalidValue, "kind", errors.New("unsupported kind")),
			wantCode: http.StatusBadRequest,
			wantBody: "invalid-value",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: "generic-error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			HTTPErrorHandler(tt.err, e.NewContext(req, rec))

			require.Equal(t, tt.wantCode, rec.Code)
			require.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}

	t.Run("head request gets no body", func(t *testing.T) {
		e := echo.New()

		req := httptest.NewRequest(http.MethodHead, "/", nil)
		rec := httptest.NewRecorder()

		HTTPErrorHandler(errors.New("boom"), e.NewContext(req, rec))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Empty(t, rec.Body.String())
	})
}

func TestProcessError_CustomErrorBody(t *testing.T) {
	code, msg := processError(NewSystemError("storage", "CreateFile", errors.New("down")))
	require.Equal(t, http.StatusInternalServerError, code)

	body, ok := msg.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "storage", body["component"])
}
