/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencreds/credvault/pkg/observability/metrics/noop"
	"github.com/opencreds/credvault/pkg/storage/blobstore/inmem"
)

type mockServer struct {
	err error
}

func (s *mockServer) ListenAndServe(string, http.Handler) error {
	return s.err
}

func TestStartCmdWithMissingHostArg(t *testing.T) {
	startCmd := GetStartCmd(&mockServer{})
	startCmd.SetArgs([]string{})

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(),
		"neither host-url (command line flag) nor VAULT_REST_HOST_URL (environment variable) have been set")
}

func TestStartCmdValidArgs(t *testing.T) {
	startCmd := GetStartCmd(&mockServer{})
	startCmd.SetArgs([]string{"--host-url", "localhost:8080"})

	require.NoError(t, startCmd.Execute())
}

func TestStartCmdWithEnvVariables(t *testing.T) {
	t.Setenv("VAULT_REST_HOST_URL", "localhost:8080")
	t.Setenv("LOG_LEVEL", "debug")

	startCmd := GetStartCmd(&mockServer{})
	startCmd.SetArgs([]string{})

	require.NoError(t, startCmd.Execute())
}

func TestHealthCheckEndpoint(t *testing.T) {
	handler, err := buildHandler(&startupParameters{}, inmem.NewStore(), noop.NewMetrics())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUserSetVarFromString(t *testing.T) {
	startCmd := GetStartCmd(&mockServer{})
	startCmd.SetArgs([]string{"--mongodb-database", "custom"})

	require.NoError(t, startCmd.ParseFlags([]string{"--mongodb-database", "custom"}))

	value, err := getUserSetVarFromString(startCmd, mongoDBDatabaseFlagName, mongoDBDatabaseEnvKey, true)
	require.NoError(t, err)
	require.Equal(t, "custom", value)
}
