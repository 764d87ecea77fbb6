/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencreds/credvault/cmd/common"
)

const (
	hostURLFlagName      = "host-url"
	hostURLFlagShorthand = "u"
	hostURLFlagUsage     = "Host:Port to run the vault-rest instance on." +
		" Alternatively, this can be set with the following environment variable: " + hostURLEnvKey
	hostURLEnvKey = "VAULT_REST_HOST_URL"

	metricsHostFlagName  = "metrics-host"
	metricsHostFlagUsage = "Host:Port to serve Prometheus metrics on. Metrics are disabled when unset." +
		" Alternatively, this can be set with the following environment variable: " + metricsHostEnvKey
	metricsHostEnvKey = "VAULT_REST_METRICS_HOST"

	mongoDBURLFlagName  = "mongodb-url"
	mongoDBURLFlagUsage = "MongoDB connection string. An in-memory store is used when unset." +
		" Alternatively, this can be set with the following environment variable: " + mongoDBURLEnvKey
	mongoDBURLEnvKey = "VAULT_REST_MONGODB_URL"

	mongoDBDatabaseFlagName  = "mongodb-database"
	mongoDBDatabaseFlagUsage = "MongoDB database name. Defaults to " + defaultDatabaseName + "." +
		" Alternatively, this can be set with the following environment variable: " + mongoDBDatabaseEnvKey
	mongoDBDatabaseEnvKey = "VAULT_REST_MONGODB_DATABASE"

	defaultDatabaseName = "credvault"
)

type startupParameters struct {
	hostURL         string
	metricsHost     string
	mongoDBURL      string
	mongoDBDatabase string
	logLevel        string
}

func getStartupParameters(cmd *cobra.Command) (*startupParameters, error) {
	hostURL, err := getUserSetVarFromString(cmd, hostURLFlagName, hostURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	metricsHost, err := getUserSetVarFromString(cmd, metricsHostFlagName, metricsHostEnvKey, true)
	if err != nil {
		return nil, err
	}

	mongoDBURL, err := getUserSetVarFromString(cmd, mongoDBURLFlagName, mongoDBURLEnvKey, true)
	if err != nil {
		return nil, err
	}

	mongoDBDatabase, err := getUserSetVarFromString(cmd, mongoDBDatabaseFlagName, mongoDBDatabaseEnvKey, true)
	if err != nil {
		return nil, err
	}

	if mongoDBDatabase == "" {
		mongoDBDatabase = defaultDatabaseName
	}

	logLevel, err := getUserSetVarFromString(cmd, common.LogLevelFlagName, common.LogLevelEnvKey, true)
	if err != nil {
		return nil, err
	}

	return &startupParameters{
		hostURL:         hostURL,
		metricsHost:     metricsHost,
		mongoDBURL:      mongoDBURL,
		mongoDBDatabase: mongoDBDatabase,
		logLevel:        logLevel,
	}, nil
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	startCmd.Flags().StringP(metricsHostFlagName, "", "", metricsHostFlagUsage)
	startCmd.Flags().StringP(mongoDBURLFlagName, "", "", mongoDBURLFlagUsage)
	startCmd.Flags().StringP(mongoDBDatabaseFlagName, "", "", mongoDBDatabaseFlagUsage)
	startCmd.Flags().StringP(common.LogLevelFlagName, common.LogLevelFlagShorthand, "", common.LogLevelFlagUsage)
}

// getUserSetVarFromString reads the flag value, falling back to the
// environment variable when the flag was not set on the command line.
func getUserSetVarFromString(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf("%s flag not found: %w", flagName, err)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)
	if isOptional || isSet {
		return value, nil
	}

	return "", fmt.Errorf("neither %s (command line flag) nor %s (environment variable) have been set",
		flagName, envKey)
}
