/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package common

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trustbloc/logutil-go/pkg/log"
)

func TestSetDefaultLogLevel(t *testing.T) {
	logger := log.New("common-test")

	t.Run("valid log level", func(t *testing.T) {
		resetLoggingLevels()

		SetDefaultLogLevel(logger, "debug")
		require.Equal(t, log.DEBUG, log.GetLevel(""))
	})

	t.Run("invalid log level defaults to info", func(t *testing.T) {
		resetLoggingLevels()

		SetDefaultLogLevel(logger, "mango")
		require.Equal(t, log.INFO, log.GetLevel(""))
	})
}

func resetLoggingLevels() {
	log.SetLevel("", log.INFO)
}
