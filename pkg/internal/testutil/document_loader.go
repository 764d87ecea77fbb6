/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package testutil holds shared test helpers.
package testutil

import (
	"testing"

	jsonld "github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/require"

	"github.com/opencreds/credvault/pkg/ld"
)

// DocumentLoader returns a document loader with the embedded contexts
// preloaded.
func DocumentLoader(t *testing.T) jsonld.DocumentLoader {
	t.Helper()

	loader, err := ld.NewDocumentLoader()
	require.NoError(t, err)

	return loader
}
