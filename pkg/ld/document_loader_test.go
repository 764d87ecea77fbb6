/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ld_test

import (
	"testing"

	jsonld "github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/require"

	"github.com/opencreds/credvault/pkg/ld"
)

func TestNewDocumentLoader(t *testing.T) {
	loader, err := ld.NewDocumentLoader()
	require.NoError(t, err)

	t.Run("resolves embedded contexts", func(t *testing.T) {
		for _, url := range []string{
			ld.CredentialsContextURL,
			ld.OpenBadgesV3ContextURL,
			ld.Ed25519Signature2020ContextURL,
		} {
			doc, loadErr := loader.LoadDocument(url)
			require.NoError(t, loadErr, url)
			require.NotNil(t, doc.Document)

			content, ok := doc.Document.(map[string]interface{})
			require.True(t, ok, url)
			require.Contains(t, content, "@context", url)
		}
	})

	t.Run("open badges context composes with the credentials context", func(t *testing.T) {
		contexts := []interface{}{
			ld.CredentialsContextURL,
			ld.OpenBadgesV3ContextURL,
		}

		doc := map[string]interface{}{
			"@context": contexts,
			"id":       "urn:uuid:5e9b9ac5-4c31-4b09-a64a-63ed6f78e0ab",
			"type":     []interface{}{"VerifiableCredential", "OpenBadgeCredential"},
			"credentialSubject": map[string]interface{}{
				"id":   "did:example:holder",
				"type": []interface{}{"AchievementSubject"},
				"achievement": []interface{}{
					map[string]interface{}{
						"id":   "urn:uuid:0b0cdb9a-aa5f-4b97-9c08-4f0f4e1736d1",
						"type": []interface{}{"Achievement"},
						"name": "Cloud Architecture",
					},
				},
			},
		}

		opts := jsonld.NewJsonLdOptions("")
		opts.DocumentLoader = loader

		_, compactErr := jsonld.NewJsonLdProcessor().Compact(doc,
			map[string]interface{}{"@context": contexts}, opts)
		require.NoError(t, compactErr)
	})

	t.Run("unknown context fails hard", func(t *testing.T) {
		_, loadErr := loader.LoadDocument("https://example.com/unknown/context/v1")
		require.Error(t, loadErr)
	})
}
