/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package contenthash_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencreds/credvault/pkg/doc/vc/contenthash"
)

func TestSHA256Hasher_HashDocumentSansID(t *testing.T) {
	hasher := contenthash.NewSHA256Hasher()

	t.Run("id field is excluded", func(t *testing.T) {
		a, err := hasher.HashDocumentSansID([]byte(`{"id":"A","type":["VerifiableCredential"]}`))
		require.NoError(t, err)

		b, err := hasher.HashDocumentSansID([]byte(`{"id":"B","type":["VerifiableCredential"]}`))
		require.NoError(t, err)

		noID, err := hasher.HashDocumentSansID([]byte(`{"type":["VerifiableCredential"]}`))
		require.NoError(t, err)

		require.Equal(t, a, b)
		require.Equal(t, a, noID)
	})

	t.Run("content changes the hash", func(t *testing.T) {
		a, err := hasher.HashDocumentSansID([]byte(`{"type":["VerifiableCredential"]}`))
		require.NoError(t, err)

		b, err := hasher.HashDocumentSansID([]byte(`{"type":["OpenBadgeCredential"]}`))
		require.NoError(t, err)

		require.NotEqual(t, a, b)
	})

	t.Run("lowercase hex", func(t *testing.T) {
		hash, err := hasher.HashDocumentSansID([]byte(`{}`))
		require.NoError(t, err)
		require.Len(t, hash, 64)
		require.Equal(t, strings.ToLower(hash), hash)
	})
}

func TestCredentialID(t *testing.T) {
	hasher := contenthash.NewSHA256Hasher()

	id, err := contenthash.CredentialID(hasher, []byte(`{"id":"","type":["VerifiableCredential"]}`))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "urn:"))

	// setting the id afterwards does not change the derived value
	again, err := contenthash.CredentialID(hasher, []byte(`{"id":"`+id+`","type":["VerifiableCredential"]}`))
	require.NoError(t, err)
	require.Equal(t, id, again)
}

func TestRecommendationID(t *testing.T) {
	hasher := contenthash.NewSHA256Hasher()

	first, err := contenthash.RecommendationID(hasher, "urn:abc")
	require.NoError(t, err)

	// derived from the parent credential id only: same parent, same id
	second, err := contenthash.RecommendationID(hasher, "urn:abc")
	require.NoError(t, err)
	require.Equal(t, first, second)

	other, err := contenthash.RecommendationID(hasher, "urn:def")
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}
