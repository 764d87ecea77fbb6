/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package contenthash derives stable content-addressed identifiers for
// credential documents. Hashing operates on marshaled JSON bytes so the
// field order of the source document is preserved as-is.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"
)

// URNPrefix prefixes every derived identifier.
const URNPrefix = "urn:"

// Hasher derives identifiers from document content. Both identifier schemes
// sit behind this interface: recommendation ids are a hash of the parent
// credential's id only, so two recommendations on the same credential share
// an id and rely on storage-path uniqueness to stay distinct. Callers must
// not assume recommendation ids are unique per artifact.
type Hasher interface {
	// HashDocumentSansID hashes the document with its top-level "id" field
	// removed: documents differing only in "id" hash identically.
	HashDocumentSansID(doc []byte) (string, error)
	// Hash hashes the document bytes as given.
	Hash(doc []byte) string
}

// SHA256Hasher implements Hasher with SHA-256 rendered as lowercase hex.
type SHA256Hasher struct{}

// NewSHA256Hasher returns a SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashDocumentSansID strips the top-level "id" field and hashes the rest.
func (h *SHA256Hasher) HashDocumentSansID(doc []byte) (string, error) {
	stripped, err := sjson.DeleteBytes(doc, "id")
	if err != nil {
		return "", fmt.Errorf("strip id field: %w", err)
	}

	return h.Hash(stripped), nil
}

// Hash hashes the document bytes as given.
func (h *SHA256Hasher) Hash(doc []byte) string {
	sum := sha256.Sum256(doc)

	return hex.EncodeToString(sum[:])
}

// CredentialID derives the urn identifier of a credential document.
func CredentialID(h Hasher, doc []byte) (string, error) {
	hash, err := h.HashDocumentSansID(doc)
	if err != nil {
		return "", err
	}

	return URNPrefix + hash, nil
}

// RecommendationID derives the urn identifier of a recommendation from the
// id of the credential it recommends. See the Hasher doc for the collision
// caveat this scheme carries.
func RecommendationID(h Hasher, vcID string) (string, error) {
	doc, err := json.Marshal(struct {
		ID string `json:"id"`
	}{ID: vcID})
	if err != nil {
		return "", fmt.Errorf("marshal recommendation seed: %w", err)
	}

	return URNPrefix + h.Hash(doc), nil
}
