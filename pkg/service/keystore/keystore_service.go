/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keystore persists key-pair material as a file catalog under the
// KEYPAIRs subfolder. Files are named "<key id>_keypair.json" and looked up
// by the "<key id>_" prefix.
package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/opencreds/credvault/pkg/did"
	"github.com/opencreds/credvault/pkg/storage/blobstore"
)

// ErrKeyNotFound is returned when no catalog entry matches the key id.
var ErrKeyNotFound = errors.New("key pair not found")

const keyPairFileSuffix = "_keypair.json"

// Service is the storage-backed key-pair catalog.
type Service struct {
	store    blobstore.Store
	taxonomy *blobstore.Taxonomy
}

// New returns a new keystore Service.
func New(store blobstore.Store, taxonomy *blobstore.Taxonomy) *Service {
	return &Service{store: store, taxonomy: taxonomy}
}

// Save writes the key pair to the catalog under the given key id. The file
// body carries privateKeyMultibase; the catalog lives in the caller's own
// storage tree, not in any shared area.
func (s *Service) Save(ctx context.Context, keyID string, keyPair *did.KeyPair) (*blobstore.File, error) {
	folder, err := s.taxonomy.EnsureTyped(ctx, blobstore.ArtifactKeyPair)
	if err != nil {
		return nil, fmt.Errorf("ensure key pair folder: %w", err)
	}

	body, err := json.Marshal(keyPair)
	if err != nil {
		return nil, fmt.Errorf("marshal key pair: %w", err)
	}

	file, err := s.store.CreateFile(ctx, folder.ID, &blobstore.FileInput{
		FileName: keyID + keyPairFileSuffix,
		MimeType: blobstore.MimeTypeJSON,
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("save key pair %q: %w", keyID, err)
	}

	return file, nil
}

// Get looks up a key pair by key id, matching catalog files on the
// "<key id>_" filename prefix.
func (s *Service) Get(ctx context.Context, keyID string) (*did.KeyPair, error) {
	folder, err := s.taxonomy.EnsureTyped(ctx, blobstore.ArtifactKeyPair)
	if err != nil {
		return nil, fmt.Errorf("ensure key pair folder: %w", err)
	}

	files, err := s.store.ListFilesUnderFolder(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("list key pair files: %w", err)
	}

	for _, file := range files {
		if !strings.HasPrefix(file.Name, keyID+"_") {
			continue
		}

		keyPair, parseErr := did.ParseKeyPair(file.Data)
		if parseErr != nil {
			return nil, fmt.Errorf("parse key pair %q: %w", file.Name, parseErr)
		}

		return keyPair, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, keyID)
}
