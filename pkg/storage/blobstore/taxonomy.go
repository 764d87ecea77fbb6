/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// RootFolderName is the top-level container of the credential tree.
const RootFolderName = "Credentials"

// AppDataFolderName is the application-private area holding bookkeeping
// artifacts such as the file-id ledger.
const AppDataFolderName = "APP_DATA"

// ArtifactType enumerates the typed subfolders of the credential tree.
type ArtifactType string

// Artifact types.
const (
	ArtifactDID            ArtifactType = "DID"
	ArtifactVC             ArtifactType = "VC"
	ArtifactRecommendation ArtifactType = "RECOMMENDATION"
	ArtifactSession        ArtifactType = "SESSION"
	ArtifactKeyPair        ArtifactType = "KEYPAIR"
	ArtifactMedia          ArtifactType = "MEDIA"
)

// FolderName returns the subfolder name for the artifact type.
func (t ArtifactType) FolderName() string {
	return fmt.Sprintf("%ss", t)
}

// Taxonomy resolves and lazily creates the folder layout consumed by the
// credential services: a "Credentials" root with one "{Type}s" subfolder per
// artifact type plus an application-private area.
type Taxonomy struct {
	store *CachedStore
}

// NewTaxonomy returns a Taxonomy over the given cached store.
func NewTaxonomy(store *CachedStore) *Taxonomy {
	return &Taxonomy{store: store}
}

// EnsureRoot finds or creates the root container.
func (x *Taxonomy) EnsureRoot(ctx context.Context) (*Folder, error) {
	return x.ensure(ctx, RootFolderName, "")
}

// EnsureTyped finds or creates the typed subfolder for the artifact type
// under the root container.
func (x *Taxonomy) EnsureTyped(ctx context.Context, t ArtifactType) (*Folder, error) {
	root, err := x.EnsureRoot(ctx)
	if err != nil {
		return nil, err
	}

	return x.ensure(ctx, t.FolderName(), root.ID)
}

// EnsureAppData finds or creates the application-private area under the root
// container.
func (x *Taxonomy) EnsureAppData(ctx context.Context) (*Folder, error) {
	root, err := x.EnsureRoot(ctx)
	if err != nil {
		return nil, err
	}

	return x.ensure(ctx, AppDataFolderName, root.ID)
}

// ensure implements find-or-create with a second lookup after a failed
// create: two callers racing on the same folder name both converge on the
// folder that won the race.
func (x *Taxonomy) ensure(ctx context.Context, name, parentID string) (*Folder, error) {
	folder, err := x.lookup(ctx, name, parentID)
	if err == nil {
		return folder, nil
	}

	if !errors.Is(err, ErrDataNotFound) {
		return nil, err
	}

	folder, err = x.store.CreateFolder(ctx, name, parentID)
	if err == nil {
		return folder, nil
	}

	x.store.Invalidate(parentID)

	folder, lookupErr := x.lookup(ctx, name, parentID)
	if lookupErr != nil {
		return nil, fmt.Errorf("create folder %q: %w", name, err)
	}

	return folder, nil
}

func (x *Taxonomy) lookup(ctx context.Context, name, parentID string) (*Folder, error) {
	folders, err := x.store.ListFolders(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list folders under %q: %w", parentID, err)
	}

	folder, found := lo.Find(folders, func(f *Folder) bool {
		return f.Name == name
	})
	if !found {
		return nil, ErrDataNotFound
	}

	return folder, nil
}
