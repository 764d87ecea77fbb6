/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package blobstore

import (
	"context"
	"sync"
)

// CachedStore wraps a Store and memoizes folder listings keyed by parent id.
// The cache lives for the lifetime of the wrapper instance. A folder created
// through the wrapper invalidates the listing of its parent, otherwise
// subsequent lookups would resolve against a stale listing.
type CachedStore struct {
	Store

	mu      sync.RWMutex
	folders map[string][]*Folder
}

// NewCachedStore returns a CachedStore wrapping the given store.
func NewCachedStore(store Store) *CachedStore {
	return &CachedStore{
		Store:   store,
		folders: make(map[string][]*Folder),
	}
}

// ListFolders lists folders under parentID, serving repeated lookups from the
// session cache.
func (s *CachedStore) ListFolders(ctx context.Context, parentID string) ([]*Folder, error) {
	s.mu.RLock()
	cached, ok := s.folders[parentID]
	s.mu.RUnlock()

	if ok {
		return cached, nil
	}

	folders, err := s.Store.ListFolders(ctx, parentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.folders[parentID] = folders
	s.mu.Unlock()

	return folders, nil
}

// CreateFolder creates a folder and invalidates the cached listing of the
// affected parent.
func (s *CachedStore) CreateFolder(ctx context.Context, name, parentID string) (*Folder, error) {
	folder, err := s.Store.CreateFolder(ctx, name, parentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.folders, parentID)
	s.mu.Unlock()

	return folder, nil
}

// Invalidate drops the cached listing for parentID.
func (s *CachedStore) Invalidate(parentID string) {
	s.mu.Lock()
	delete(s.folders, parentID)
	s.mu.Unlock()
}
