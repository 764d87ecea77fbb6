/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package inmem provides an in-memory implementation of the blobstore port.
// It implements the full contract including revision-conditional updates and
// is used by tests and local development.
package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/opencreds/credvault/pkg/storage/blobstore"
)

type object struct {
	id       string
	name     string
	mimeType string
	parents  []string
	folder   bool
	data     []byte
	rev      int64
	public   bool
}

// Store is an in-memory hierarchical store.
type Store struct {
	mu      sync.RWMutex
	objects map[string]*object
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{objects: make(map[string]*object)}
}

// CreateFolder creates a folder under parentID. An empty parentID places the
// folder at the tree root.
func (s *Store) CreateFolder(_ context.Context, name, parentID string) (*blobstore.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := &object{
		id:       uuid.NewString(),
		name:     name,
		mimeType: blobstore.MimeTypeFolder,
		parents:  parentList(parentID),
		folder:   true,
	}

	s.objects[o.id] = o

	return &blobstore.Folder{ID: o.id, Name: o.name, Parents: o.parents}, nil
}

// CreateFile creates a file under folderID.
func (s *Store) CreateFile(_ context.Context, folderID string, file *blobstore.FileInput) (*blobstore.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := &object{
		id:       uuid.NewString(),
		name:     file.FileName,
		mimeType: file.MimeType,
		parents:  parentList(folderID),
		data:     append([]byte(nil), file.Body...),
		rev:      1,
	}

	s.objects[o.id] = o

	return &blobstore.File{ID: o.id, Parents: o.parents}, nil
}

// UpdateFile replaces the content of an existing file.
func (s *Store) UpdateFile(_ context.Context, fileID string, file *blobstore.FileInput) (*blobstore.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.file(fileID)
	if err != nil {
		return nil, err
	}

	o.data = append([]byte(nil), file.Body...)
	o.rev++

	return &blobstore.File{ID: o.id, Parents: o.parents}, nil
}

// UpdateFileCond replaces the content of an existing file only when its
// revision still equals expectedRev.
func (s *Store) UpdateFileCond(
	_ context.Context, fileID string, expectedRev int64, file *blobstore.FileInput) (*blobstore.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.file(fileID)
	if err != nil {
		return nil, err
	}

	if o.rev != expectedRev {
		return nil, blobstore.ErrRevisionMismatch
	}

	o.data = append([]byte(nil), file.Body...)
	o.rev++

	return &blobstore.File{ID: o.id, Parents: o.parents}, nil
}

// RetrieveFile returns the file content and revision.
func (s *Store) RetrieveFile(_ context.Context, fileID string) (*blobstore.FileContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, err := s.file(fileID)
	if err != nil {
		return nil, err
	}

	return toFileContent(o), nil
}

// ListFolders lists folders under parentID.
func (s *Store) ListFolders(_ context.Context, parentID string) ([]*blobstore.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var folders []*blobstore.Folder

	for _, o := range s.objects {
		if o.folder && o.hasParent(parentID) {
			folders = append(folders, &blobstore.Folder{ID: o.id, Name: o.name, Parents: o.parents})
		}
	}

	return folders, nil
}

// ListFilesUnderFolder lists non-folder objects under folderID with content.
func (s *Store) ListFilesUnderFolder(_ context.Context, folderID string) ([]*blobstore.FileContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var files []*blobstore.FileContent

	for _, o := range s.objects {
		if !o.folder && o.hasParent(folderID) {
			files = append(files, toFileContent(o))
		}
	}

	return files, nil
}

// SetPublicReadPermission marks the file world-readable.
func (s *Store) SetPublicReadPermission(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, err := s.file(fileID)
	if err != nil {
		return err
	}

	o.public = true

	return nil
}

// DeleteFile removes the file.
func (s *Store) DeleteFile(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file(fileID); err != nil {
		return err
	}

	delete(s.objects, fileID)

	return nil
}

// IsPublic reports whether the file was made world-readable. Test hook.
func (s *Store) IsPublic(fileID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[fileID]

	return ok && o.public
}

func (s *Store) file(fileID string) (*object, error) {
	o, ok := s.objects[fileID]
	if !ok || o.folder {
		return nil, fmt.Errorf("file %q: %w", fileID, blobstore.ErrDataNotFound)
	}

	return o, nil
}

func (o *object) hasParent(parentID string) bool {
	if parentID == "" {
		return len(o.parents) == 0
	}

	for _, p := range o.parents {
		if p == parentID {
			return true
		}
	}

	return false
}

func parentList(parentID string) []string {
	if parentID == "" {
		return nil
	}

	return []string{parentID}
}

func toFileContent(o *object) *blobstore.FileContent {
	return &blobstore.FileContent{
		ID:       o.id,
		Name:     o.name,
		MimeType: o.mimeType,
		Parents:  append([]string(nil), o.parents...),
		Data:     append([]byte(nil), o.data...),
		Rev:      o.rev,
	}
}
