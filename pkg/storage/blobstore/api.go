/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package blobstore defines the hierarchical blob-and-folder storage port
// consumed by the credential services. Implementations are expected to be
// remote stores with no transactional semantics; the only concurrency
// primitive an implementation may offer is the per-file revision number
// checked by UpdateFileCond.
package blobstore

import (
	"context"
	"errors"
)

// MIME types used across the storage tree.
const (
	MimeTypeFolder = "application/vnd.folder"
	MimeTypeJSON   = "application/json"
)

// ErrDataNotFound is returned when the requested folder or file does not exist.
var ErrDataNotFound = errors.New("data not found")

// ErrRevisionMismatch is returned by UpdateFileCond when the file was modified
// since the revision the caller read.
var ErrRevisionMismatch = errors.New("revision mismatch")

// Folder is a folder handle returned by the store.
type Folder struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Parents []string `json:"parents"`
}

// File is a file handle returned on save.
type File struct {
	ID      string   `json:"id"`
	Parents []string `json:"parents"`
}

// FileInput is the payload for creating or updating a file.
type FileInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Body     []byte `json:"body"`
}

// FileContent is a file together with its content and revision.
type FileContent struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType"`
	Parents  []string `json:"parents"`
	Data     []byte   `json:"data"`
	Rev      int64    `json:"rev"`
}

// Store is the hierarchical storage port.
type Store interface {
	CreateFolder(ctx context.Context, name, parentID string) (*Folder, error)
	CreateFile(ctx context.Context, folderID string, file *FileInput) (*File, error)
	UpdateFile(ctx context.Context, fileID string, file *FileInput) (*File, error)
	// UpdateFileCond replaces the file content only if its current revision
	// equals expectedRev, returning ErrRevisionMismatch otherwise.
	UpdateFileCond(ctx context.Context, fileID string, expectedRev int64, file *FileInput) (*File, error)
	RetrieveFile(ctx context.Context, fileID string) (*FileContent, error)
	ListFolders(ctx context.Context, parentID string) ([]*Folder, error)
	ListFilesUnderFolder(ctx context.Context, folderID string) ([]*FileContent, error)
	SetPublicReadPermission(ctx context.Context, fileID string) error
	DeleteFile(ctx context.Context, fileID string) error
}
