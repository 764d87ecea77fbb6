/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package blobstore implements the hierarchical storage port on MongoDB.
// Folders and files live in a single collection; every file carries a
// monotonically increasing revision used by UpdateFileCond, which is what
// gives the relations service a conditional-write primitive this backend
// can actually honor.
package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opencreds/credvault/pkg/storage/blobstore"
	"github.com/opencreds/credvault/pkg/storage/mongodb"
)

const objectsCollection = "objects"

type objectDocument struct {
	ID       string   `bson:"_id"`
	Name     string   `bson:"name"`
	MimeType string   `bson:"mimeType"`
	Parents  []string `bson:"parents,omitempty"`
	Folder   bool     `bson:"folder"`
	Data     []byte   `bson:"data,omitempty"`
	Rev      int64    `bson:"rev"`
	Public   bool     `bson:"public"`
}

// Store is a MongoDB-backed hierarchical store.
type Store struct {
	client *mongodb.Client
}

// NewStore returns a Store over the given client.
func NewStore(client *mongodb.Client) *Store {
	return &Store{client: client}
}

// CreateFolder creates a folder under parentID.
func (s *Store) CreateFolder(ctx context.Context, name, parentID string) (*blobstore.Folder, error) {
	doc := &objectDocument{
		ID:       uuid.NewString(),
		Name:     name,
		MimeType: blobstore.MimeTypeFolder,
		Parents:  parentList(parentID),
		Folder:   true,
	}

	if _, err := s.collection().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert folder: %w", err)
	}

	return &blobstore.Folder{ID: doc.ID, Name: doc.Name, Parents: doc.Parents}, nil
}

// CreateFile creates a file under folderID.
func (s *Store) CreateFile(ctx context.Context, folderID string, file *blobstore.FileInput) (*blobstore.File, error) {
	doc := &objectDocument{
		ID:       uuid.NewString(),
		Name:     file.FileName,
		MimeType: file.MimeType,
		Parents:  parentList(folderID),
		Data:     file.Body,
		Rev:      1,
	}

	if _, err := s.collection().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}

	return &blobstore.File{ID: doc.ID, Parents: doc.Parents}, nil
}

// UpdateFile replaces the content of an existing file.
func (s *Store) UpdateFile(ctx context.Context, fileID string, file *blobstore.FileInput) (*blobstore.File, error) {
	return s.update(ctx, bson.M{"_id": fileID, "folder": false}, fileID, file)
}

// UpdateFileCond replaces the content of an existing file only when its
// revision still equals expectedRev.
func (s *Store) UpdateFileCond(
	ctx context.Context, fileID string, expectedRev int64, file *blobstore.FileInput) (*blobstore.File, error) {
	updated, err := s.update(ctx, bson.M{"_id": fileID, "folder": false, "rev": expectedRev}, fileID, file)
	if err == nil {
		return updated, nil
	}

	if !errors.Is(err, blobstore.ErrDataNotFound) {
		return nil, err
	}

	// the file exists but at another revision
	if _, retrieveErr := s.RetrieveFile(ctx, fileID); retrieveErr == nil {
		return nil, blobstore.ErrRevisionMismatch
	}

	return nil, err
}

func (s *Store) update(
	ctx context.Context, filter bson.M, fileID string, file *blobstore.FileInput) (*blobstore.File, error) {
	var doc objectDocument

	err := s.collection().FindOneAndUpdate(ctx, filter,
		bson.M{
			"$set": bson.M{"data": file.Body, "mimeType": file.MimeType},
			"$inc": bson.M{"rev": 1},
		},
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("file %q: %w", fileID, blobstore.ErrDataNotFound)
		}

		return nil, fmt.Errorf("update file: %w", err)
	}

	return &blobstore.File{ID: doc.ID, Parents: doc.Parents}, nil
}

// RetrieveFile returns the file content and revision.
func (s *Store) RetrieveFile(ctx context.Context, fileID string) (*blobstore.FileContent, error) {
	var doc objectDocument

	err := s.collection().FindOne(ctx, bson.M{"_id": fileID, "folder": false}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("file %q: %w", fileID, blobstore.ErrDataNotFound)
		}

		return nil, fmt.Errorf("find file: %w", err)
	}

	return toFileContent(&doc), nil
}

// ListFolders lists folders under parentID.
func (s *Store) ListFolders(ctx context.Context, parentID string) ([]*blobstore.Folder, error) {
	cursor, err := s.collection().Find(ctx, listFilter(true, parentID))
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	defer cursor.Close(ctx) //nolint:errcheck

	var folders []*blobstore.Folder

	for cursor.Next(ctx) {
		var doc objectDocument

		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			return nil, fmt.Errorf("decode folder: %w", decodeErr)
		}

		folders = append(folders, &blobstore.Folder{ID: doc.ID, Name: doc.Name, Parents: doc.Parents})
	}

	return folders, cursor.Err()
}

// ListFilesUnderFolder lists files under folderID with content.
func (s *Store) ListFilesUnderFolder(ctx context.Context, folderID string) ([]*blobstore.FileContent, error) {
	cursor, err := s.collection().Find(ctx, listFilter(false, folderID))
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	defer cursor.Close(ctx) //nolint:errcheck

	var files []*blobstore.FileContent

	for cursor.Next(ctx) {
		var doc objectDocument

		if decodeErr := cursor.Decode(&doc); decodeErr != nil {
			return nil, fmt.Errorf("decode file: %w", decodeErr)
		}

		files = append(files, toFileContent(&doc))
	}

	return files, cursor.Err()
}

// SetPublicReadPermission marks the file world-readable.
func (s *Store) SetPublicReadPermission(ctx context.Context, fileID string) error {
	result, err := s.collection().UpdateOne(ctx,
		bson.M{"_id": fileID, "folder": false},
		bson.M{"$set": bson.M{"public": true}},
	)
	if err != nil {
		return fmt.Errorf("set public read permission: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("file %q: %w", fileID, blobstore.ErrDataNotFound)
	}

	return nil
}

// DeleteFile removes the file.
func (s *Store) DeleteFile(ctx context.Context, fileID string) error {
	result, err := s.collection().DeleteOne(ctx, bson.M{"_id": fileID, "folder": false})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("file %q: %w", fileID, blobstore.ErrDataNotFound)
	}

	return nil
}

func (s *Store) collection() *mongo.Collection {
	return s.client.Database().Collection(objectsCollection)
}

func listFilter(folder bool, parentID string) bson.M {
	filter := bson.M{"folder": folder}

	if parentID == "" {
		filter["parents"] = bson.M{"$exists": false}
	} else {
		filter["parents"] = parentID
	}

	return filter
}

func parentList(parentID string) []string {
	if parentID == "" {
		return nil
	}

	return []string{parentID}
}

func toFileContent(doc *objectDocument) *blobstore.FileContent {
	return &blobstore.FileContent{
		ID:       doc.ID,
		Name:     doc.Name,
		MimeType: doc.MimeType,
		Parents:  doc.Parents,
		Data:     doc.Data,
		Rev:      doc.Rev,
	}
}
