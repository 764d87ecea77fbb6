/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package relations maintains the per-credential relations record, the
// secondary index linking a credential file to its recommendation files. The
// backing store has no transactions; appending to a record is a
// read-modify-write whose concurrency discipline is selected by WriteMode.
package relations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/opencreds/credvault/internal/logfields"
	"github.com/opencreds/credvault/pkg/storage/blobstore"
)

var logger = log.New("relations-svc")

// RelationsFileName is the name of the per-credential relations file.
const RelationsFileName = "RELATIONS"

// LedgerFileName is the name of the append-only file-id ledger kept in the
// application-private area.
const LedgerFileName = "file_ids.json"

const (
	appendRetryInterval = 50 * time.Millisecond
	appendMaxRetries    = 5
)

// WriteMode selects the concurrency discipline for relations-record appends.
type WriteMode int

const (
	// WriteModeConditional performs a revision-conditional update and
	// retries on mismatch. Default; requires a port with atomic
	// UpdateFileCond semantics.
	WriteModeConditional WriteMode = iota

	// WriteModeSerialized holds a per-file lock across the whole
	// read-modify-write. For ports whose conditional update is not atomic.
	WriteModeSerialized

	// WriteModeLastWriterWins is a plain read-modify-write. Concurrent
	// appends to the same record race and the last writer silently drops
	// the earlier append.
	WriteModeLastWriterWins
)

// CredentialRef points at the credential file and carries a denormalized
// snapshot of its subject.
type CredentialRef struct {
	FileID  string          `json:"fileId"`
	Subject json.RawMessage `json:"subject"`
}

// Record is the relations record stored next to the credential file.
type Record struct {
	VC              CredentialRef `json:"vc"`
	Recommendations []string      `json:"recommendations"`
}

// Service manages relations records and the file-id ledger.
type Service struct {
	store     blobstore.Store
	taxonomy  *blobstore.Taxonomy
	writeMode WriteMode
	fileLocks keyedMutex

	ledgerMu     sync.Mutex
	ledgerFileID string
	ledgerIDs    []string
	ledgerLoaded bool
}

// Option configures the Service.
type Option func(s *Service)

// WithWriteMode overrides the append concurrency discipline.
func WithWriteMode(mode WriteMode) Option {
	return func(s *Service) {
		s.writeMode = mode
	}
}

// New returns a new relations Service.
func New(store blobstore.Store, taxonomy *blobstore.Taxonomy, opts ...Option) *Service {
	s := &Service{
		store:     store,
		taxonomy:  taxonomy,
		writeMode: WriteModeConditional,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateRelationsRecord locates the credential file under vcFolderID,
// snapshots its subject and writes a fresh RELATIONS file next to it. The
// new file id is recorded in the ledger on a best-effort basis.
func (s *Service) CreateRelationsRecord(ctx context.Context, vcFolderID string) (*Record, *blobstore.File, error) {
	files, err := s.store.ListFilesUnderFolder(ctx, vcFolderID)
	if err != nil {
		return nil, nil, fmt.Errorf("list folder %q: %w", vcFolderID, err)
	}

	credentialFile := findCredentialFile(files)
	if credentialFile == nil {
		return nil, nil, fmt.Errorf("credential file under folder %q: %w", vcFolderID, blobstore.ErrDataNotFound)
	}

	subject := gjson.GetBytes(credentialFile.Data, "credentialSubject")
	if !subject.Exists() {
		return nil, nil, fmt.Errorf("credential file %q has no credentialSubject", credentialFile.ID)
	}

	record := &Record{
		VC: CredentialRef{
			FileID:  credentialFile.ID,
			Subject: json.RawMessage(subject.Raw),
		},
		Recommendations: []string{},
	}

	body, err := json.Marshal(record)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal relations record: %w", err)
	}

	file, err := s.store.CreateFile(ctx, vcFolderID, &blobstore.FileInput{
		FileName: RelationsFileName,
		MimeType: blobstore.MimeTypeJSON,
		Body:     body,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create relations file: %w", err)
	}

	s.RecordFileIDs(ctx, file.ID)

	return record, file, nil
}

// AppendRecommendation appends the recommendation file id to the relations
// record, replacing the whole record file.
func (s *Service) AppendRecommendation(ctx context.Context, relationsFileID, recommendationFileID string) error {
	switch s.writeMode {
	case WriteModeSerialized:
		unlock := s.fileLocks.lock(relationsFileID)
		defer unlock()

		return s.appendPlain(ctx, relationsFileID, recommendationFileID)
	case WriteModeLastWriterWins:
		return s.appendPlain(ctx, relationsFileID, recommendationFileID)
	default:
		return s.appendConditional(ctx, relationsFileID, recommendationFileID)
	}
}

// GetRecord retrieves and decodes a relations record.
func (s *Service) GetRecord(ctx context.Context, relationsFileID string) (*Record, error) {
	content, err := s.store.RetrieveFile(ctx, relationsFileID)
	if err != nil {
		return nil, fmt.Errorf("retrieve relations file %q: %w", relationsFileID, err)
	}

	record := &Record{}
	if err := json.Unmarshal(content.Data, record); err != nil {
		return nil, fmt.Errorf("unmarshal relations record %q: %w", relationsFileID, err)
	}

	return record, nil
}

// GetRecordByCredentialFile resolves the relations record stored next to the
// given credential file.
func (s *Service) GetRecordByCredentialFile(ctx context.Context, vcFileID string) (*Record, error) {
	file, err := s.store.RetrieveFile(ctx, vcFileID)
	if err != nil {
		return nil, fmt.Errorf("retrieve credential file %q: %w", vcFileID, err)
	}

	if len(file.Parents) == 0 {
		return nil, fmt.Errorf("credential file %q has no parent folder", vcFileID)
	}

	siblings, err := s.store.ListFilesUnderFolder(ctx, file.Parents[0])
	if err != nil {
		return nil, fmt.Errorf("list credential folder: %w", err)
	}

	for _, sibling := range siblings {
		if sibling.Name == RelationsFileName {
			return s.GetRecord(ctx, sibling.ID)
		}
	}

	return nil, fmt.Errorf("relations record for credential %q: %w", vcFileID, blobstore.ErrDataNotFound)
}

func (s *Service) appendConditional(ctx context.Context, relationsFileID, recommendationFileID string) error {
	attempt := 0

	operation := func() error {
		attempt++

		content, err := s.store.RetrieveFile(ctx, relationsFileID)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("retrieve relations file %q: %w", relationsFileID, err))
		}

		body, err := appendToRecord(content.Data, recommendationFileID)
		if err != nil {
			return backoff.Permanent(err)
		}

		_, err = s.store.UpdateFileCond(ctx, relationsFileID, content.Rev, &blobstore.FileInput{
			FileName: RelationsFileName,
			MimeType: blobstore.MimeTypeJSON,
			Body:     body,
		})
		if errors.Is(err, blobstore.ErrRevisionMismatch) {
			logger.Warn("relations record changed underneath, retrying append",
				logfields.WithFileID(relationsFileID), logfields.WithRetries(attempt))

			return err
		}

		if err != nil {
			return backoff.Permanent(fmt.Errorf("update relations file %q: %w", relationsFileID, err))
		}

		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(appendRetryInterval), appendMaxRetries), ctx))
}

func (s *Service) appendPlain(ctx context.Context, relationsFileID, recommendationFileID string) error {
	content, err := s.store.RetrieveFile(ctx, relationsFileID)
	if err != nil {
		return fmt.Errorf("retrieve relations file %q: %w", relationsFileID, err)
	}

	body, err := appendToRecord(content.Data, recommendationFileID)
	if err != nil {
		return err
	}

	if _, err := s.store.UpdateFile(ctx, relationsFileID, &blobstore.FileInput{
		FileName: RelationsFileName,
		MimeType: blobstore.MimeTypeJSON,
		Body:     body,
	}); err != nil {
		return fmt.Errorf("update relations file %q: %w", relationsFileID, err)
	}

	return nil
}

func appendToRecord(data []byte, recommendationFileID string) ([]byte, error) {
	record := &Record{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("unmarshal relations record: %w", err)
	}

	record.Recommendations = append(record.Recommendations, recommendationFileID)

	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal relations record: %w", err)
	}

	return body, nil
}

func findCredentialFile(files []*blobstore.FileContent) *blobstore.FileContent {
	for _, file := range files {
		if file.MimeType == blobstore.MimeTypeJSON && file.Name != RelationsFileName {
			return file
		}
	}

	return nil
}

// keyedMutex is a mutex per key with no eviction; the key space is bounded
// by the number of relations files touched in a session.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()

	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}

	k.mu.Unlock()

	l.Lock()

	return l.Unlock
}
