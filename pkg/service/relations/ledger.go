/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package relations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/opencreds/credvault/internal/logfields"
	"github.com/opencreds/credvault/pkg/storage/blobstore"
)

// RecordFileIDs appends file ids to the ledger in the application-private
// area. The ledger is best-effort bookkeeping, not a source of truth: every
// failure is logged and swallowed so the primary flow never aborts on it.
func (s *Service) RecordFileIDs(ctx context.Context, fileIDs ...string) {
	if len(fileIDs) == 0 {
		return
	}

	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	if !s.ledgerLoaded {
		if err := s.loadLedger(ctx); err != nil {
			logger.Warn("file-id ledger unavailable, skipping append", log.WithError(err))

			return
		}
	}

	s.ledgerIDs = append(s.ledgerIDs, fileIDs...)

	body, err := json.Marshal(s.ledgerIDs)
	if err != nil {
		logger.Warn("marshal file-id ledger", log.WithError(err))

		return
	}

	if _, err := s.store.UpdateFile(ctx, s.ledgerFileID, &blobstore.FileInput{
		FileName: LedgerFileName,
		MimeType: blobstore.MimeTypeJSON,
		Body:     body,
	}); err != nil {
		logger.Warn("update file-id ledger", log.WithError(err),
			logfields.WithFileID(s.ledgerFileID), logfields.WithLedgerSize(len(s.ledgerIDs)))
	}
}

// FileIDs returns every file id recorded in the ledger, loading it on first
// use and serving the session cache afterwards.
func (s *Service) FileIDs(ctx context.Context) ([]string, error) {
	s.ledgerMu.Lock()
	defer s.ledgerMu.Unlock()

	if !s.ledgerLoaded {
		if err := s.loadLedger(ctx); err != nil {
			return nil, err
		}
	}

	ids := make([]string, len(s.ledgerIDs))
	copy(ids, s.ledgerIDs)

	return ids, nil
}

// loadLedger resolves the ledger file under the application-private area,
// creating an empty one if absent. Caller holds ledgerMu.
func (s *Service) loadLedger(ctx context.Context) error {
	appData, err := s.taxonomy.EnsureAppData(ctx)
	if err != nil {
		return fmt.Errorf("ensure app-data folder: %w", err)
	}

	files, err := s.store.ListFilesUnderFolder(ctx, appData.ID)
	if err != nil {
		return fmt.Errorf("list app-data files: %w", err)
	}

	for _, file := range files {
		if file.Name != LedgerFileName {
			continue
		}

		var ids []string
		if err := json.Unmarshal(file.Data, &ids); err != nil {
			return fmt.Errorf("unmarshal file-id ledger %q: %w", file.ID, err)
		}

		s.ledgerFileID = file.ID
		s.ledgerIDs = ids
		s.ledgerLoaded = true

		return nil
	}

	created, err := s.store.CreateFile(ctx, appData.ID, &blobstore.FileInput{
		FileName: LedgerFileName,
		MimeType: blobstore.MimeTypeJSON,
		Body:     []byte("[]"),
	})
	if err != nil {
		return fmt.Errorf("create file-id ledger: %w", err)
	}

	s.ledgerFileID = created.ID
	s.ledgerIDs = nil
	s.ledgerLoaded = true

	return nil
}
