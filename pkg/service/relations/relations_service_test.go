/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package relations_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencreds/credvault/pkg/service/relations"
	"github.com/opencreds/credvault/pkg/storage/blobstore"
	"github.com/opencreds/credvault/pkg/storage/blobstore/inmem"
)

const credentialBody = `{
	"id": "urn:1111aaaa",
	"type": ["VerifiableCredential", "OpenBadgeCredential"],
	"credentialSubject": {"id": "did:key:z6Mk", "fullName": "John Doe"}
}`

func newService(store blobstore.Store, opts ...relations.Option) *relations.Service {
	return relations.New(store, blobstore.NewTaxonomy(blobstore.NewCachedStore(store)), opts...)
}

func createCredentialFolder(t *testing.T, store blobstore.Store) (folderID, credentialFileID string) {
	t.Helper()

	folder, err := store.CreateFolder(context.Background(), "urn:1111aaaa", "")
	require.NoError(t, err)

	file, err := store.CreateFile(context.Background(), folder.ID, &blobstore.FileInput{
		FileName: "urn:1111aaaa.json",
		MimeType: blobstore.MimeTypeJSON,
		Body:     []byte(credentialBody),
	})
	require.NoError(t, err)

	return folder.ID, file.ID
}

func TestCreateRelationsRecord(t *testing.T) {
	store := inmem.NewStore()
	svc := newService(store)

	folderID, credentialFileID := createCredentialFolder(t, store)

	record, file, err := svc.CreateRelationsRecord(context.Background(), folderID)
	require.NoError(t, err)
	require.Equal(t, credentialFileID, record.VC.FileID)
	require.JSONEq(t, `{"id": "did:key:z6Mk", "fullName": "John Doe"}`, string(record.VC.Subject))
	require.Empty(t, record.Recommendations)

	stored, err := svc.GetRecord(context.Background(), file.ID)
	require.NoError(t, err)
	require.Equal(t, record.VC.FileID, stored.VC.FileID)

	t.Run("relations file id lands in the ledger", func(t *testing.T) {
		ids, ledgerErr := svc.FileIDs(context.Background())
		require.NoError(t, ledgerErr)
		require.Contains(t, ids, file.ID)
	})
}

func TestGetRecordByCredentialFile(t *testing.T) {
	store := inmem.NewStore()
	svc := newService(store)

	folderID, credentialFileID := createCredentialFolder(t, store)

	_, file, err := svc.CreateRelationsRecord(context.Background(), folderID)
	require.NoError(t, err)
	require.NoError(t, svc.AppendRecommendation(context.Background(), file.ID, "rec-A"))

	record, err := svc.GetRecordByCredentialFile(context.Background(), credentialFileID)
	require.NoError(t, err)
	require.Equal(t, credentialFileID, record.VC.FileID)
	require.Equal(t, []string{"rec-A"}, record.Recommendations)

	t.Run("missing record", func(t *testing.T) {
		bareFolder, folderErr := store.CreateFolder(context.Background(), "bare", "")
		require.NoError(t, folderErr)

		bare, fileErr := store.CreateFile(context.Background(), bareFolder.ID, &blobstore.FileInput{
			FileName: "bare.json",
			MimeType: blobstore.MimeTypeJSON,
			Body:     []byte(credentialBody),
		})
		require.NoError(t, fileErr)

		_, recordErr := svc.GetRecordByCredentialFile(context.Background(), bare.ID)
		require.ErrorIs(t, recordErr, blobstore.ErrDataNotFound)
	})
}

func TestCreateRelationsRecord_NoCredentialFile(t *testing.T) {
	store := inmem.NewStore()
	svc := newService(store)

	folder, err := store.CreateFolder(context.Background(), "empty", "")
	require.NoError(t, err)

	_, _, err = svc.CreateRelationsRecord(context.Background(), folder.ID)
	require.True(t, errors.Is(err, blobstore.ErrDataNotFound))
}

func TestAppendRecommendation_Sequential(t *testing.T) {
	store := inmem.NewStore()
	svc := newService(store)

	folderID, _ := createCredentialFolder(t, store)

	_, file, err := svc.CreateRelationsRecord(context.Background(), folderID)
	require.NoError(t, err)

	require.NoError(t, svc.AppendRecommendation(context.Background(), file.ID, "rec-A"))
	require.NoError(t, svc.AppendRecommendation(context.Background(), file.ID, "rec-B"))

	record, err := svc.GetRecord(context.Background(), file.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"rec-A", "rec-B"}, record.Recommendations)
}

func TestAppendRecommendation_ConcurrentConditional(t *testing.T) {
	store := inmem.NewStore()
	svc := newService(store)

	folderID, _ := createCredentialFolder(t, store)

	_, file, err := svc.CreateRelationsRecord(context.Background(), folderID)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for _, id := range []string{"rec-A", "rec-B"} {
		id := id

		wg.Add(1)

		go func() {
			defer wg.Done()

			require.NoError(t, svc.AppendRecommendation(context.Background(), file.ID, id))
		}()
	}

	wg.Wait()

	record, err := svc.GetRecord(context.Background(), file.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"rec-A", "rec-B"}, record.Recommendations)
}

func TestAppendRecommendation_ConcurrentSerialized(t *testing.T) {
	store := inmem.NewStore()
	svc := newService(store, relations.WithWriteMode(relations.WriteModeSerialized))

	folderID, _ := createCredentialFolder(t, store)

	_, file, err := svc.CreateRelationsRecord(context.Background(), folderID)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for _, id := range []string{"rec-A", "rec-B"} {
		id := id

		wg.Add(1)

		go func() {
			defer wg.Done()

			require.NoError(t, svc.AppendRecommendation(context.Background(), file.ID, id))
		}()
	}

	wg.Wait()

	record, err := svc.GetRecord(context.Background(), file.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"rec-A", "rec-B"}, record.Recommendations)
}

// rmwRaceStore forces the classic lost-update interleaving: both appenders
// read the record before either writes it back.
type rmwRaceStore struct {
	*inmem.Store
	bothRead *sync.WaitGroup
}

func (s *rmwRaceStore) RetrieveFile(ctx context.Context, fileID string) (*blobstore.FileContent, error) {
	content, err := s.Store.RetrieveFile(ctx, fileID)
	s.bothRead.Done()

	return content, err
}

func (s *rmwRaceStore) UpdateFile(
	ctx context.Context, fileID string, file *blobstore.FileInput) (*blobstore.File, error) {
	s.bothRead.Wait()

	return s.Store.UpdateFile(ctx, fileID, file)
}

func TestAppendRecommendation_LostUpdateWithoutConditionalWrites(t *testing.T) {
	store := inmem.NewStore()

	folderID, _ := createCredentialFolder(t, store)

	_, file, err := newService(store).CreateRelationsRecord(context.Background(), folderID)
	require.NoError(t, err)

	bothRead := &sync.WaitGroup{}
	bothRead.Add(2)

	raceStore := &rmwRaceStore{Store: store, bothRead: bothRead}
	svc := newService(raceStore, relations.WithWriteMode(relations.WriteModeLastWriterWins))

	var wg sync.WaitGroup

	for _, id := range []string{"rec-A", "rec-B"} {
		id := id

		wg.Add(1)

		go func() {
			defer wg.Done()

			require.NoError(t, svc.AppendRecommendation(context.Background(), file.ID, id))
		}()
	}

	wg.Wait()

	// One of the two appends is silently dropped. This is the documented
	// behavior of plain read-modify-write against this store.
	record, err := newService(store).GetRecord(context.Background(), file.ID)
	require.NoError(t, err)
	require.Len(t, record.Recommendations, 1)
	require.Subset(t, []string{"rec-A", "rec-B"}, record.Recommendations)
}

// ledgerFailStore rejects creation of the ledger file.
type ledgerFailStore struct {
	*inmem.Store
}

func (s *ledgerFailStore) CreateFile(
	ctx context.Context, folderID string, file *blobstore.FileInput) (*blobstore.File, error) {
	if file.FileName == relations.LedgerFileName {
		return nil, errors.New("ledger quota exceeded")
	}

	return s.Store.CreateFile(ctx, folderID, file)
}

func TestCreateRelationsRecord_LedgerFailureIsSoft(t *testing.T) {
	store := &ledgerFailStore{Store: inmem.NewStore()}
	svc := newService(store)

	folderID, _ := createCredentialFolder(t, store)

	record, file, err := svc.CreateRelationsRecord(context.Background(), folderID)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotEmpty(t, file.ID)

	_, err = svc.FileIDs(context.Background())
	require.Error(t, err)
}
