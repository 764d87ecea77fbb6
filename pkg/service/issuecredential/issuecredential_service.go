/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package issuecredential orchestrates the credential issuance flow: create
// a did:key identity, build the unsigned document, sign it, persist the
// artifacts into the storage tree and index them in a relations record.
// There is no rollback; artifacts persisted before a later step fails stay
// in storage.
package issuecredential

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/pkg/doc/verifiable"
	"github.com/tidwall/gjson"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/opencreds/credvault/internal/logfields"
	"github.com/opencreds/credvault/pkg/did"
	"github.com/opencreds/credvault/pkg/doc/vc/builder"
	"github.com/opencreds/credvault/pkg/doc/vc/crypto"
	"github.com/opencreds/credvault/pkg/service/keystore"
	"github.com/opencreds/credvault/pkg/service/relations"
	"github.com/opencreds/credvault/pkg/storage/blobstore"
)

var logger = log.New("issuecredential-svc")

const (
	didFileSuffix            = "_did.json"
	credentialFileSuffix     = ".json"
	recommendationFileSuffix = "_recommendation.json"
	sessionFileSuffix        = "_session.json"
)

// Metrics receives issuance counters. A no-op implementation is used when
// none is wired.
type Metrics interface {
	CredentialIssued(kind string)
	RecommendationIssued()
	SignTime(value time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) CredentialIssued(string) {}

func (noopMetrics) RecommendationIssued() {}

func (noopMetrics) SignTime(time.Duration) {}

// IssuedCredential is the result of an issuance flow.
type IssuedCredential struct {
	Credential      *verifiable.Credential
	KeyID           string
	FolderID        string
	FileID          string
	RelationsFileID string
}

// Service runs the issuance flows.
type Service struct {
	store     blobstore.Store
	taxonomy  *blobstore.Taxonomy
	builder   *builder.Builder
	crypto    *crypto.Crypto
	keystore  *keystore.Service
	relations *relations.Service
	metrics   Metrics
	createDID func(opts ...did.CreateOpt) (*did.Identity, error)
	newUUID   func() string
}

// Config holds the collaborators of the Service.
type Config struct {
	Store     blobstore.Store
	Taxonomy  *blobstore.Taxonomy
	Builder   *builder.Builder
	Crypto    *crypto.Crypto
	Keystore  *keystore.Service
	Relations *relations.Service
	Metrics   Metrics
}

// Option configures the Service.
type Option func(s *Service)

// WithDIDCreator overrides the identity source.
func WithDIDCreator(create func(opts ...did.CreateOpt) (*did.Identity, error)) Option {
	return func(s *Service) {
		s.createDID = create
	}
}

// WithUUIDSource overrides the uuid source used for key ids and file names.
func WithUUIDSource(newUUID func() string) Option {
	return func(s *Service) {
		s.newUUID = newUUID
	}
}

// New returns a new issuance Service.
func New(cfg *Config, opts ...Option) *Service {
	s := &Service{
		store:     cfg.Store,
		taxonomy:  cfg.Taxonomy,
		builder:   cfg.Builder,
		crypto:    cfg.Crypto,
		keystore:  cfg.Keystore,
		relations: cfg.Relations,
		metrics:   cfg.Metrics,
		createDID: did.Create,
		newUUID:   uuid.NewString,
	}

	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IssueCredential runs the full issuance flow for the given form.
func (s *Service) IssueCredential(ctx context.Context, form builder.Form) (*IssuedCredential, error) {
	identity, keyID, didFileID, err := s.createIdentity(ctx)
	if err != nil {
		return nil, err
	}

	credential, err := s.builder.Build(identity.DIDDocument.ID, form)
	if err != nil {
		return nil, err
	}

	signed, err := s.signCredential(identity, credential)
	if err != nil {
		return nil, err
	}

	folder, fileID, err := s.persistCredential(ctx, signed, blobstore.ArtifactVC, signed.ID+credentialFileSuffix)
	if err != nil {
		return nil, err
	}

	_, relationsFile, err := s.relations.CreateRelationsRecord(ctx, folder.ID)
	if err != nil {
		return nil, fmt.Errorf("create relations record: %w", err)
	}

	s.relations.RecordFileIDs(ctx, didFileID, fileID)

	logger.Info("credential issued",
		logfields.WithCredentialID(signed.ID),
		logfields.WithCredentialKind(string(form.Kind())),
		logfields.WithDID(identity.DIDDocument.ID),
		logfields.WithFileID(fileID))

	s.metrics.CredentialIssued(string(form.Kind()))

	return &IssuedCredential{
		Credential:      signed,
		KeyID:           keyID,
		FolderID:        folder.ID,
		FileID:          fileID,
		RelationsFileID: relationsFile.ID,
	}, nil
}

// IssueRecommendation issues a recommendation targeting the credential
// stored in vcFileID and appends it to that credential's relations record.
func (s *Service) IssueRecommendation(
	ctx context.Context, vcFileID string, form builder.RecommendationForm) (*IssuedCredential, error) {
	parent, err := s.store.RetrieveFile(ctx, vcFileID)
	if err != nil {
		return nil, fmt.Errorf("retrieve credential file %q: %w", vcFileID, err)
	}

	parentID := gjson.GetBytes(parent.Data, "id").String()
	if parentID == "" {
		return nil, fmt.Errorf("credential file %q has no id", vcFileID)
	}

	identity, keyID, didFileID, err := s.createIdentity(ctx)
	if err != nil {
		return nil, err
	}

	credential, err := s.builder.BuildRecommendation(identity.DIDDocument.ID, parentID, form)
	if err != nil {
		return nil, err
	}

	signed, err := s.signCredential(identity, credential)
	if err != nil {
		return nil, err
	}

	// Recommendation ids are shared across recommendations on the same
	// credential; the uuid in the file name keeps storage paths unique.
	fileName := s.newUUID() + recommendationFileSuffix

	folder, fileID, err := s.persistCredential(ctx, signed, blobstore.ArtifactRecommendation, fileName)
	if err != nil {
		return nil, err
	}

	relationsFileID, err := s.findRelationsFile(ctx, parent)
	if err != nil {
		return nil, err
	}

	if err := s.relations.AppendRecommendation(ctx, relationsFileID, fileID); err != nil {
		return nil, fmt.Errorf("append recommendation: %w", err)
	}

	s.relations.RecordFileIDs(ctx, didFileID, fileID)

	logger.Info("recommendation issued",
		logfields.WithCredentialID(parentID),
		logfields.WithFileID(fileID))

	s.metrics.RecommendationIssued()

	return &IssuedCredential{
		Credential:      signed,
		KeyID:           keyID,
		FolderID:        folder.ID,
		FileID:          fileID,
		RelationsFileID: relationsFileID,
	}, nil
}

// SaveMedia stores a binary upload under the MEDIAs folder.
func (s *Service) SaveMedia(ctx context.Context, fileName, mimeType string, data []byte) (*blobstore.File, error) {
	folder, err := s.taxonomy.EnsureTyped(ctx, blobstore.ArtifactMedia)
	if err != nil {
		return nil, fmt.Errorf("ensure media folder: %w", err)
	}

	file, err := s.store.CreateFile(ctx, folder.ID, &blobstore.FileInput{
		FileName: fileName,
		MimeType: mimeType,
		Body:     data,
	})
	if err != nil {
		return nil, fmt.Errorf("save media %q: %w", fileName, err)
	}

	s.relations.RecordFileIDs(ctx, file.ID)

	return file, nil
}

// SaveSession stores a session artifact under the SESSIONs folder.
func (s *Service) SaveSession(ctx context.Context, sessionID string, payload []byte) (*blobstore.File, error) {
	folder, err := s.taxonomy.EnsureTyped(ctx, blobstore.ArtifactSession)
	if err != nil {
		return nil, fmt.Errorf("ensure session folder: %w", err)
	}

	file, err := s.store.CreateFile(ctx, folder.ID, &blobstore.FileInput{
		FileName: sessionID + sessionFileSuffix,
		MimeType: blobstore.MimeTypeJSON,
		Body:     payload,
	})
	if err != nil {
		return nil, fmt.Errorf("save session %q: %w", sessionID, err)
	}

	return file, nil
}

// signCredential signs with the identity's key pair and reports the signing
// latency.
func (s *Service) signCredential(
	identity *did.Identity, credential *verifiable.Credential) (*verifiable.Credential, error) {
	start := time.Now()

	signed, err := s.crypto.SignCredential(identity.KeyPair, identity.KeyPair.ID, credential)
	if err != nil {
		return nil, err
	}

	s.metrics.SignTime(time.Since(start))

	return signed, nil
}

// createIdentity generates a fresh did:key identity and persists the DID
// document plus the key pair catalog entry.
func (s *Service) createIdentity(ctx context.Context) (*did.Identity, string, string, error) {
	identity, err := s.createDID()
	if err != nil {
		return nil, "", "", fmt.Errorf("create did: %w", err)
	}

	keyID := s.newUUID()

	didFolder, err := s.taxonomy.EnsureTyped(ctx, blobstore.ArtifactDID)
	if err != nil {
		return nil, "", "", fmt.Errorf("ensure did folder: %w", err)
	}

	docBytes, err := identity.DIDDocument.JSONBytes()
	if err != nil {
		return nil, "", "", fmt.Errorf("marshal did document: %w", err)
	}

	didFile, err := s.store.CreateFile(ctx, didFolder.ID, &blobstore.FileInput{
		FileName: keyID + didFileSuffix,
		MimeType: blobstore.MimeTypeJSON,
		Body:     docBytes,
	})
	if err != nil {
		return nil, "", "", fmt.Errorf("save did document: %w", err)
	}

	if _, err := s.keystore.Save(ctx, keyID, identity.KeyPair); err != nil {
		return nil, "", "", err
	}

	return identity, keyID, didFile.ID, nil
}

// persistCredential writes the signed credential into its own folder under
// the typed subfolder and makes the file world-readable so verifiers can
// fetch it.
func (s *Service) persistCredential(
	ctx context.Context, signed *verifiable.Credential,
	artifact blobstore.ArtifactType, fileName string) (*blobstore.Folder, string, error) {
	typed, err := s.taxonomy.EnsureTyped(ctx, artifact)
	if err != nil {
		return nil, "", fmt.Errorf("ensure %s folder: %w", artifact, err)
	}

	folder, err := s.store.CreateFolder(ctx, signed.ID, typed.ID)
	if err != nil {
		return nil, "", fmt.Errorf("create credential folder: %w", err)
	}

	body, err := signed.MarshalJSON()
	if err != nil {
		return nil, "", fmt.Errorf("marshal signed credential: %w", err)
	}

	file, err := s.store.CreateFile(ctx, folder.ID, &blobstore.FileInput{
		FileName: fileName,
		MimeType: blobstore.MimeTypeJSON,
		Body:     body,
	})
	if err != nil {
		return nil, "", fmt.Errorf("save credential file: %w", err)
	}

	if err := s.store.SetPublicReadPermission(ctx, file.ID); err != nil {
		return nil, "", fmt.Errorf("set public read on %q: %w", file.ID, err)
	}

	return folder, file.ID, nil
}

// findRelationsFile locates the RELATIONS file next to the given credential
// file.
func (s *Service) findRelationsFile(ctx context.Context, credentialFile *blobstore.FileContent) (string, error) {
	if len(credentialFile.Parents) == 0 {
		return "", fmt.Errorf("credential file %q has no parent folder", credentialFile.ID)
	}

	files, err := s.store.ListFilesUnderFolder(ctx, credentialFile.Parents[0])
	if err != nil {
		return "", fmt.Errorf("list credential folder: %w", err)
	}

	for _, file := range files {
		if file.Name == relations.RelationsFileName {
			return file.ID, nil
		}
	}

	return "", fmt.Errorf("relations file for credential %q: %w", credentialFile.ID, blobstore.ErrDataNotFound)
}
