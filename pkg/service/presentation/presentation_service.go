/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package presentation composes verified credentials into a signed
// presentation. Composition is gated on batch verification: one bad
// credential rejects the whole set.
package presentation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/pkg/doc/verifiable"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/opencreds/credvault/internal/logfields"
	"github.com/opencreds/credvault/pkg/did"
	"github.com/opencreds/credvault/pkg/doc/vc/crypto"
	"github.com/opencreds/credvault/pkg/service/keystore"
)

var logger = log.New("presentation-svc")

// Service composes and signs presentations.
type Service struct {
	crypto   *crypto.Crypto
	keystore *keystore.Service
	newUUID  func() string
}

// Option configures the Service.
type Option func(s *Service)

// WithUUIDSource overrides the uuid source used for presentation ids.
func WithUUIDSource(newUUID func() string) Option {
	return func(s *Service) {
		s.newUUID = newUUID
	}
}

// New returns a new presentation Service.
func New(c *crypto.Crypto, ks *keystore.Service, opts ...Option) *Service {
	s := &Service{
		crypto:   c,
		keystore: ks,
		newUUID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreatePresentation verifies every input credential, resolves the holder's
// key pair through the catalog and assembles an unsigned presentation. The
// holder key is looked up by the uuid embedded in the first credential's id.
func (s *Service) CreatePresentation(
	ctx context.Context, vcsBytes [][]byte) (*verifiable.Presentation, *did.KeyPair, error) {
	if len(vcsBytes) == 0 {
		return nil, nil, fmt.Errorf("no credentials to present")
	}

	credentials, err := s.crypto.VerifyBatch(vcsBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("verify credentials: %w", err)
	}

	keyID, err := holderKeyID(credentials[0].ID)
	if err != nil {
		return nil, nil, err
	}

	keyPair, err := s.keystore.Get(ctx, keyID)
	if err != nil {
		return nil, nil, err
	}

	vp, err := verifiable.NewPresentation(verifiable.WithCredentials(credentials...))
	if err != nil {
		return nil, nil, fmt.Errorf("new presentation: %w", err)
	}

	vp.ID = "urn:uuid:" + s.newUUID()
	vp.Holder = keyPair.Controller

	logger.Debug("presentation assembled",
		logfields.WithPresentationID(vp.ID), logfields.WithHolder(vp.Holder))

	return vp, keyPair, nil
}

// SignPresentation signs the presentation with the holder's key. No
// challenge is set unless the caller passes crypto.WithChallenge.
func (s *Service) SignPresentation(
	vp *verifiable.Presentation, keyPair *did.KeyPair,
	opts ...crypto.SigningOpts) (*verifiable.Presentation, error) {
	return s.crypto.SignPresentation(keyPair, keyPair.ID, vp, opts...)
}

// holderKeyID extracts the key id embedded as the third colon-segment of the
// credential id ("urn:uuid:<id>"). Hash-derived credential ids carry no such
// segment; presentations can only be built from credentials issued with a
// uuid-bearing id.
func holderKeyID(credentialID string) (string, error) {
	parts := strings.Split(credentialID, ":")
	if len(parts) < 3 || parts[2] == "" {
		return "", fmt.Errorf("%w: credential id %q carries no key reference",
			keystore.ErrKeyNotFound, credentialID)
	}

	return parts[2], nil
}
