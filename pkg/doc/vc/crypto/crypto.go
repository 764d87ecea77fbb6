/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package crypto signs and verifies credential and presentation documents
// with the Ed25519Signature2020 linked-data suite. Suite and DID resolution
// are external capabilities; this package only wires them together and
// surfaces their errors unchanged.
package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/hyperledger/aries-framework-go/pkg/doc/signature/jsonld"
	"github.com/hyperledger/aries-framework-go/pkg/doc/signature/suite"
	"github.com/hyperledger/aries-framework-go/pkg/doc/signature/suite/ed25519signature2020"
	"github.com/hyperledger/aries-framework-go/pkg/doc/verifiable"
	vdrapi "github.com/hyperledger/aries-framework-go/pkg/framework/aries/api/vdr"
	"github.com/piprate/json-gold/ld"

	"github.com/opencreds/credvault/pkg/doc/vc/vcutil"
)

// Ed25519Signature2020 is the proof type this service produces.
const Ed25519Signature2020 = "Ed25519Signature2020"

// ErrVerificationFailed marks parse or proof-check failures on inbound
// credentials, as opposed to infrastructure errors.
var ErrVerificationFailed = errors.New("credential verification failed")

// Proof purposes.
const (
	// AssertionMethod assertionMethod.
	AssertionMethod = "assertionMethod"

	// Authentication authentication.
	Authentication = "authentication"
)

// Signer produces a raw signature over the canonicalized document. KeyPair
// from pkg/did satisfies it.
type Signer interface {
	Sign(data []byte) ([]byte, error)
	Alg() string
}

// Crypto signs and verifies credentials and presentations.
type Crypto struct {
	vdr            vdrapi.Registry
	documentLoader ld.DocumentLoader
}

// New returns a new instance of Crypto.
func New(vdr vdrapi.Registry, loader ld.DocumentLoader) *Crypto {
	return &Crypto{vdr: vdr, documentLoader: loader}
}

// signingOpts holds options for signing.
type signingOpts struct {
	Purpose   string
	Created   *time.Time
	Challenge string
	Domain    string
}

// SigningOpts is a signing option.
type SigningOpts func(opts *signingOpts)

// WithPurpose is an option to pass the proof purpose.
func WithPurpose(purpose string) SigningOpts {
	return func(opts *signingOpts) {
		opts.Purpose = purpose
	}
}

// WithCreated is an option to pass the proof creation time.
func WithCreated(created *time.Time) SigningOpts {
	return func(opts *signingOpts) {
		opts.Created = created
	}
}

// WithChallenge is an option to pass a proof challenge. No challenge is set
// by default; callers needing replay protection must opt in explicitly.
func WithChallenge(challenge string) SigningOpts {
	return func(opts *signingOpts) {
		opts.Challenge = challenge
	}
}

// WithDomain is an option to pass a proof domain.
func WithDomain(domain string) SigningOpts {
	return func(opts *signingOpts) {
		opts.Domain = domain
	}
}

// SignCredential adds an Ed25519Signature2020 linked-data proof to the
// credential. The proof purpose defaults to assertionMethod.
func (c *Crypto) SignCredential(
	signer Signer, verificationMethod string, credential *verifiable.Credential,
	opts ...SigningOpts) (*verifiable.Credential, error) {
	signOpts := &signingOpts{}
	for _, opt := range opts {
		opt(signOpts)
	}

	if signOpts.Purpose == "" {
		signOpts.Purpose = AssertionMethod
	}

	vcutil.UpdateSignatureTypeContext(credential)

	err := credential.AddLinkedDataProof(
		c.linkedDataProofContext(signer, verificationMethod, signOpts),
		jsonld.WithDocumentLoader(c.documentLoader))
	if err != nil {
		return nil, fmt.Errorf("sign credential: %w", err)
	}

	return credential, nil
}

// SignPresentation adds an Ed25519Signature2020 linked-data proof to the
// presentation. The proof purpose defaults to authentication.
func (c *Crypto) SignPresentation(
	signer Signer, verificationMethod string, vp *verifiable.Presentation,
	opts ...SigningOpts) (*verifiable.Presentation, error) {
	signOpts := &signingOpts{}
	for _, opt := range opts {
		opt(signOpts)
	}

	if signOpts.Purpose == "" {
		signOpts.Purpose = Authentication
	}

	if !contains(vp.Context, vcutil.Ed25519Signature2020Context) {
		vp.Context = append(vp.Context, vcutil.Ed25519Signature2020Context)
	}

	err := vp.AddLinkedDataProof(
		c.linkedDataProofContext(signer, verificationMethod, signOpts),
		jsonld.WithDocumentLoader(c.documentLoader))
	if err != nil {
		return nil, fmt.Errorf("sign presentation: %w", err)
	}

	return vp, nil
}

// VerifyCredential checks the proof of a signed credential, resolving the
// verification key through the VDR registry.
func (c *Crypto) VerifyCredential(vcBytes []byte) (*verifiable.Credential, error) {
	credential, err := verifiable.ParseCredential(
		vcBytes,
		verifiable.WithPublicKeyFetcher(verifiable.NewVDRKeyResolver(c.vdr).PublicKeyFetcher()),
		verifiable.WithJSONLDDocumentLoader(c.documentLoader))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	if len(credential.Proofs) == 0 {
		return nil, fmt.Errorf("%w: credential has no proof", ErrVerificationFailed)
	}

	return credential, nil
}

// VerifyBatch verifies every credential in the batch and fails closed: a
// single invalid credential fails the whole batch.
func (c *Crypto) VerifyBatch(vcsBytes [][]byte) ([]*verifiable.Credential, error) {
	credentials := make([]*verifiable.Credential, 0, len(vcsBytes))

	for i, vcBytes := range vcsBytes {
		credential, err := c.VerifyCredential(vcBytes)
		if err != nil {
			return nil, fmt.Errorf("credential %d: %w", i, err)
		}

		credentials = append(credentials, credential)
	}

	return credentials, nil
}

func (c *Crypto) linkedDataProofContext(
	signer Signer, verificationMethod string, opts *signingOpts) *verifiable.LinkedDataProofContext {
	return &verifiable.LinkedDataProofContext{
		VerificationMethod:      verificationMethod,
		SignatureRepresentation: verifiable.SignatureProofValue,
		SignatureType:           Ed25519Signature2020,
		Suite:                   ed25519signature2020.New(suite.WithSigner(signer)),
		Purpose:                 opts.Purpose,
		Created:                 opts.Created,
		Challenge:               opts.Challenge,
		Domain:                  opts.Domain,
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}

	return false
}
