/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did creates did:key identities: an Ed25519 key pair plus the DID
// document that binds it. Documents are immutable once created; there is no
// update or rotation operation.
package did

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/hyperledger/aries-framework-go/pkg/doc/did"
	"github.com/hyperledger/aries-framework-go/pkg/vdr/fingerprint"
)

// Verification method types emitted into created DID documents.
const (
	Ed25519VerificationKey2020 = "Ed25519VerificationKey2020"
	X25519KeyAgreementKey2020  = "X25519KeyAgreementKey2020"
)

const (
	didKeyPrefix          = "did:key:"
	keyAgreementIDSuffix  = "-keyAgreement"
	didContextV1          = "https://www.w3.org/ns/did/v1"
	ed25519Suite2020CtxV1 = "https://w3id.org/security/suites/ed25519-2020/v1"
	x25519Suite2020CtxV1  = "https://w3id.org/security/suites/x25519-2020/v1"
)

// Identity is the result of Create.
type Identity struct {
	DIDDocument *did.Doc
	KeyPair     *KeyPair
}

type createOpts struct {
	controller string
}

// CreateOpt configures Create.
type CreateOpt func(opts *createOpts)

// WithController overrides the DID controller with an externally supplied
// address (e.g. a wallet account) instead of the generated key fingerprint.
func WithController(controller string) CreateOpt {
	return func(opts *createOpts) {
		opts.controller = controller
	}
}

// Create generates an Ed25519 key pair and the DID document binding it. All
// four capability relations reference the single verification key.
func Create(opts ...CreateOpt) (*Identity, error) {
	op := &createOpts{}

	for _, fn := range opts {
		fn(op)
	}

	pubKey, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}

	pubKeyMultibase := fingerprint.KeyFingerprint(ed25519PubKeyMultiCodec, pubKey)

	controller := didKeyPrefix + pubKeyMultibase
	if op.controller != "" {
		controller = op.controller
	}

	keyPair := &KeyPair{
		ID:                  controller + "#" + pubKeyMultibase,
		Controller:          controller,
		PublicKeyMultibase:  pubKeyMultibase,
		PrivateKeyMultibase: fingerprint.KeyFingerprint(ed25519PrivKeyMultiCodec, privKey),
		privateKey:          privKey,
	}

	doc, err := newDIDDoc(controller, keyPair.ID, pubKey)
	if err != nil {
		return nil, err
	}

	return &Identity{DIDDocument: doc, KeyPair: keyPair}, nil
}

func newDIDDoc(didID, keyID string, pubKey ed25519.PublicKey) (*did.Doc, error) {
	vm := did.NewVerificationMethodFromBytes(keyID, Ed25519VerificationKey2020, didID, pubKey)

	// The key-agreement entry reuses the Ed25519 public bytes under an
	// X25519 type instead of deriving a proper X25519 key. Known limitation
	// kept for wire compatibility with previously stored documents; fixing
	// it changes every DID document this system emits.
	keyAgreementVM := did.NewVerificationMethodFromBytes(
		keyID+keyAgreementIDSuffix, X25519KeyAgreementKey2020, didID, pubKey)

	created := time.Now()

	return &did.Doc{
		Context:            []string{didContextV1, ed25519Suite2020CtxV1, x25519Suite2020CtxV1},
		ID:                 didID,
		VerificationMethod: []did.VerificationMethod{*vm},
		Authentication: []did.Verification{
			*did.NewReferencedVerification(vm, did.Authentication),
		},
		AssertionMethod: []did.Verification{
			*did.NewReferencedVerification(vm, did.AssertionMethod),
		},
		CapabilityDelegation: []did.Verification{
			*did.NewReferencedVerification(vm, did.CapabilityDelegation),
		},
		CapabilityInvocation: []did.Verification{
			*did.NewReferencedVerification(vm, did.CapabilityInvocation),
		},
		KeyAgreement: []did.Verification{
			*did.NewEmbeddedVerification(keyAgreementVM, did.KeyAgreement),
		},
		Created: &created,
	}, nil
}
