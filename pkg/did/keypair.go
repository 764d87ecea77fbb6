/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"crypto/ed25519"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Multicodec prefixes for Ed25519 key material.
const (
	ed25519PubKeyMultiCodec  = 0xed
	ed25519PrivKeyMultiCodec = 0x1300
)

const multibaseBase58BTCPrefix = 'z'

// KeyPair is Ed25519 key material bound to a DID. The private part is kept
// only on the issuing/holder side and never serialized into a credential;
// it does travel in the key-pair catalog files the keystore manages.
type KeyPair struct {
	ID                  string `json:"id"`
	Controller          string `json:"controller"`
	PublicKeyMultibase  string `json:"publicKeyMultibase"`
	PrivateKeyMultibase string `json:"privateKeyMultibase,omitempty"`
	Revoked             bool   `json:"revoked"`

	privateKey ed25519.PrivateKey
}

// Sign signs data with the private key. KeyPair satisfies the signer
// contract of the linked-data signature suite.
func (k *KeyPair) Sign(data []byte) ([]byte, error) {
	if len(k.privateKey) != ed25519.PrivateKeySize {
		return nil, errors.New("ed25519: missing or malformed private key")
	}

	return ed25519.Sign(k.privateKey, data), nil
}

// Alg returns the JOSE algorithm name of the key.
func (k *KeyPair) Alg() string {
	return "EdDSA"
}

// PublicKeyBytes returns the raw Ed25519 public key.
func (k *KeyPair) PublicKeyBytes() ([]byte, error) {
	return decodeMultibase(k.PublicKeyMultibase, ed25519PubKeyMultiCodec)
}

// MarshalJSON serializes the key pair catalog representation.
func (k *KeyPair) MarshalJSON() ([]byte, error) {
	type alias KeyPair

	return json.Marshal((*alias)(k))
}

// ParseKeyPair restores a KeyPair from its catalog representation,
// rehydrating the private key from privateKeyMultibase when present.
func ParseKeyPair(raw []byte) (*KeyPair, error) {
	type alias KeyPair

	kp := &alias{}

	if err := json.Unmarshal(raw, kp); err != nil {
		return nil, fmt.Errorf("unmarshal key pair: %w", err)
	}

	result := (*KeyPair)(kp)

	if result.PrivateKeyMultibase != "" {
		privBytes, err := decodeMultibase(result.PrivateKeyMultibase, ed25519PrivKeyMultiCodec)
		if err != nil {
			return nil, fmt.Errorf("decode private key: %w", err)
		}

		if len(privBytes) != ed25519.PrivateKeySize {
			return nil, errors.New("unexpected ed25519 private key size")
		}

		result.privateKey = privBytes
	}

	return result, nil
}

func decodeMultibase(mb string, expectedCode uint64) ([]byte, error) {
	if len(mb) < 2 || mb[0] != multibaseBase58BTCPrefix {
		return nil, errors.New("not a base58btc multibase value")
	}

	decoded, err := base58.Decode(mb[1:])
	if err != nil {
		return nil, fmt.Errorf("base58 decode: %w", err)
	}

	code, n := binary.Uvarint(decoded)
	if n <= 0 || code != expectedCode {
		return nil, fmt.Errorf("unexpected multicodec 0x%x", code)
	}

	return decoded[n:], nil
}
