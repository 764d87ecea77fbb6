/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcutil

import (
	"github.com/hyperledger/aries-framework-go/pkg/doc/verifiable"
	"github.com/samber/lo"
)

const (
	// DefVCContext is the base W3C credentials context.
	DefVCContext = "https://www.w3.org/2018/credentials/v1"

	// Ed25519Signature2020Context is the signature-suite context required on
	// documents carrying an Ed25519Signature2020 proof.
	Ed25519Signature2020Context = "https://w3id.org/security/suites/ed25519-2020/v1"
)

// UpdateSignatureTypeContext appends the signature-suite context to the
// credential if it is not present yet. Called right before signing; the
// hash-derived credential id is computed earlier and does not cover this
// context entry.
func UpdateSignatureTypeContext(credential *verifiable.Credential) {
	if lo.Contains(credential.Context, Ed25519Signature2020Context) {
		return
	}

	credential.Context = append(credential.Context, Ed25519Signature2020Context)
}

// PrependBaseContext ensures the base credentials context is the first
// @context entry, as required by the VC data model.
func PrependBaseContext(contexts []string) []string {
	if len(contexts) > 0 && contexts[0] == DefVCContext {
		return contexts
	}

	return append([]string{DefVCContext}, lo.Without(contexts, DefVCContext)...)
}
