/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ld builds the JSON-LD document loader used for signing and
// verification. The small fixed set of contexts the credential documents
// reference is embedded so that sign/verify never reaches the network for
// them; anything outside this set resolves through an optional remote
// loader, and a miss is a hard error that aborts the operation.
package ld

import (
	_ "embed" //nolint:gci // required for go:embed
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/pkg/doc/ld"
	"github.com/hyperledger/aries-framework-go/pkg/doc/ldcontext"
	ldstore "github.com/hyperledger/aries-framework-go/pkg/store/ld"
	jsonld "github.com/piprate/json-gold/ld"
)

// Context URLs known to the loader. The base credentials context ships with
// the loader's preloaded set.
const (
	CredentialsContextURL          = "https://www.w3.org/2018/credentials/v1"
	OpenBadgesV3ContextURL         = "https://purl.imsglobal.org/spec/ob/v3p0/context-3.0.2.json"
	Ed25519Signature2020ContextURL = "https://w3id.org/security/suites/ed25519-2020/v1"
)

// nolint:gochecknoglobals //embedded contexts
var (
	//go:embed contexts/ob-v3p0-context-3.0.2.jsonld
	openBadgesV3Vocab []byte
	//go:embed contexts/ed25519-2020-v1.jsonld
	ed25519Signature2020Vocab []byte
)

var embedContexts = []ldcontext.Document{ //nolint:gochecknoglobals
	{
		URL:     OpenBadgesV3ContextURL,
		Content: openBadgesV3Vocab,
	},
	{
		URL:     Ed25519Signature2020ContextURL,
		Content: ed25519Signature2020Vocab,
	},
}

type storeProvider struct {
	contextStore        ldstore.ContextStore
	remoteProviderStore ldstore.RemoteProviderStore
}

func (p *storeProvider) JSONLDContextStore() ldstore.ContextStore {
	return p.contextStore
}

func (p *storeProvider) JSONLDRemoteProviderStore() ldstore.RemoteProviderStore {
	return p.remoteProviderStore
}

// NewDocumentLoader returns a JSON-LD document loader with the known
// contexts preloaded. The backing context stores are owned by the returned
// loader instance and live as long as it does.
func NewDocumentLoader(opts ...ld.DocumentLoaderOpts) (jsonld.DocumentLoader, error) {
	storageProvider := mem.NewProvider()

	contextStore, err := ldstore.NewContextStore(storageProvider)
	if err != nil {
		return nil, fmt.Errorf("new context store: %w", err)
	}

	remoteProviderStore, err := ldstore.NewRemoteProviderStore(storageProvider)
	if err != nil {
		return nil, fmt.Errorf("new remote provider store: %w", err)
	}

	p := &storeProvider{
		contextStore:        contextStore,
		remoteProviderStore: remoteProviderStore,
	}

	loader, err := ld.NewDocumentLoader(p, append(opts, ld.WithExtraContexts(embedContexts...))...)
	if err != nil {
		return nil, fmt.Errorf("new document loader: %w", err)
	}

	return loader, nil
}
