/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keystore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/opencreds/credvault/pkg/did"
	"github.com/opencreds/credvault/pkg/service/keystore"
	"github.com/opencreds/credvault/pkg/storage/blobstore"
	"github.com/opencreds/credvault/pkg/storage/blobstore/inmem"
)

func TestService_SaveGet(t *testing.T) {
	store := inmem.NewStore()
	svc := keystore.New(store, blobstore.NewTaxonomy(blobstore.NewCachedStore(store)))

	identity, err := did.Create()
	require.NoError(t, err)

	keyID := uuid.NewString()

	_, err = svc.Save(context.Background(), keyID, identity.KeyPair)
	require.NoError(t, err)

	restored, err := svc.Get(context.Background(), keyID)
	require.NoError(t, err)
	require.Equal(t, identity.KeyPair.ID, restored.ID)
	require.Equal(t, identity.KeyPair.Controller, restored.Controller)

	sig, err := restored.Sign([]byte("payload"))
	require.NoError(t, err)
	require.NotEmpty(t, sig)
}

func TestService_Get_NotFound(t *testing.T) {
	store := inmem.NewStore()
	svc := keystore.New(store, blobstore.NewTaxonomy(blobstore.NewCachedStore(store)))

	_, err := svc.Get(context.Background(), uuid.NewString())
	require.True(t, errors.Is(err, keystore.ErrKeyNotFound))
}

func TestService_Get_PrefixMatch(t *testing.T) {
	store := inmem.NewStore()
	svc := keystore.New(store, blobstore.NewTaxonomy(blobstore.NewCachedStore(store)))

	first, err := did.Create()
	require.NoError(t, err)

	second, err := did.Create()
	require.NoError(t, err)

	firstID, secondID := uuid.NewString(), uuid.NewString()

	_, err = svc.Save(context.Background(), firstID, first.KeyPair)
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), secondID, second.KeyPair)
	require.NoError(t, err)

	restored, err := svc.Get(context.Background(), secondID)
	require.NoError(t, err)
	require.Equal(t, second.KeyPair.ID, restored.ID)
}
