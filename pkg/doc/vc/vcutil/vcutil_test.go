/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package vcutil_test

import (
	"testing"

	"github.com/hyperledger/aries-framework-go/pkg/doc/verifiable"
	"github.com/stretchr/testify/require"

	"github.com/opencreds/credvault/pkg/doc/vc/vcutil"
)

func TestUpdateSignatureTypeContext(t *testing.T) {
	credential := &verifiable.Credential{Context: []string{vcutil.DefVCContext}}

	vcutil.UpdateSignatureTypeContext(credential)
	require.Equal(t, []string{vcutil.DefVCContext, vcutil.Ed25519Signature2020Context}, credential.Context)

	t.Run("already present", func(t *testing.T) {
		vcutil.UpdateSignatureTypeContext(credential)
		require.Len(t, credential.Context, 2)
	})
}

func TestPrependBaseContext(t *testing.T) {
	const extra = "https://purl.imsglobal.org/spec/ob/v3p0/context-3.0.2.json"

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "empty",
			input: nil,
			want:  []string{vcutil.DefVCContext},
		},
		{
			name:  "base missing",
			input: []string{extra},
			want:  []string{vcutil.DefVCContext, extra},
		},
		{
			name:  "base already first",
			input: []string{vcutil.DefVCContext, extra},
			want:  []string{vcutil.DefVCContext, extra},
		},
		{
			name:  "base out of order",
			input: []string{extra, vcutil.DefVCContext},
			want:  []string{vcutil.DefVCContext, extra},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, vcutil.PrependBaseContext(tt.input))
		})
	}
}
