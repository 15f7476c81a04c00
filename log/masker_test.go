/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskerWithDefaultRules(t *testing.T) {
	masker := NewMasker(DefaultMasks)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "signature http header",
			in:   "POST /api/v3/lk/documents/create HTTP/1.1\r\nSignature: c2lnbmF0dXJl\r\nContent-Type: application/json\r\n",
			want: "POST /api/v3/lk/documents/create HTTP/1.1\r\nSignature: ***\r\nContent-Type: application/json\r\n",
		},
		{
			name: "signature json field",
			in:   `{"Signature": "c2lnbmF0dXJl", "doc_id": "doc-1"}`,
			want: `{"Signature": "***", "doc_id": "doc-1"}`,
		},
		{
			name: "authorization header",
			in:   "Authorization: Bearer abcdef\r\n",
			want: "Authorization: ***\r\n",
		},
		{
			name: "password in json",
			in:   `{"password": "qwerty"}`,
			want: `{"password": "***"}`,
		},
		{
			name: "nothing to mask",
			in:   `{"doc_id": "doc-1"}`,
			want: `{"doc_id": "doc-1"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, masker.Mask(tt.in))
		})
	}
}

func TestMaskerWithCustomRule(t *testing.T) {
	masker := NewMasker([]MaskingRuleConfig{
		{
			Field: "uit_code",
			Masks: []MaskConfig{{RegExp: `"uit_code"\s*:\s*"[^"]*"`, Mask: `"uit_code": "***"`}},
		},
	})
	require.Equal(t, `{"uit_code": "***"}`, masker.Mask(`{"uit_code": "uit-1"}`))
}
