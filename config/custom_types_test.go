/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestByteSizeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ByteSize
		wantErr bool
	}{
		{name: "plain number", in: `1048576`, want: ByteSize(1024 * 1024)},
		{name: "megabytes", in: `"500M"`, want: ByteSize(500 * 1024 * 1024)},
		{name: "gigabytes", in: `"2GB"`, want: ByteSize(2 * 1024 * 1024 * 1024)},
		{name: "k8s suffix", in: `"512Mi"`, want: ByteSize(512 * 1024 * 1024)},
		{name: "garbage", in: `"not-a-size"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromJSON ByteSize
			err := json.Unmarshal([]byte(tt.in), &fromJSON)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, fromJSON)

			var fromYAML ByteSize
			require.NoError(t, yaml.Unmarshal([]byte(tt.in), &fromYAML))
			require.Equal(t, tt.want, fromYAML)
		})
	}
}

func TestByteSizeString(t *testing.T) {
	require.Equal(t, "500M", ByteSize(500*1024*1024).String())
	require.Equal(t, "1K", ByteSize(1024).String())
}
