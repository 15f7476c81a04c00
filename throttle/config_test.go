/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SibirBear/crptapi/config"
)

func TestConfigWithLoader(t *testing.T) {
	yamlData := []byte(`
limit: 5
period: 200ms
`)

	actualConfig := NewConfig()
	err := config.NewDefaultLoader("").LoadFromReader(bytes.NewReader(yamlData), config.DataTypeYAML, actualConfig)
	require.NoError(t, err, "load configuration")

	require.Equal(t, 5, actualConfig.Limit)
	require.Equal(t, 200*time.Millisecond, actualConfig.Period)

	l, err := actualConfig.MakeLimiter()
	require.NoError(t, err)
	defer l.Stop()
	require.Equal(t, 5, l.Limit())
}

func TestConfigDefaults(t *testing.T) {
	actualConfig := NewConfig()
	err := config.NewDefaultLoader("").LoadFromReader(bytes.NewReader([]byte("{}")), config.DataTypeYAML, actualConfig)
	require.NoError(t, err)

	require.Equal(t, DefaultLimit, actualConfig.Limit)
	require.Equal(t, DefaultPeriod, actualConfig.Period)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name     string
		yamlData string
	}{
		{name: "zero limit", yamlData: "limit: 0\nperiod: 1s"},
		{name: "negative limit", yamlData: "limit: -1\nperiod: 1s"},
		{name: "zero period", yamlData: "limit: 10\nperiod: 0s"},
		{name: "negative period", yamlData: "limit: 10\nperiod: -1s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.NewDefaultLoader("").LoadFromReader(
				bytes.NewReader([]byte(tt.yamlData)), config.DataTypeYAML, NewConfig())
			require.Error(t, err)
			require.Contains(t, err.Error(), "must be positive")
		})
	}
}
