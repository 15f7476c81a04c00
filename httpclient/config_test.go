/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SibirBear/crptapi/config"
)

func TestConfigWithLoader(t *testing.T) {
	yamlData := []byte(`
timeout: 30s
retries:
  enabled: true
  maxAttempts: 5
  policy:
    strategy: exponential
    exponentialBackoffInitialInterval: 2s
    exponentialBackoffMultiplier: 3
logger:
  enabled: true
  mode: all
  slowRequestThreshold: 5s
metrics:
  enabled: true
`)

	actualConfig := NewConfig()
	err := config.NewDefaultLoader("").LoadFromReader(bytes.NewReader(yamlData), config.DataTypeYAML, actualConfig)
	require.NoError(t, err, "load configuration")

	require.Equal(t, 30*time.Second, actualConfig.Timeout)
	require.True(t, actualConfig.Retries.Enabled)
	require.Equal(t, 5, actualConfig.Retries.MaxAttempts)
	require.Equal(t, RetryPolicyExponential, actualConfig.Retries.Policy.Strategy)
	require.Equal(t, 2*time.Second, actualConfig.Retries.Policy.ExponentialBackoffInitialInterval)
	require.Equal(t, float64(3), actualConfig.Retries.Policy.ExponentialBackoffMultiplier)
	require.True(t, actualConfig.Logger.Enabled)
	require.Equal(t, string(LoggingModeAll), actualConfig.Logger.Mode)
	require.Equal(t, 5*time.Second, actualConfig.Logger.SlowRequestThreshold)
	require.True(t, actualConfig.Metrics.Enabled)

	require.NotNil(t, actualConfig.Retries.GetPolicy())
}

func TestConfigDefaults(t *testing.T) {
	actualConfig := NewConfig()
	err := config.NewDefaultLoader("").LoadFromReader(bytes.NewReader([]byte("{}")), config.DataTypeYAML, actualConfig)
	require.NoError(t, err)

	require.Equal(t, DefaultClientWaitTimeout, actualConfig.Timeout)
	require.False(t, actualConfig.Retries.Enabled)
	require.False(t, actualConfig.Logger.Enabled)
	require.False(t, actualConfig.Metrics.Enabled)
	require.Nil(t, actualConfig.Retries.GetPolicy())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name       string
		yamlData   string
		wantErrMsg string
	}{
		{
			name:       "negative max attempts",
			yamlData:   "retries:\n  enabled: true\n  maxAttempts: -1",
			wantErrMsg: "max retry attempts must be positive",
		},
		{
			name:       "unknown retry strategy",
			yamlData:   "retries:\n  enabled: true\n  policy:\n    strategy: jitter",
			wantErrMsg: "retry policy must be one of",
		},
		{
			name:       "exponential multiplier too small",
			yamlData:   "retries:\n  enabled: true\n  policy:\n    strategy: exponential\n    exponentialBackoffMultiplier: 1",
			wantErrMsg: "multiplier must be greater than 1",
		},
		{
			name:       "unknown logging mode",
			yamlData:   "logger:\n  enabled: true\n  mode: verbose",
			wantErrMsg: "invalid mode",
		},
		{
			name:       "negative slow request threshold",
			yamlData:   "logger:\n  enabled: true\n  mode: all\n  slowRequestThreshold: -1s",
			wantErrMsg: "slow request threshold can not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.NewDefaultLoader("").LoadFromReader(
				bytes.NewReader([]byte(tt.yamlData)), config.DataTypeYAML, NewConfig())
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErrMsg)
		})
	}
}
