/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFileConfig(t *testing.T, format Format) *Config {
	t.Helper()
	return &Config{
		Level:  LevelDebug,
		Format: format,
		Output: OutputFile,
		File: FileOutputConfig{
			Path: filepath.Join(t.TempDir(), "crpt-client.log"),
			Rotation: FileRotationConfig{
				MaxSize:    DefaultFileRotationMaxSizeBytes,
				MaxBackups: DefaultFileRotationMaxBackups,
			},
		},
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatText} {
		t.Run(string(format), func(t *testing.T) {
			cfg := newFileConfig(t, format)
			logger, closeFn := NewLogger(cfg)
			logger.Info("document submitted", String("doc_id", "doc-1"))
			closeFn()

			data, err := os.ReadFile(cfg.File.Path)
			require.NoError(t, err)
			require.Contains(t, string(data), "document submitted")
			require.Contains(t, string(data), "doc-1")
		})
	}
}

func TestNewLoggerMasksFileOutput(t *testing.T) {
	cfg := newFileConfig(t, FormatJSON)
	cfg.Masking = MaskingConfig{Enabled: true, UseDefaultRules: true}

	logger, closeFn := NewLogger(cfg)
	logger.Error("request dump", String("dump", "Signature: c2lnbmF0dXJl\r\n"))
	closeFn()

	data, err := os.ReadFile(cfg.File.Path)
	require.NoError(t, err)
	require.Contains(t, string(data), "Signature: ***")
	require.NotContains(t, string(data), "c2lnbmF0dXJl")
}

func TestNewLoggerStreamOutputs(t *testing.T) {
	for _, output := range []Output{OutputStdout, OutputStderr} {
		for _, format := range []Format{FormatJSON, FormatText} {
			t.Run(string(output)+"/"+string(format), func(t *testing.T) {
				logger, closeFn := NewLogger(&Config{Level: LevelInfo, Format: format, Output: output})
				logger.Info("client started")
				closeFn()
			})
		}
	}
}
