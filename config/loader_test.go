/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type serviceConfig struct {
	Name    string
	Wait    time.Duration
	BufSize ByteSize
}

func (c *serviceConfig) KeyPrefix() string {
	return "service"
}

func (c *serviceConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("name", "crpt-client")
	dp.SetDefault("wait", time.Second)
}

func (c *serviceConfig) Set(dp DataProvider) error {
	var err error
	if c.Name, err = dp.GetString("name"); err != nil {
		return err
	}
	if c.Name == "" {
		return dp.WrapKeyErr("name", errors.New("cannot be empty"))
	}
	if c.Wait, err = dp.GetDuration("wait"); err != nil {
		return err
	}
	if c.BufSize, err = dp.GetByteSize("bufSize"); err != nil {
		return err
	}
	return nil
}

func TestLoaderLoadFromReader(t *testing.T) {
	yamlData := []byte(`
service:
  name: submitter
  wait: 5s
  bufSize: 4M
`)

	cfg := &serviceConfig{}
	err := NewDefaultLoader("").LoadFromReader(bytes.NewReader(yamlData), DataTypeYAML, cfg)
	require.NoError(t, err)
	require.Equal(t, "submitter", cfg.Name)
	require.Equal(t, 5*time.Second, cfg.Wait)
	require.Equal(t, ByteSize(4*1024*1024), cfg.BufSize)
}

func TestLoaderAppliesDefaults(t *testing.T) {
	cfg := &serviceConfig{}
	err := NewDefaultLoader("").LoadFromReader(bytes.NewReader([]byte("{}")), DataTypeJSON, cfg)
	require.NoError(t, err)
	require.Equal(t, "crpt-client", cfg.Name)
	require.Equal(t, time.Second, cfg.Wait)
}

func TestLoaderWrapsKeyErrors(t *testing.T) {
	yamlData := []byte(`
service:
  name: ""
`)

	err := NewDefaultLoader("").LoadFromReader(bytes.NewReader(yamlData), DataTypeYAML, &serviceConfig{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "service.name")
}
