/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/SibirBear/crptapi/config"
	"github.com/SibirBear/crptapi/httpclient"
	"github.com/SibirBear/crptapi/throttle"
)

// DefaultAddress is the base URL of the production registry API.
const DefaultAddress = "https://ismp.crpt.ru"

const cfgDefaultKeyPrefix = "crpt"

const (
	cfgKeyAddress = "address"

	rateLimitKeyPrefix = "rateLimit"
	clientKeyPrefix    = "client"
)

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// Config represents a set of configuration parameters for Client.
//
// Configuration can be loaded in different formats, YAML example:
//
//	crpt:
//	  address: https://ismp.crpt.ru
//	  rateLimit:
//	    limit: 10
//	    period: 1s
//	  client:
//	    timeout: 10s
//	    logger:
//	      enabled: true
//	      mode: failed
//	    retries:
//	      enabled: false
type Config struct {
	// Address is the base URL of the registry API.
	Address string `mapstructure:"address"`

	// RateLimit configures the per-window request budget.
	RateLimit throttle.Config `mapstructure:"rateLimit"`

	// Client configures the underlying HTTP client.
	Client httpclient.Config `mapstructure:"client"`

	keyPrefix string
}

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return NewConfigWithKeyPrefix(cfgDefaultKeyPrefix)
}

// NewConfigWithKeyPrefix creates a new instance of the Config.
// Allows specifying key prefix which will be used for parsing configuration parameters.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// The loader applies this prefix, Set and SetProviderDefaults receive an already prefixed provider.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults is part of config interface implementation.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyAddress, DefaultAddress)
	c.RateLimit.SetProviderDefaults(config.NewKeyPrefixedDataProvider(dp, rateLimitKeyPrefix))
	c.Client.SetProviderDefaults(config.NewKeyPrefixedDataProvider(dp, clientKeyPrefix))
}

// Set is part of config interface implementation.
func (c *Config) Set(dp config.DataProvider) error {
	address, err := dp.GetString(cfgKeyAddress)
	if err != nil {
		return err
	}
	if err = validateAddress(address); err != nil {
		return dp.WrapKeyErr(cfgKeyAddress, err)
	}
	c.Address = address

	if err = c.RateLimit.Set(config.NewKeyPrefixedDataProvider(dp, rateLimitKeyPrefix)); err != nil {
		return err
	}
	return c.Client.Set(config.NewKeyPrefixedDataProvider(dp, clientKeyPrefix))
}

func validateAddress(address string) error {
	if address == "" {
		return errors.New("cannot be empty")
	}
	u, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("must be a valid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}
