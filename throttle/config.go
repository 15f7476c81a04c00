/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"errors"
	"time"

	"github.com/SibirBear/crptapi/config"
)

// Default parameter values for Config.
const (
	DefaultLimit  = 10
	DefaultPeriod = time.Second
)

const (
	cfgKeyLimit  = "limit"
	cfgKeyPeriod = "period"
)

var _ config.Config = (*Config)(nil)

// Config represents a set of configuration parameters for Limiter.
type Config struct {
	// Limit is the maximum number of requests allowed per window. Must be positive.
	Limit int `mapstructure:"limit" yaml:"limit" json:"limit"`

	// Period is the window duration after which the budget is reset to Limit. Must be positive.
	Period time.Duration `mapstructure:"period" yaml:"period" json:"period"`

	keyPrefix string
}

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return NewConfigWithKeyPrefix("")
}

// NewConfigWithKeyPrefix creates a new instance of the Config.
// Allows specifying key prefix which will be used for parsing configuration parameters.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	return c.keyPrefix
}

// SetProviderDefaults is part of config interface implementation.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyLimit, DefaultLimit)
	dp.SetDefault(cfgKeyPeriod, DefaultPeriod)
}

// Set is part of config interface implementation.
func (c *Config) Set(dp config.DataProvider) error {
	limit, err := dp.GetInt(cfgKeyLimit)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return dp.WrapKeyErr(cfgKeyLimit, errors.New("must be positive"))
	}
	c.Limit = limit

	period, err := dp.GetDuration(cfgKeyPeriod)
	if err != nil {
		return err
	}
	if period <= 0 {
		return dp.WrapKeyErr(cfgKeyPeriod, errors.New("must be positive"))
	}
	c.Period = period

	return nil
}

// MakeLimiter creates a Limiter from the configuration values.
func (c *Config) MakeLimiter() (*Limiter, error) {
	return New(c.Period, c.Limit)
}
