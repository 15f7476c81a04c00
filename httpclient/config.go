/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/SibirBear/crptapi/config"
	"github.com/SibirBear/crptapi/retry"
)

// DefaultClientWaitTimeout is a default timeout for a client to wait for a request.
const DefaultClientWaitTimeout = 10 * time.Second

// Supported retry policy strategies.
const (
	RetryPolicyExponential = "exponential"
	RetryPolicyConstant    = "constant"
)

const (
	cfgKeyTimeout                                 = "timeout"
	cfgKeyRetriesEnabled                          = "retries.enabled"
	cfgKeyRetriesMax                              = "retries.maxAttempts"
	cfgKeyRetriesPolicyStrategy                   = "retries.policy.strategy"
	cfgKeyRetriesPolicyExponentialInitialInterval = "retries.policy.exponentialBackoffInitialInterval"
	cfgKeyRetriesPolicyExponentialMultiplier      = "retries.policy.exponentialBackoffMultiplier"
	cfgKeyRetriesPolicyConstantInterval           = "retries.policy.constantBackoffInterval"
	cfgKeyLoggerEnabled                           = "logger.enabled"
	cfgKeyLoggerMode                              = "logger.mode"
	cfgKeyLoggerSlowRequestThreshold              = "logger.slowRequestThreshold"
	cfgKeyMetricsEnabled                          = "metrics.enabled"
)

// Config holds the HTTP client configuration: the request timeout
// and the optional retries, logging and metrics round trippers.
type Config struct {
	// Timeout is the maximum time to wait for a request to complete.
	Timeout time.Duration `mapstructure:"timeout"`

	// Retries configures the retrying round tripper. Disabled unless enabled explicitly.
	Retries RetriesConfig `mapstructure:"retries"`

	// Logger configures request logging. Disabled unless enabled explicitly.
	Logger LoggerConfig `mapstructure:"logger"`

	// Metrics configures request duration metrics. Disabled unless enabled explicitly.
	Metrics MetricsConfig `mapstructure:"metrics"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// RetriesConfig is the retries section of Config.
type RetriesConfig struct {
	Enabled     bool         `mapstructure:"enabled"`
	MaxAttempts int          `mapstructure:"maxAttempts"`
	Policy      PolicyConfig `mapstructure:"policy"`
}

// PolicyConfig selects and parameterizes the retry backoff strategy.
type PolicyConfig struct {
	Strategy                          string        `mapstructure:"strategy"`
	ExponentialBackoffInitialInterval time.Duration `mapstructure:"exponentialBackoffInitialInterval"`
	ExponentialBackoffMultiplier      float64       `mapstructure:"exponentialBackoffMultiplier"`
	ConstantBackoffInterval           time.Duration `mapstructure:"constantBackoffInterval"`
}

// LoggerConfig is the logger section of Config.
type LoggerConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	Mode                 string        `mapstructure:"mode"`
	SlowRequestThreshold time.Duration `mapstructure:"slowRequestThreshold"`
}

// MetricsConfig is the metrics section of Config.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// GetPolicy returns the backoff policy matching the configured strategy,
// or nil when no strategy is set.
func (c *RetriesConfig) GetPolicy() retry.Policy {
	switch c.Policy.Strategy {
	case RetryPolicyExponential:
		return retry.PolicyFunc(func() backoff.BackOff {
			bf := backoff.NewExponentialBackOff()
			bf.InitialInterval = c.Policy.ExponentialBackoffInitialInterval
			bf.Multiplier = c.Policy.ExponentialBackoffMultiplier
			bf.Reset()
			return bf
		})
	case RetryPolicyConstant:
		return retry.PolicyFunc(func() backoff.BackOff {
			bf := backoff.NewConstantBackOff(c.Policy.ConstantBackoffInterval)
			bf.Reset()
			return bf
		})
	}
	return nil
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
	dp.SetDefault(cfgKeyTimeout, DefaultClientWaitTimeout)
}

// Set is part of config interface implementation.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Timeout, err = dp.GetDuration(cfgKeyTimeout); err != nil {
		return err
	}
	if err = c.setRetries(dp); err != nil {
		return err
	}
	if err = c.setLogger(dp); err != nil {
		return err
	}
	c.Metrics.Enabled, err = dp.GetBool(cfgKeyMetricsEnabled)
	return err
}

func (c *Config) setRetries(dp config.DataProvider) error {
	var err error
	if c.Retries.Enabled, err = dp.GetBool(cfgKeyRetriesEnabled); err != nil {
		return err
	}
	if !c.Retries.Enabled {
		return nil
	}

	if c.Retries.MaxAttempts, err = dp.GetInt(cfgKeyRetriesMax); err != nil {
		return err
	}
	if c.Retries.MaxAttempts < 0 {
		return errors.New("client max retry attempts must be positive")
	}
	return c.setRetriesPolicy(dp)
}

func (c *Config) setRetriesPolicy(dp config.DataProvider) error {
	policy := &c.Retries.Policy

	strategy, err := dp.GetString(cfgKeyRetriesPolicyStrategy)
	if err != nil {
		return err
	}
	policy.Strategy = strategy

	switch strategy {
	case "":
		return nil

	case RetryPolicyExponential:
		if policy.ExponentialBackoffInitialInterval, err = dp.GetDuration(
			cfgKeyRetriesPolicyExponentialInitialInterval); err != nil {
			return err
		}
		if policy.ExponentialBackoffInitialInterval < 0 {
			return errors.New("client exponential backoff initial interval must be positive")
		}
		if policy.ExponentialBackoffMultiplier, err = dp.GetFloat64(
			cfgKeyRetriesPolicyExponentialMultiplier); err != nil {
			return err
		}
		if policy.ExponentialBackoffMultiplier <= 1 {
			return errors.New("client exponential backoff multiplier must be greater than 1")
		}
		return nil

	case RetryPolicyConstant:
		if policy.ConstantBackoffInterval, err = dp.GetDuration(cfgKeyRetriesPolicyConstantInterval); err != nil {
			return err
		}
		if policy.ConstantBackoffInterval < 0 {
			return errors.New("client constant backoff interval must be positive")
		}
		return nil
	}
	return errors.New("client retry policy must be one of: [exponential, constant]")
}

func (c *Config) setLogger(dp config.DataProvider) error {
	var err error
	if c.Logger.Enabled, err = dp.GetBool(cfgKeyLoggerEnabled); err != nil {
		return err
	}
	if !c.Logger.Enabled {
		return nil
	}

	if c.Logger.SlowRequestThreshold, err = dp.GetDuration(cfgKeyLoggerSlowRequestThreshold); err != nil {
		return err
	}
	if c.Logger.SlowRequestThreshold < 0 {
		return errors.New("client logger slow request threshold can not be negative")
	}

	if c.Logger.Mode, err = dp.GetString(cfgKeyLoggerMode); err != nil {
		return err
	}
	if !LoggingMode(c.Logger.Mode).IsValid() {
		return errors.New("client logger invalid mode, choose one of: [none, all, failed]")
	}
	return nil
}
