/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ViperAdapter implements DataProvider on top of the viper library.
type ViperAdapter struct {
	viper *viper.Viper
}

var _ DataProvider = (*ViperAdapter)(nil)

// NewViperAdapter creates a new ViperAdapter.
func NewViperAdapter() *ViperAdapter {
	return &ViperAdapter{viper.New()}
}

// UseEnvVars allows configuration parameters to be overridden by environment
// variables with the given prefix. A value for the key "rateLimit.limit" with
// prefix "crpt" is looked up as CRPT_RATELIMIT_LIMIT.
func (va *ViperAdapter) UseEnvVars(prefix string) {
	va.viper.AutomaticEnv()
	va.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	va.viper.SetEnvPrefix(prefix)
}

// SetDefault sets the fallback value for the key. It is used only when
// neither the configuration source nor the environment provides one.
func (va *ViperAdapter) SetDefault(key string, value interface{}) {
	va.viper.SetDefault(key, value)
}

// SetFromFile reads configuration data from the file at path.
func (va *ViperAdapter) SetFromFile(path string, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	va.viper.SetConfigFile(path)
	return va.viper.ReadInConfig()
}

// SetFromReader reads configuration data from the reader.
func (va *ViperAdapter) SetFromReader(reader io.Reader, dataType DataType) error {
	va.viper.SetConfigType(string(dataType))
	return va.viper.ReadConfig(reader)
}

// GetBool returns the value associated with the key as a bool.
func (va *ViperAdapter) GetBool(key string) (bool, error) {
	v, err := cast.ToBoolE(va.viper.Get(key))
	return v, WrapKeyErrIfNeeded(key, err)
}

// GetInt returns the value associated with the key as an int.
func (va *ViperAdapter) GetInt(key string) (int, error) {
	v, err := cast.ToIntE(va.viper.Get(key))
	return v, WrapKeyErrIfNeeded(key, err)
}

// GetFloat64 returns the value associated with the key as a float64.
func (va *ViperAdapter) GetFloat64(key string) (float64, error) {
	v, err := cast.ToFloat64E(va.viper.Get(key))
	return v, WrapKeyErrIfNeeded(key, err)
}

// GetString returns the value associated with the key as a string.
func (va *ViperAdapter) GetString(key string) (string, error) {
	v, err := cast.ToStringE(va.viper.Get(key))
	return v, WrapKeyErrIfNeeded(key, err)
}

// GetStringFromSet returns the value associated with the key as a string
// and checks it against the set of allowed values.
func (va *ViperAdapter) GetStringFromSet(key string, set []string, ignoreCase bool) (string, error) {
	str, err := va.GetString(key)
	if err != nil {
		return "", err
	}
	for _, s := range set {
		if str == s || (ignoreCase && strings.EqualFold(str, s)) {
			return str, nil
		}
	}
	return "", WrapKeyErr(key, fmt.Errorf("unknown value %q, should be one of %v", str, set))
}

// GetDuration returns the value associated with the key as a time.Duration.
// A missing key yields zero duration.
func (va *ViperAdapter) GetDuration(key string) (time.Duration, error) {
	val := va.viper.Get(key)
	if val == nil {
		return 0, nil
	}
	v, err := cast.ToDurationE(val)
	return v, WrapKeyErrIfNeeded(key, err)
}

// GetByteSize returns the value associated with the key as a size in bytes.
// String values may carry a unit suffix ("500M", "2GB"). A missing key yields zero.
func (va *ViperAdapter) GetByteSize(key string) (ByteSize, error) {
	val := va.viper.Get(key)
	if val == nil {
		return 0, nil
	}
	switch v := val.(type) {
	case string:
		res, err := parseByteSizeFromString(v)
		return res, WrapKeyErrIfNeeded(key, err)
	case int, int8, int16, int32, int64:
		num := cast.ToInt64(val)
		if num < 0 {
			return 0, WrapKeyErr(key, fmt.Errorf("negative value is not allowed: %d", num))
		}
		return ByteSize(num), nil
	case uint, uint8, uint16, uint32, uint64:
		return ByteSize(cast.ToUint64(val)), nil
	case ByteSize:
		return v, nil
	}
	return 0, WrapKeyErr(key, fmt.Errorf("unsupported type for ByteSize: %T", val))
}

// UnmarshalKey decodes the subtree under the key into the given struct.
func (va *ViperAdapter) UnmarshalKey(key string, rawVal interface{}, opts ...DecoderConfigOption) error {
	options := make([]viper.DecoderConfigOption, len(opts))
	for i, opt := range opts {
		options[i] = viper.DecoderConfigOption(opt)
	}
	return WrapKeyErrIfNeeded(key, va.viper.UnmarshalKey(key, rawVal, options...))
}

// WrapKeyErr wraps error adding information about a key where this error occurs.
func (va *ViperAdapter) WrapKeyErr(key string, err error) error {
	return WrapKeyErr(key, err)
}
