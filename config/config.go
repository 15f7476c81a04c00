/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package config provides a thin abstraction over configuration sources
// (files, readers, environment variables) used by the other packages of this
// module to load and validate their settings.
package config

// Config is a common interface for configuration objects that may be used by Loader.
type Config interface {
	SetProviderDefaults(dp DataProvider)
	Set(dp DataProvider) error
}

// KeyPrefixProvider is an interface for providing key prefix that will be used for configuration parameters.
type KeyPrefixProvider interface {
	KeyPrefix() string
}
