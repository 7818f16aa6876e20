package config

import "github.com/google/wire"

// ProviderSet is the wire provider set for the config package.
// It provides the main *Config and extracts sub-configurations for
// other modules to use.
var ProviderSet = wire.NewSet(
	GetConfig,
	ProvideLoggerConfig,
	ProvideDataConfig,
	ProvideObservesConfig,
)

// ProvideLoggerConfig provides the logger configuration.
func ProvideLoggerConfig(cfg *Config) *Logger {
	if cfg == nil {
		return nil
	}
	return cfg.Logger
}

// ProvideDataConfig provides the data layer configuration.
func ProvideDataConfig(cfg *Config) *Data {
	if cfg == nil {
		return nil
	}
	return cfg.Data
}

// ProvideObservesConfig provides the tracing and error reporting configuration.
func ProvideObservesConfig(cfg *Config) *Observes {
	if cfg == nil {
		return nil
	}
	return cfg.Observes
}
