// Package config loads configuration structs from environment variables,
// with an optional .env file honored on first use.
//
// Each configuration type is parsed once per process and cached; concurrent
// loaders of the same type share the cached copy.
//
//	type HubConfig struct {
//		DefaultCulture string `env:"DEFAULT_CULTURE" envDefault:"en"`
//		Diagnostics    bool   `env:"DIAGNOSTICS" envDefault:"true"`
//	}
//
//	var cfg HubConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
//
// Reset clears the cache, which tests use to reload with fresh variables.
package config
