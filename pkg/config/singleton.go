package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the process-wide configuration.
	globalConfig *Config

	// configMutex protects access to globalConfig.
	configMutex sync.RWMutex

	// initOnce ensures configuration is initialized only once.
	initOnce sync.Once
)

// Initialize loads configuration from path with environment overrides and
// stores it as the global configuration. Subsequent calls are ignored.
// A missing file is not an error; see LoadConfigWithEnvOverrides.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}
		SetConfig(cfg)
	})

	return initErr
}

// GetConfig returns the global configuration, or nil before Initialize.
// It is safe for concurrent use.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the global configuration. The watcher uses it on
// reload; tests use it to inject a configuration.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// ReloadConfig reloads the configuration from path. The global instance is
// replaced only if loading and validation succeed.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("failed to reload configuration: %w", err)
	}
	SetConfig(cfg)
	return nil
}
