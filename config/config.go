package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	config *Config
	path   string
	mu     sync.Mutex
	v      *viper.Viper
)

// Config represents the configuration implementation.
type Config struct {
	AppName  string
	RunMode  string
	Version  string
	Observes *Observes
	Logger   *Logger
	Data     *Data
	Viper    *viper.Viper
}

// GetConfig returns the loaded configuration, loading the default
// locations on first use.
func GetConfig() (*Config, error) {
	mu.Lock()
	cfg := config
	mu.Unlock()
	if cfg != nil {
		return cfg, nil
	}

	cfg, err := LoadConfig("")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads the configuration from configPath. An empty path searches
// the default locations and falls back to defaults when no file exists.
func LoadConfig(configPath string) (*Config, error) {
	nv := viper.New()
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		nv.SetConfigName("config")
		nv.AddConfigPath("/etc/pagination")
		nv.AddConfigPath("$HOME/.pagination")
		nv.AddConfigPath(".")
	}

	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := FromViper(nv)

	mu.Lock()
	config, path, v = cfg, configPath, nv
	mu.Unlock()
	return cfg, nil
}

// FromViper builds the configuration from an already populated viper
func FromViper(nv *viper.Viper) *Config {
	return &Config{
		AppName:  nv.GetString("app_name"),
		RunMode:  nv.GetString("run_mode"),
		Version:  nv.GetString("version"),
		Observes: getObservesConfig(nv),
		Logger:   getLoggerConfig(nv),
		Data:     getDataConfig(nv),
		Viper:    nv,
	}
}

// Reload reloads the configuration from the file.
func Reload() error {
	mu.Lock()
	p := path
	mu.Unlock()

	if _, err := LoadConfig(p); err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	return nil
}

// Watch watches the configuration file and reloads it when it changes.
// onError receives reload failures; it may be nil.
func Watch(callback func(*Config), onError func(error)) error {
	mu.Lock()
	wv := v
	mu.Unlock()
	if wv == nil {
		return errors.New("config is not loaded")
	}
	if wv.ConfigFileUsed() == "" {
		return errors.New("config was not loaded from a file")
	}

	wv.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := LoadConfig(wv.ConfigFileUsed())
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		callback(cfg)
	})
	wv.WatchConfig()
	return nil
}
