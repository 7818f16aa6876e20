package config

import (
	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	Search *Search `yaml:"search" json:"search"`
	Paging *Paging `yaml:"paging" json:"paging"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Search: getSearchConfig(v),
		Paging: getPagingConfig(v),
	}
}

// Paging holds page size defaults
type Paging struct {
	DefaultPageSize int `yaml:"default_page_size" json:"default_page_size" validate:"gte=0"`
	MaxPageSize     int `yaml:"max_page_size" json:"max_page_size" validate:"gte=0"`
}

// DefaultPaging returns the built-in page size defaults
func DefaultPaging() *Paging {
	return &Paging{DefaultPageSize: 50, MaxPageSize: 10000}
}

// getPagingConfig reads paging configurations
func getPagingConfig(v *viper.Viper) *Paging {
	def := DefaultPaging()
	return &Paging{
		DefaultPageSize: getIntOrDefault(v, "paging.default_page_size", def.DefaultPageSize),
		MaxPageSize:     getIntOrDefault(v, "paging.max_page_size", def.MaxPageSize),
	}
}

func getIntOrDefault(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		if n := v.GetInt(key); n > 0 {
			return n
		}
	}
	return def
}

func getStringOrDefault(v *viper.Viper, key string, def string) string {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			return s
		}
	}
	return def
}
