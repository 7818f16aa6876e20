package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level      int    `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	Output     string `json:"output" yaml:"output"`
	OutputFile string `json:"output_file" yaml:"output_file"`
	// Ship sends every entry to the search backend under IndexName
	Ship      bool   `json:"ship" yaml:"ship"`
	IndexName string `json:"index_name" yaml:"index_name"`
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	if !v.IsSet("logger") {
		return nil
	}

	indexName := strings.ToLower(v.GetString("app_name") + "-" + v.GetString("run_mode") + "-log")
	if v.IsSet("logger.index_name") && v.GetString("logger.index_name") != "" {
		indexName = v.GetString("logger.index_name")
	}

	return &Config{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
		Ship:       v.GetBool("logger.ship"),
		IndexName:  indexName,
	}
}

// BuildIndexName returns the daily index entries logged at t go to
func (c *Config) BuildIndexName(t time.Time) string {
	name := c.IndexName
	if name == "" {
		name = "default-log"
	}
	return name + "-" + t.Format("2006.01.02")
}
