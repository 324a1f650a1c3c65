// Package config loads the application settings shared by the CLI and the
// web server.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Addr         string `mapstructure:"addr"`
	FontPath     string `mapstructure:"font_path"`
	BoldFontPath string `mapstructure:"bold_font_path"`
	JPEGQuality  int    `mapstructure:"jpeg_quality"`
	SnapshotDir  string `mapstructure:"snapshot_dir"`
	OutputDir    string `mapstructure:"output_dir"`
}

// Load reads a config file into Config, applying defaults for anything the
// file leaves out. An empty path yields the defaults alone.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("jpeg_quality", 95)
	v.SetDefault("output_dir", ".")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
