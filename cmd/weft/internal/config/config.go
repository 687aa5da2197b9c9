// Package config loads weft tool settings.
//
// Settings come from an optional YAML file and WEFT_* environment
// variables; the environment wins. The file lives at
// $HOME/.config/weft/config.yaml unless WEFT_CONFIG points elsewhere.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds tool-level defaults. Command flags override these.
type Config struct {
	// Theme is the component theme definitions load under when no
	// --theme flag is given.
	Theme string `mapstructure:"theme"`

	// TickStep is how far one settle frame advances scripted time.
	TickStep time.Duration `mapstructure:"tick_step"`
}

// Load reads configuration from file and env.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("theme", "material")
	v.SetDefault("tick_step", "16ms")

	v.SetConfigType("yaml")
	if path := os.Getenv("WEFT_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "weft"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WEFT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.TickStep <= 0 {
		return Config{}, fmt.Errorf("tick_step must be positive, got %v", c.TickStep)
	}
	return c, nil
}
