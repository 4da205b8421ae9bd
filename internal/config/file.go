package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileValues mirrors the optional YAML config file.
type FileValues struct {
	AppName          string        `yaml:"app_name"`
	Env              string        `yaml:"env"`
	LogLevel         string        `yaml:"log_level"`
	BaseURL          string        `yaml:"base_url"`
	RefreshPath      string        `yaml:"refresh_path"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	CoalesceRefresh  bool          `yaml:"coalesce_refresh"`
	UserAgent        string        `yaml:"user_agent"`
	TokenStorePath   string        `yaml:"token_store_path"`
	TokenStoreSecret string        `yaml:"token_store_secret"`
	Google           GoogleValues  `yaml:"google"`
}

type GoogleValues struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackAddr string `yaml:"callback_addr"`
}

// Load reads the YAML file at path. An empty path or a missing file yields the env-only config.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes.
func Parse(data []byte) (Config, error) {
	l := &layers{}
	if err := yaml.Unmarshal(data, &l.file); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return newMainConfig(l), nil
}

// Override sets a forced value, typically from a command-line flag.
type Override func(*FileValues)

// WithOverrides returns a copy of cfg whose forced layer has the overrides applied.
// Configs not built by this package are returned unchanged.
func WithOverrides(cfg Config, overrides ...Override) Config {
	mc, ok := cfg.(mainConfig)
	if !ok {
		return cfg
	}
	l := *mc.EnvVars.layers
	for _, o := range overrides {
		o(&l.forced)
	}
	return newMainConfig(&l)
}
