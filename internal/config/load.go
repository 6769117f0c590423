package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. WORKFORCE_SERVER_PORT for server.port.
const EnvPrefix = "WORKFORCE"

// flagKeys maps command-line flag names to the configuration keys they override.
var flagKeys = map[string]string{
	"port":      "server.port",
	"log-level": "server.log_level",
	"seed":      "store.seed",
	"seed-file": "store.seed_file",
}

type loadOptions struct {
	configFile string
	flags      *pflag.FlagSet
}

// Option customizes Load.
type Option func(*loadOptions)

// WithConfigFile reads the YAML file at path before applying environment
// overrides. A missing file is an error when set explicitly.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithFlags binds the changed flags of fs over every other source.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *loadOptions) {
		o.flags = fs
	}
}

// Load configuration from defaults, an optional config file, environment
// variables and command-line flags, in increasing order of precedence.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts ...Option) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("store.seed", true)
	v.SetDefault("store.seed_file", "")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", 30)
	v.SetDefault("cache.cleanup_interval_seconds", 60)

	v.SetConfigType("yaml")
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", o.configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about; bind the
	// rest explicitly so Unmarshal sees them.
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	if o.flags != nil {
		for name, key := range flagKeys {
			f := o.flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("error binding flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
