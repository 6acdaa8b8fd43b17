package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/validator.v2"
)

// EnvPrefix is prefix for env-vars overriding config-keys.
// Example: BANKLEDGER_VALIDATE_AMOUNTS=false
const EnvPrefix = "BANKLEDGER"

// Config-keys
const (
	LogLevelKey           = "log_level"
	EventBusLogLevelKey   = "eventbus_log_level"
	ValidateAmountsKey    = "validate_amounts"
	ShowMenuKey           = "show_menu"
	ShutdownTimeoutSecKey = "shutdown_timeout_sec"
)

var defaults = map[string]interface{}{
	LogLevelKey:         "warn",
	EventBusLogLevelKey: "warn",
	// Reject non-positive amounts at ledger-boundary.
	// Set to false for original permissive behaviour.
	ValidateAmountsKey:    true,
	ShowMenuKey:           true,
	ShutdownTimeoutSecKey: 3,
}

// Config is application-config.
type Config struct {
	LogLevel         string `mapstructure:"log_level" validate:"nonzero"`
	EventBusLogLevel string `mapstructure:"eventbus_log_level" validate:"nonzero"`

	ValidateAmounts bool `mapstructure:"validate_amounts"`
	ShowMenu        bool `mapstructure:"show_menu"`

	// Max time to wait for background routines
	// once the session has ended.
	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec" validate:"min=1"`
}

// NewViper creates a viper-instance with defaults and env-binding.
// Provided viper can be further bound to CLI-flags before #Load.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config-file (if path is not blank), unmarshals
// and validates config, and exports log-levels to env-vars
// read by logger (unless these are already set).
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "error reading config-file: %s", path)
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error unmarshalling config")
	}
	err = validator.Validate(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error validating config")
	}

	setEnvDefault("LOG_LEVEL", cfg.LogLevel)
	setEnvDefault("EVENTBUS_LOG_LEVEL", cfg.EventBusLogLevel)
	return cfg, nil
}

func setEnvDefault(envVar, val string) {
	if os.Getenv(envVar) == "" {
		os.Setenv(envVar, val)
	}
}
