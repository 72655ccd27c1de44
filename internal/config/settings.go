package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings are the process-level knobs: where the fiscal data lives and how
// to log. They come from an optional config file, HYPONORM_* environment
// variables and built-in defaults, in that order of precedence.
type Settings struct {
	RulesDir       string `mapstructure:"rules_dir"`
	NormTablesPath string `mapstructure:"norm_tables_path"`
	AOWTablePath   string `mapstructure:"aow_table_path"`
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
}

// LoadSettings reads the settings. An empty configFile means the default
// search path (hyponorm.yaml in . and ./config); a missing default file is
// fine, a missing explicit file is not.
func LoadSettings(configFile string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("rules_dir", "config/rules")
	v.SetDefault("norm_tables_path", "config/normtables.yaml")
	v.SetDefault("aow_table_path", "config/aow.yaml")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetEnvPrefix("HYPONORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("hyponorm")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &s, nil
}

// NewLogger builds the process logger: console output for interactive use,
// JSON for everything that scrapes logs.
func NewLogger(s *Settings) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}

	var cfg zap.Config
	switch s.LogFormat {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q (want console or json)", s.LogFormat)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	return cfg.Build()
}
