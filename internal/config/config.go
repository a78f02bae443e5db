// Package config layers defaults, an optional YAML file and environment
// variables into the settings the sophia binary runs with.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/alexanderramin/sophia/internal/llm"
)

const (
	EnvPrefix      = "SOPHIA"
	DefaultSession = "default"
	DefaultAddr    = ":8080"
)

// Keys shared with command-line flag bindings.
const (
	KeyDBPath     = "db_path"
	KeySessionID  = "session_id"
	KeyServerAddr = "server.addr"
	KeyLogLevel   = "log.level"
)

type Config struct {
	DBPath     string
	SessionID  string
	ServerAddr string
	LogLevel   slog.Level
	LLM        llm.Config
	// File is the config file that was read, if any.
	File string
}

// New returns a viper instance with defaults and environment bindings.
// Environment keys use the SOPHIA_ prefix with dots replaced by
// underscores; ANTHROPIC_API_KEY is also accepted for llm.api_key.
func New() *viper.Viper {
	v := viper.New()

	d := llm.DefaultConfig()
	v.SetDefault(KeyDBPath, "")
	v.SetDefault(KeySessionID, DefaultSession)
	v.SetDefault(KeyServerAddr, DefaultAddr)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault("llm.enabled", d.Enabled)
	v.SetDefault("llm.log_calls", d.LogCalls)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.endpoint", d.Endpoint)
	v.SetDefault("llm.model", d.Model)
	v.SetDefault("llm.version", d.Version)
	v.SetDefault("llm.max_tokens", d.MaxTokens)
	v.SetDefault("llm.timeout_ms", d.TimeoutMs)
	v.SetDefault("llm.max_retries", d.MaxRetries)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "ANTHROPIC_API_KEY")
	return v
}

// Load reads file when given, otherwise ~/.sophia/config.yaml when it
// exists, and resolves the final settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	home, _ := os.UserHomeDir()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home != "" {
			v.AddConfigPath(filepath.Join(home, ".sophia"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	level, err := ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:     v.GetString(KeyDBPath),
		SessionID:  v.GetString(KeySessionID),
		ServerAddr: v.GetString(KeyServerAddr),
		LogLevel:   level,
		File:       v.ConfigFileUsed(),
		LLM: llm.Config{
			Enabled:    v.GetBool("llm.enabled"),
			LogCalls:   v.GetBool("llm.log_calls"),
			APIKey:     v.GetString("llm.api_key"),
			Endpoint:   v.GetString("llm.endpoint"),
			Model:      v.GetString("llm.model"),
			Version:    v.GetString("llm.version"),
			MaxTokens:  v.GetInt("llm.max_tokens"),
			TimeoutMs:  v.GetInt("llm.timeout_ms"),
			MaxRetries: v.GetInt("llm.max_retries"),
		},
	}
	if cfg.DBPath == "" {
		if home == "" {
			return nil, errors.New("finding home directory: set db_path explicitly")
		}
		cfg.DBPath = filepath.Join(home, ".sophia", "sophia.db")
	}
	if cfg.SessionID == "" {
		cfg.SessionID = DefaultSession
	}
	return cfg, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
