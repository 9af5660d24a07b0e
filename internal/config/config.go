// Package config loads QuizVault settings from flags, QUIZVAULT_*
// environment variables and an optional quizvault.yaml.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/quizvault/internal/llm"
	"github.com/abhisek/quizvault/internal/store"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "QUIZVAULT"

// Config is the fully resolved application configuration.
type Config struct {
	DB     string       `mapstructure:"db"`
	Log    LogConfig    `mapstructure:"log"`
	LLM    llm.Config   `mapstructure:"llm"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
}

// LogConfig controls the zap logger. File enables a rotated JSON log.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type StoreConfig struct {
	EnforceReferences bool `mapstructure:"enforce_references"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// flagKeys maps command-line flag names to config keys where they differ.
var flagKeys = map[string]string{
	"db":           "db",
	"log-level":    "log.level",
	"log-file":     "log.file",
	"llm-provider": "llm.provider",
	"addr":         "server.addr",
}

// ForCommand builds a viper instance bound to cmd's flags, the environment
// and the first quizvault.yaml found on the search path.
func ForCommand(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if cmd != nil {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("quizvault")
	v.SetConfigType("yaml")
	for _, dir := range searchPaths() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

func searchPaths() []string {
	paths := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "quizvault"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "quizvault"))
	}
	return paths
}

// setDefaults registers every key so AutomaticEnv can reach it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("db", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// Left empty so an unconfigured provider can be discovered from the
	// vendor environment variables.
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.requests_per_minute", d.RequestsPerMinute)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)

	v.SetDefault("store.enforce_references", true)
	v.SetDefault("server.addr", "127.0.0.1:8080")
}

// Load unmarshals v into a Config and resolves derived values.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.LLM.Provider == "" {
		if found, ok := llm.DiscoverConfig(cfg.LLM); ok {
			cfg.LLM = found
		} else {
			cfg.LLM.Provider = llm.ProviderGemini
		}
	}
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)

	if cfg.LLM.Retry.MaxAttempts < 1 {
		return Config{}, fmt.Errorf("llm.retry.max_attempts must be at least 1")
	}
	return cfg, nil
}

// DBPath returns the configured database path, creating its directory,
// or the XDG default when none is set.
func (c Config) DBPath() (string, error) {
	if c.DB != "" {
		return c.DB, store.EnsureDir(c.DB)
	}
	return store.DefaultDBPath()
}

// OpenStore opens the database described by c.
func (c Config) OpenStore(ctx context.Context) (*store.Store, error) {
	path, err := c.DBPath()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, path, store.WithReferenceChecks(c.Store.EnforceReferences))
}
