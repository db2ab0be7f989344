// Package config loads varbridge settings from a TOML file and the
// environment.
//
// Priority: CLI flags > VARBRIDGE_* environment variables > TOML file >
// defaults. Flags are applied by the CLI after Load returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/varbridge/pkg/workspace"
)

const appName = "varbridge"

// Config holds all settings.
type Config struct {
	Workspace WorkspaceConfig `toml:"workspace"`
	Server    ServerConfig    `toml:"server"`
	Import    ImportConfig    `toml:"import"`
	Export    ExportConfig    `toml:"export"`
	Logging   LoggingConfig   `toml:"logging"`
}

// WorkspaceConfig selects where the live store is persisted.
type WorkspaceConfig struct {
	Backend       string `toml:"backend" validate:"oneof=null none file sqlite redis mongo"`
	Path          string `toml:"path"`
	Key           string `toml:"key" validate:"required,max=128"`
	RedisAddr     string `toml:"redis_addr" validate:"required_if=Backend redis"`
	MongoURI      string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host" validate:"required"`
	Port int    `toml:"port" validate:"min=1,max=65535"`
}

// ImportConfig tunes the importer.
type ImportConfig struct {
	// Pacing is slept after every store mutation.
	Pacing Duration `toml:"pacing" validate:"min=0"`
	// AliasType is "target" (use the alias target's type) or "color".
	AliasType string `toml:"alias_type" validate:"oneof=target color"`
}

// ExportConfig tunes the exporter.
type ExportConfig struct {
	RawColors bool `toml:"raw_colors"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Default returns a Config with all default values.
func Default() *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Backend:       workspace.BackendFile,
			Key:           workspace.DefaultKey,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8080},
		Import:  ImportConfig{AliasType: "target"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/varbridge/config.toml, falling back to
// ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path (DefaultPath when empty), applies environment overrides
// and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies VARBRIDGE_* overrides.
func (c *Config) applyEnv(getenv func(string) string) error {
	str := map[string]*string{
		"VARBRIDGE_WORKSPACE_BACKEND": &c.Workspace.Backend,
		"VARBRIDGE_WORKSPACE_PATH":    &c.Workspace.Path,
		"VARBRIDGE_WORKSPACE_KEY":     &c.Workspace.Key,
		"VARBRIDGE_REDIS_ADDR":        &c.Workspace.RedisAddr,
		"VARBRIDGE_MONGO_URI":         &c.Workspace.MongoURI,
		"VARBRIDGE_MONGO_DATABASE":    &c.Workspace.MongoDatabase,
		"VARBRIDGE_SERVER_HOST":       &c.Server.Host,
		"VARBRIDGE_IMPORT_ALIAS_TYPE": &c.Import.AliasType,
		"VARBRIDGE_LOG_LEVEL":         &c.Logging.Level,
	}
	for name, dst := range str {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}

	if v := getenv("VARBRIDGE_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VARBRIDGE_SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("VARBRIDGE_IMPORT_PACING"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("VARBRIDGE_IMPORT_PACING: %w", err)
		}
		c.Import.Pacing = Duration(d)
	}
	if v := getenv("VARBRIDGE_EXPORT_RAW_COLORS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VARBRIDGE_EXPORT_RAW_COLORS: %w", err)
		}
		c.Export.RawColors = b
	}
	return nil
}

// Validate checks every field against its validate tag. Messages use the
// TOML key path, e.g. `workspace.backend`.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		path := strings.TrimPrefix(e.Namespace(), "Config.")
		msgs = append(msgs, fmt.Sprintf("key=%q, value=%q, failed %q validation", path, fmt.Sprint(e.Value()), e.ActualTag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// BackendConfig returns the workspace backend settings.
func (c *Config) BackendConfig() workspace.BackendConfig {
	return workspace.BackendConfig{
		Kind:          c.Workspace.Backend,
		Path:          c.Workspace.Path,
		RedisAddr:     c.Workspace.RedisAddr,
		MongoURI:      c.Workspace.MongoURI,
		MongoDatabase: c.Workspace.MongoDatabase,
	}
}

// LogLevel returns the configured level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Addr returns host:port of the server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
