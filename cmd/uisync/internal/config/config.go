package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the optional configuration file.
const FileName = "uisync.yaml"

// SecretEnv overrides auth.secret so the secret can stay out of the file.
const SecretEnv = "UISYNC_AUTH_SECRET"

// Defaults applied by Resolve.
const (
	DefaultAddr           = ":8080"
	DefaultPath           = "/sync"
	DefaultLocale         = "en-US"
	DefaultTokenTTL       = 30 * time.Minute
	DefaultReconnectGrace = 30 * time.Second
)

// Config represents the optional uisync.yaml configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Session SessionConfig `yaml:"session"`
	Auth    AuthConfig    `yaml:"auth"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// ServerConfig contains listener settings.
type ServerConfig struct {
	Addr      string `yaml:"addr,omitempty"`
	Path      string `yaml:"path,omitempty"`
	DebugAddr string `yaml:"debugAddr,omitempty"`
}

// SessionConfig contains settings applied to every session.
type SessionConfig struct {
	Locale         string `yaml:"locale,omitempty"`
	MaxSessions    int    `yaml:"maxSessions,omitempty"`
	ReconnectGrace string `yaml:"reconnectGrace,omitempty"`
}

// AuthConfig contains session token settings. An empty secret disables
// tokens, and with them reconnects.
type AuthConfig struct {
	Secret string `yaml:"secret,omitempty"`
	TTL    string `yaml:"ttl,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root           string
	ModulePath     string
	AppName        string
	Addr           string
	Path           string
	DebugAddr      string
	Locale         language.Tag
	MaxSessions    int
	Secret         string
	TokenTTL       time.Duration
	ReconnectGrace time.Duration
}

// LoadOptional reads uisync.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads uisync.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	path := strings.TrimSpace(cfg.Server.Path)
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("server.path must start with '/' (got %q)", path)
	}

	localeName := strings.TrimSpace(cfg.Session.Locale)
	if localeName == "" {
		localeName = DefaultLocale
	}
	locale, err := language.Parse(localeName)
	if err != nil {
		return nil, fmt.Errorf("session.locale: %w", err)
	}

	if cfg.Session.MaxSessions < 0 {
		return nil, fmt.Errorf("session.maxSessions cannot be negative (got %d)", cfg.Session.MaxSessions)
	}

	ttl, err := parseDuration("auth.ttl", cfg.Auth.TTL, DefaultTokenTTL)
	if err != nil {
		return nil, err
	}
	grace, err := parseDuration("session.reconnectGrace", cfg.Session.ReconnectGrace, DefaultReconnectGrace)
	if err != nil {
		return nil, err
	}

	secret := cfg.Auth.Secret
	if env := os.Getenv(SecretEnv); env != "" {
		secret = env
	}

	return &Resolved{
		Root:           dir,
		ModulePath:     modulePath,
		AppName:        appName,
		Addr:           orDefault(cfg.Server.Addr, DefaultAddr),
		Path:           path,
		DebugAddr:      strings.TrimSpace(cfg.Server.DebugAddr),
		Locale:         locale,
		MaxSessions:    cfg.Session.MaxSessions,
		Secret:         secret,
		TokenTTL:       ttl,
		ReconnectGrace: grace,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod. The
// current directory is returned when there is none.
func FindProjectRoot() (string, error) {
	start, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

// modulePath returns the module path of dir/go.mod, or "" without one.
func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		modName, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "uisync_app"
	}
	return base
}

func parseDuration(key, value string, def time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive (got %s)", key, value)
	}
	return d, nil
}

func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}
