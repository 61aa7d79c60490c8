package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"golang.org/x/text/language"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/shop/storefront/v2\n\ngo 1.24\n")
	t.Setenv(SecretEnv, "")

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, cfg.ModulePath, "example.com/shop/storefront/v2")
	assert.Equal(t, cfg.AppName, "storefront")
	assert.Equal(t, cfg.Addr, DefaultAddr)
	assert.Equal(t, cfg.Path, DefaultPath)
	assert.Equal(t, cfg.DebugAddr, "")
	assert.Equal(t, cfg.Locale, language.AmericanEnglish)
	assert.Equal(t, cfg.TokenTTL, DefaultTokenTTL)
	assert.Equal(t, cfg.ReconnectGrace, DefaultReconnectGrace)
	assert.Equal(t, cfg.Secret, "")
}

func TestResolveWithoutGoMod(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kiosk")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, cfg.ModulePath, "")
	assert.Equal(t, cfg.AppName, "kiosk")
}

func TestResolveFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
app:
  name: Counter
server:
  addr: 127.0.0.1:9000
  path: /ui
  debugAddr: 127.0.0.1:9001
session:
  locale: fi-FI
  maxSessions: 50
  reconnectGrace: 10s
auth:
  secret: from-file
  ttl: 1h
`)
	t.Setenv(SecretEnv, "")

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, cfg.AppName, "Counter")
	assert.Equal(t, cfg.Addr, "127.0.0.1:9000")
	assert.Equal(t, cfg.Path, "/ui")
	assert.Equal(t, cfg.DebugAddr, "127.0.0.1:9001")
	assert.Equal(t, cfg.Locale, language.MustParse("fi-FI"))
	assert.Equal(t, cfg.MaxSessions, 50)
	assert.Equal(t, cfg.ReconnectGrace, 10*time.Second)
	assert.Equal(t, cfg.Secret, "from-file")
	assert.Equal(t, cfg.TokenTTL, time.Hour)

	t.Setenv(SecretEnv, "from-env")
	cfg, err = Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, cfg.Secret, "from-env")
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad yaml", "app: [", "failed to parse"},
		{"relative path", "server:\n  path: sync\n", "server.path"},
		{"bad locale", "session:\n  locale: not a locale\n", "session.locale"},
		{"negative max", "session:\n  maxSessions: -1\n", "maxSessions"},
		{"bad ttl", "auth:\n  ttl: soon\n", "auth.ttl"},
		{"zero grace", "session:\n  reconnectGrace: 0s\n", "reconnectGrace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.yaml)
			_, err := Resolve(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Resolve() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
