package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate clears every key Load reads and points CONFIG_PATH at an empty dir.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		KeyAppEnv, KeyPort, KeyStorageDriver, KeyDBPath, KeySeedData, KeyStaticPath,
		KeyJWTSecret, KeyJWTExpiry, KeySubmitRateLimit, KeyLogLevel, KeyTrustedProxies,
	} {
		unsetEnv(t, key)
	}
	dir := t.TempDir()
	t.Setenv(KeyConfigPath, filepath.Join(dir, "config.yaml"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv(KeyJWTSecret, "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}

	if cfg.AppEnv != DefaultAppEnv {
		t.Fatalf("expected app env %s, got %s", DefaultAppEnv, cfg.AppEnv)
	}
	if cfg.Port != DefaultPort {
		t.Fatalf("expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.StorageDriver != DriverMemory {
		t.Fatalf("expected memory driver, got %s", cfg.StorageDriver)
	}
	if !cfg.SeedData {
		t.Fatal("expected seed data to default to true")
	}
	if cfg.JWTExpiry != DefaultJWTExpiry {
		t.Fatalf("expected default expiry %s, got %s", DefaultJWTExpiry, cfg.JWTExpiry)
	}
	if cfg.SubmitRateLimit != DefaultSubmitRateLimit {
		t.Fatalf("expected default rate limit %d, got %d", DefaultSubmitRateLimit, cfg.SubmitRateLimit)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadRequiresJWTSecretInProduction(t *testing.T) {
	isolate(t)

	_, err := Load()
	if err == nil {
		t.Fatal("expected missing JWT secret to error")
	}
	if !strings.Contains(err.Error(), KeyJWTSecret) {
		t.Fatalf("expected error to mention %s, got %v", KeyJWTSecret, err)
	}
}

func TestLoadDevelopmentSecretFallback(t *testing.T) {
	isolate(t)
	t.Setenv(KeyAppEnv, "Development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env, got %s", cfg.AppEnv)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("expected development JWT secret")
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := isolate(t)

	yamlBody := "port: 9090\nstorage_driver: sqlite\ndb_path: /tmp/groups.db\njwt_secret: file-secret\njwt_expiry: 1h\nseed_data: false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlBody), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(KeyJWTSecret, "env-secret")
	t.Setenv(KeyJWTExpiry, "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected port from file, got %d", cfg.Port)
	}
	if cfg.StorageDriver != DriverSQLite || cfg.DBPath != "/tmp/groups.db" {
		t.Fatalf("unexpected storage settings: %s %s", cfg.StorageDriver, cfg.DBPath)
	}
	if cfg.SeedData {
		t.Fatal("expected seed_data false from file")
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("expected env secret to win, got %q", cfg.JWTSecret)
	}
	if cfg.JWTExpiry != 2*time.Hour {
		t.Fatalf("expected expiry=%s, got %s", 2*time.Hour, cfg.JWTExpiry)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{KeyPort, "not-a-number"},
		{KeyPort, "0"},
		{KeyStorageDriver, "postgres"},
		{KeySeedData, "maybe"},
		{KeyJWTExpiry, "forever"},
		{KeySubmitRateLimit, "-1"},
		{KeyAppEnv, "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			isolate(t)
			t.Setenv(KeyJWTSecret, "secret")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected %s=%q to be rejected", tt.key, tt.value)
			}
		})
	}
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
	t.Cleanup(func() {
		if ok {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoadTrustedProxies(t *testing.T) {
	isolate(t)
	t.Setenv(KeyJWTSecret, "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies by default, got %v", cfg.TrustedProxies)
	}

	t.Setenv(KeyTrustedProxies, " 10.0.0.0/8, ,127.0.0.1 ")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("expected config to load, got error: %v", err)
	}
	want := []string{"10.0.0.0/8", "127.0.0.1"}
	if strings.Join(cfg.TrustedProxies, "|") != strings.Join(want, "|") {
		t.Fatalf("expected trusted proxies %v, got %v", want, cfg.TrustedProxies)
	}
}
