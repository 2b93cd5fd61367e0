package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/km-arc/go-syringe/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	t.Setenv(key, val) // automatically restored after test
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

var configKeys = []string{
	"APP_NAME", "APP_ENV", "APP_DEBUG",
	"RESOLVER_DEFAULT_NULL", "RESOLVER_STRICT",
	"LOG_LEVEL", "LOG_FORMAT", "INSPECTOR_ADDR", "VALUES_FILE",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		unsetEnv(t, k)
	}
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)
	cfg := config.Load(writeFile(t, "empty.env", ""))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "Syringe"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"Resolver.DefaultNull", cfg.Resolver.DefaultNull, false},
		{"Resolver.Strict", cfg.Resolver.Strict, false},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Inspector.Addr", cfg.Inspector.Addr, ":8000"},
		{"ValuesFile", cfg.ValuesFile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearConfigEnv(t)
	setEnv(t, "APP_NAME", "MyApp")
	setEnv(t, "RESOLVER_STRICT", "true")
	setEnv(t, "LOG_FORMAT", "json")
	setEnv(t, "INSPECTOR_ADDR", ":9000")

	cfg := config.Load(writeFile(t, "empty.env", ""))

	if cfg.App.Name != "MyApp" {
		t.Errorf("App.Name: got %q want %q", cfg.App.Name, "MyApp")
	}
	if !cfg.Resolver.Strict {
		t.Error("Resolver.Strict: expected true")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format: got %q want %q", cfg.Log.Format, "json")
	}
	if cfg.Inspector.Addr != ":9000" {
		t.Errorf("Inspector.Addr: got %q want %q", cfg.Inspector.Addr, ":9000")
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeFile(t, "app.env", "APP_ENV=testing\nRESOLVER_DEFAULT_NULL=1\nLOG_LEVEL=debug\n")

	cfg := config.Load(path)

	if cfg.App.Env != "testing" {
		t.Errorf("App.Env: got %q want %q", cfg.App.Env, "testing")
	}
	if !cfg.Resolver.DefaultNull {
		t.Error("Resolver.DefaultNull: expected true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q want %q", cfg.Log.Level, "debug")
	}
}

func TestLoad_EnvBeatsDotenvFile(t *testing.T) {
	clearConfigEnv(t)
	setEnv(t, "APP_ENV", "production")
	path := writeFile(t, "app.env", "APP_ENV=testing\n")

	if got := config.Load(path).App.Env; got != "production" {
		t.Errorf("App.Env: got %q want %q", got, "production")
	}
}

func TestLoad_AppDebugFalse(t *testing.T) {
	clearConfigEnv(t)
	setEnv(t, "APP_DEBUG", "false")
	cfg := config.Load(writeFile(t, "empty.env", ""))
	if cfg.App.Debug {
		t.Error("expected App.Debug to be false")
	}
}

// ── LoadValues ───────────────────────────────────────────────────────────────

func TestLoadValues_FlattensNestedKeys(t *testing.T) {
	path := writeFile(t, "values.yaml", `
mail:
  host: smtp.example.com
  port: 587
app:
  name: demo
  tags: [a, b]
`)

	values, err := config.LoadValues(path)
	if err != nil {
		t.Fatalf("LoadValues: %v", err)
	}

	if got := values["mail.host"]; got != "smtp.example.com" {
		t.Errorf("mail.host: got %v", got)
	}
	if got := values["mail.port"]; got != 587 {
		t.Errorf("mail.port: got %v (%T)", got, got)
	}
	if got := values["app.name"]; got != "demo" {
		t.Errorf("app.name: got %v", got)
	}
	if _, ok := values["mail"]; ok {
		t.Error("intermediate map keys should not be present")
	}
	if len(values) != 4 {
		t.Errorf("len: got %d, want 4", len(values))
	}
}

func TestLoadValues_JSON(t *testing.T) {
	path := writeFile(t, "values.json", `{"cache": {"driver": "memory"}}`)

	values, err := config.LoadValues(path)
	if err != nil {
		t.Fatalf("LoadValues: %v", err)
	}
	if got := values["cache.driver"]; got != "memory" {
		t.Errorf("cache.driver: got %v", got)
	}
}

func TestLoadValues_MissingFile(t *testing.T) {
	if _, err := config.LoadValues(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// ── Get / GetInt / GetBool ───────────────────────────────────────────────────

func TestGet_ReturnsValue(t *testing.T) {
	setEnv(t, "CUSTOM_KEY", "hello")
	if got := config.Get("CUSTOM_KEY", "default"); got != "hello" {
		t.Errorf("got %q want %q", got, "hello")
	}
}

func TestGet_ReturnsFallback(t *testing.T) {
	unsetEnv(t, "MISSING_KEY")
	if got := config.Get("MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("got %q want %q", got, "fallback")
	}
}

func TestGetInt_ReturnsInt(t *testing.T) {
	setEnv(t, "SOME_INT", "42")
	if got := config.GetInt("SOME_INT", 0); got != 42 {
		t.Errorf("got %d want %d", got, 42)
	}
}

func TestGetInt_ReturnsFallbackOnInvalid(t *testing.T) {
	setEnv(t, "SOME_INT", "notanint")
	if got := config.GetInt("SOME_INT", 99); got != 99 {
		t.Errorf("got %d want %d", got, 99)
	}
}

func TestGetBool_True(t *testing.T) {
	for _, val := range []string{"true", "1", "True", "TRUE"} {
		setEnv(t, "BOOL_KEY", val)
		if !config.GetBool("BOOL_KEY", false) {
			t.Errorf("expected true for %q", val)
		}
	}
}

func TestGetBool_ReturnsFallbackOnInvalid(t *testing.T) {
	setEnv(t, "BOOL_KEY", "notabool")
	if config.GetBool("BOOL_KEY", true) != true {
		t.Error("expected fallback true")
	}
}
