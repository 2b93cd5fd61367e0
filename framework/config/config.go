package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Resolver  ResolverConfig
	Log       LogConfig
	Inspector InspectorConfig

	// ValuesFile is an optional yaml/json/toml file whose entries are bound
	// into the container as Value bindings.
	ValuesFile string
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
}

// ResolverConfig carries the resolver's policy flags.
type ResolverConfig struct {
	// DefaultNull gives parameters whose type cannot be resolved their zero
	// value instead of failing.
	DefaultNull bool
	// Strict fails builtin and untyped parameters that have no binding and
	// no default instead of omitting them.
	Strict bool
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // console | json
}

type InspectorConfig struct {
	Addr string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "Syringe"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
		},
		Resolver: ResolverConfig{
			DefaultNull: envBool("RESOLVER_DEFAULT_NULL", false),
			Strict:      envBool("RESOLVER_STRICT", false),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "console"),
		},
		Inspector: InspectorConfig{
			Addr: env("INSPECTOR_ADDR", ":8000"),
		},
		ValuesFile: env("VALUES_FILE", ""),
	}
}

// LoadValues reads a values file through viper and returns its entries with
// nested keys flattened by dots. Viper folds keys to lower case.
//
//	# values.yaml
//	mail:
//	  host: smtp.example.com   →  "mail.host": "smtp.example.com"
func LoadValues(path string) (map[string]any, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading values file %s: %w", path, err)
	}

	out := make(map[string]any, len(v.AllKeys()))
	for _, key := range v.AllKeys() {
		out[key] = v.Get(key)
	}
	return out, nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
