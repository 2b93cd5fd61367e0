package providers

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/config"
	"github.com/km-arc/go-syringe/framework/container"
	"github.com/km-arc/go-syringe/framework/inspect"
	"github.com/km-arc/go-syringe/framework/introspect"
	"github.com/km-arc/go-syringe/framework/logging"
	"github.com/km-arc/go-syringe/framework/resolver"
	"github.com/km-arc/go-syringe/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the configuration from .env and binds it into
// the container. On Boot it binds every entry of the values file as a Value
// binding.
//
// Bound keys:
//   - "config"  → *config.Config
//   - one key per values-file entry, e.g. "mail.host"
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
	// ValuesFile overrides VALUES_FILE when set.
	ValuesFile string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) (any, error) {
		return config.Load(envFiles...), nil
	})
	return nil
}

func (p *ConfigServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, "config")
	if err != nil {
		return err
	}
	path := p.ValuesFile
	if path == "" {
		path = cfg.ValuesFile
	}
	if path == "" {
		return nil
	}

	values, err := config.LoadValues(path)
	if err != nil {
		return err
	}
	for key, v := range values {
		app.BindValue(key, v)
	}
	return nil
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the zap logger from the "log" configuration.
//
// Bound keys:
//   - "logger"  → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	// Logger is bound as-is when set, skipping configuration.
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		app.BindInstance("logger", p.Logger)
		return nil
	}
	app.Singleton("logger", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log)
	})
	return nil
}

// ── ResolverServiceProvider ───────────────────────────────────────────────────

// ResolverServiceProvider binds the type catalog, the contextual rule set
// and the dependency resolver configured from the "resolver" configuration.
//
// Bound keys:
//   - "catalog"     → *introspect.Catalog
//   - "contextual"  → *resolver.Contextual
//   - "resolver"    → *resolver.Resolver
type ResolverServiceProvider struct {
	container.BaseProvider
	Catalog *introspect.Catalog
}

func (p *ResolverServiceProvider) Register(app *container.Container) error {
	if p.Catalog == nil {
		return fmt.Errorf("providers: ResolverServiceProvider needs a Catalog")
	}
	cat := p.Catalog
	rules := resolver.NewContextual()
	app.BindInstance("catalog", cat)
	app.BindInstance("contextual", rules)
	app.Singleton("resolver", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		log, err := container.Resolve[*zap.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return resolver.FromConfig(c, cat, cfg.Resolver,
			resolver.WithLogger(log),
			resolver.WithContextual(rules),
		), nil
	})
	return nil
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider registers the HTTP router with the binding
// inspector mounted on it. It is deferred: nothing is built until "router"
// or "inspector" is first resolved.
//
// Bound keys:
//   - "inspector"  → *inspect.Inspector
//   - "router"     → *routing.Router
type InspectorServiceProvider struct {
	container.BaseProvider
}

func (p *InspectorServiceProvider) Register(app *container.Container) error {
	app.Singleton("inspector", func(c *container.Container) (any, error) {
		log, err := container.Resolve[*zap.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		return inspect.New(c, log.Named("inspect")), nil
	})
	app.Singleton("router", func(c *container.Container) (any, error) {
		log, err := container.Resolve[*zap.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		ins, err := container.Resolve[*inspect.Inspector](c, "inspector")
		if err != nil {
			return nil, err
		}
		r := routing.New(log)
		ins.Routes(r)
		return r, nil
	})
	return nil
}

func (p *InspectorServiceProvider) IsDeferred() bool { return true }
func (p *InspectorServiceProvider) Provides() []string {
	return []string{"inspector", "router"}
}
