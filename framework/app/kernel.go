package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-syringe/framework/config"
	"github.com/km-arc/go-syringe/framework/container"
	"github.com/km-arc/go-syringe/framework/introspect"
	"github.com/km-arc/go-syringe/framework/providers"
	"github.com/km-arc/go-syringe/framework/resolver"
	"github.com/km-arc/go-syringe/framework/routing"
)

// Application is the top-level application container.
// It embeds the Container and the ProviderRegistry so user code can call
// app.Bind(), app.Singleton(), app.Get() directly, and holds the Catalog the
// resolver introspects.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Catalog   *introspect.Catalog
}

// Options tune New.
type Options struct {
	EnvFiles   []string
	ValuesFile string
	// Logger replaces the configured logger, mostly for tests.
	Logger *zap.Logger
}

// New creates the application and registers the framework providers.
// Call Boot before resolving anything.
func New(opts Options) (*Application, error) {
	cat := introspect.NewCatalog()
	c := container.New(container.WithInstantiator(cat))
	registry := container.NewProviderRegistry(c)

	a := &Application{
		Container: c,
		Providers: registry,
		Catalog:   cat,
	}

	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: opts.EnvFiles, ValuesFile: opts.ValuesFile},
		&providers.LoggingServiceProvider{Logger: opts.Logger},
		&providers.ResolverServiceProvider{Catalog: cat},
		&providers.InspectorServiceProvider{},
	} {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves the application logger.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, "logger")
}

// Resolver resolves the dependency resolver.
func (a *Application) Resolver() *resolver.Resolver {
	return container.MustResolve[*resolver.Resolver](a.Container, "resolver")
}

// When starts a contextual rule for target on the application resolver.
//
//	app.When(introspect.NameOf[PhotoController]()).
//	    Needs(introspect.NameOf[Filesystem]()).
//	    Give("filesystem.s3")
func (a *Application) When(target string) *resolver.ContextualBuilder {
	return container.MustResolve[*resolver.Contextual](a.Container, "contextual").When(target)
}

// Router resolves the inspector router, loading its deferred provider.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Serve boots the application (if needed) and serves the inspector on addr,
// or on INSPECTOR_ADDR when addr is empty, until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, addr string) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	if addr == "" {
		addr = a.Config().Inspector.Addr
	}
	log := a.Logger()

	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	cfg := a.Config()
	log.Info("inspector listening",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("addr", addr),
		zap.Bool("debug", a.IsDebug()),
	)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
