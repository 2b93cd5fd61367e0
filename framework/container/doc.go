// Package container provides the binding store at the heart of the
// framework, plus the Service Provider system that fills it.
//
// # Overview
//
// Every binding maps a string key to a payload and one of three kinds:
//
//	Value     returned as-is, or built fresh if it names a constructible type
//	Class     a Factory or TypeRef evaluated on every Get
//	Instance  a prebuilt object, or a Factory whose first result is cached
//
// The container never inspects constructor signatures itself. Named types
// (TypeRef) are handed to an Instantiator, normally the introspect.Catalog,
// which is how the resolver package plugs in auto-wiring.
//
// # Container Lifecycle
//
//  1. Create: c := container.New(container.WithInstantiator(cat))
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()
//  4. Resolve
//
// # Bindings
//
//	c.BindValue("mail.host", "smtp.example.com")
//
//	c.BindClass("mailer", func(c *container.Container) (any, error) {
//	    return NewMailer(), nil
//	})
//	c.BindClass("store", container.TypeRef("app.MemStore"))
//
//	c.BindInstance("config", cfg)
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    return cache.NewMemory(), nil
//	})
//
//	// kind picked from the payload
//	c.Bind("clock", &SystemClock{})
//
// Rebinding a key replaces its binding and drops any cached instance.
//
// # Resolving
//
//	v, err := c.Get("cache")
//	v := c.Make("cache") // panics on error
//
//	cache, err := container.Resolve[*MemoryCache](c, "cache")
//	cache := container.MustResolve[*MemoryCache](c, "cache")
//
// Every failure matches ErrResolution; a missing key also matches
// ErrNotFound and a failing factory ErrConstruction.
//
// # Extend
//
//	c.Extend("logger", func(v any, c *container.Container) (any, error) {
//	    return &TimestampLogger{Inner: v.(*Logger)}, nil
//	})
//
// Extenders run in order on every Get, including cached instances.
//
// # Service Providers
//
//	type MailServiceProvider struct{ container.BaseProvider }
//
//	func (p *MailServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("mailer", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg), nil
//	    })
//	    return nil
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&MailServiceProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
// A deferred provider is registered only when one of the keys it Provides
// is first resolved.
//
//	func (p *HeavyProvider) IsDeferred() bool   { return true }
//	func (p *HeavyProvider) Provides() []string { return []string{"heavy"} }
package container
