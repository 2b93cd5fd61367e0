package container

import "sync"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related bindings.
//
// Every provider must implement at minimum Register().
// Boot() is called after ALL providers have been registered, making it safe
// to resolve other bindings inside Boot().
//
//	type MailServiceProvider struct{ container.BaseProvider }
//
//	func (p *MailServiceProvider) Register(app *container.Container) error {
//	    app.Singleton("mailer", func(c *container.Container) (any, error) {
//	        host, err := container.Resolve[string](c, "mail.host")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(host), nil
//	    })
//	    return nil
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot() for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container) error

	// Provides returns the list of keys this provider registers.
	// Used for deferred (lazy) provider loading.
	// Return nil / empty slice if the provider is always eager.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() keys is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
// Embed it in your provider and only override what you need.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) error { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool

	mu     sync.Mutex
	loaded map[ServiceProvider]*deferredLoad
}

// deferredLoad registers a deferred provider exactly once. Concurrent first
// lookups wait for the one doing the work.
type deferredLoad struct {
	once sync.Once
	err  error
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]*deferredLoad),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
// Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.interceptDeferred(provider)
		return nil
	}

	if err := provider.Register(r.app); err != nil {
		return err
	}
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.Booted() {
		return provider.Boot(r.app)
	}
	return nil
}

// interceptDeferred installs a placeholder Class binding for each deferred
// key. The first Get of any of them registers (and, after Boot, boots) the
// provider, whose own bindings replace the placeholders.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	for _, key := range provider.Provides() {
		var placeholder *binding
		placeholder = r.app.classify(KindClass, Factory(func(c *Container) (any, error) {
			if err := r.load(provider); err != nil {
				return nil, err
			}
			if c.current(key) == placeholder {
				// The provider never bound key.
				return nil, &NotFoundError{Key: key}
			}
			return c.Get(key)
		}))
		r.app.set(key, placeholder)
	}
}

// load registers provider once. Register must not resolve the provider's
// own deferred keys.
func (r *ProviderRegistry) load(provider ServiceProvider) error {
	r.mu.Lock()
	l, ok := r.loaded[provider]
	if !ok {
		l = &deferredLoad{}
		r.loaded[provider] = l
	}
	r.mu.Unlock()

	l.once.Do(func() {
		if l.err = provider.Register(r.app); l.err != nil {
			return
		}
		if r.Booted() {
			l.err = provider.Boot(r.app)
		}
	})
	return l.err
}

// Boot calls Boot() on all eager providers.
// Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	r.mu.Unlock()

	for _, provider := range r.eager {
		if err := provider.Boot(r.app); err != nil {
			return err
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
