package arbor

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danvale/arbor/internal/engine"
)

// App is the application container: it owns the root module injector and
// the configuration shared by every element tree bound to it.
type App struct {
	module *ModuleInjector
	config *appConfig
}

type appConfig struct {
	logger        *slog.Logger
	parent        *ModuleInjector
	providers     []Provider
	onResolve     []ResolveHook
	onProvide     []ProvideHook
	onInstantiate []InstantiateHook
}

// New creates an application with a fresh root module injector.
func New(opts ...Option) (*App, error) {
	cfg := &appConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	module := engine.NewModule(
		&engine.Config{
			Logger:        cfg.logger,
			OnResolve:     cfg.onResolve,
			OnProvide:     cfg.onProvide,
			OnInstantiate: cfg.onInstantiate,
		},
		cfg.parent,
	)

	for _, p := range cfg.providers {
		if err := module.Register(p); err != nil {
			return nil, err
		}
	}

	return &App{
		module: module,
		config: cfg,
	}, nil
}

// MustNew is New, panicking on an invalid provider set.
func MustNew(opts ...Option) *App {
	app, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return app
}

// Injector returns the root module injector.
func (a *App) Injector() *ModuleInjector {
	return a.module
}

// Provide registers additional providers at module scope. A token already
// declared there is overwritten: last declaration wins.
func (a *App) Provide(providers ...Provider) error {
	for _, p := range providers {
		if err := a.module.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// ChildModule creates a module injector nested under the root one.
func (a *App) ChildModule(providers ...Provider) (*ModuleInjector, error) {
	return a.module.Child(providers...)
}

// NewRootElement creates an element bound to this application's module
// injector, as the root of an element tree.
func (a *App) NewRootElement(tag string, opts ...ElementOption) *Element {
	opts = append([]ElementOption{WithModule(a.module)}, opts...)
	return NewElement(tag, opts...)
}

// Validate checks the module-scope declarations for missing dependencies
// and declaration-time cycles.
func (a *App) Validate() error {
	return a.module.Validate()
}

func (a *App) Size() int {
	return a.module.Size()
}

func (a *App) Keys() []*Token {
	return a.module.Keys()
}

func (a *App) State() State {
	return a.module.State()
}

// Start eagerly instantiates module-scope providers in dependency order and
// runs their OnStart hooks.
func (a *App) Start(ctx context.Context) error {
	return a.module.Start(ctx)
}

// Stop unwinds the module scope: OnStop hooks in reverse dependency order,
// destroy hooks in reverse construction order, cache released.
func (a *App) Stop(ctx context.Context) error {
	return a.module.Stop(ctx)
}

// Run starts the application and blocks until the context is cancelled or a
// termination signal arrives, then stops it.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	signal.Stop(quit)
	close(quit)

	return a.Stop(context.Background())
}
