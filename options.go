package arbor

import "log/slog"

type Option func(*appConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithModuleProviders declares the root module provider set.
func WithModuleProviders(providers ...Provider) Option {
	return func(cfg *appConfig) {
		cfg.providers = append(cfg.providers, providers...)
	}
}

// WithParentModule nests this application's module injector under an
// existing one.
func WithParentModule(parent *ModuleInjector) Option {
	return func(cfg *appConfig) {
		cfg.parent = parent
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *appConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithProvideObserver(hook ProvideHook) Option {
	return func(cfg *appConfig) {
		cfg.onProvide = append(cfg.onProvide, hook)
	}
}

func WithInstantiateObserver(hook InstantiateHook) Option {
	return func(cfg *appConfig) {
		cfg.onInstantiate = append(cfg.onInstantiate, hook)
	}
}
