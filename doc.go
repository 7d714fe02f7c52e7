// Package arbor is a hierarchical dependency-injection resolution engine
// for component trees: per-element node injectors nested inside
// application-scoped module injectors.
//
// A request for a token starts at the element that issued it, searches that
// element's own declarations, ascends through ancestor element injectors,
// and finally falls back to the module injector chain. Resolution modifiers
// adjust the walk per request: Optional turns absence into nil, SkipSelf
// starts one scope up, Self stays in the current scope, and Host caps the
// ascent at the nearest component boundary.
//
// # Quick Start
//
// Create an application, declare module providers, and build a tree:
//
//	var ConfigToken = arbor.NewToken("Config")
//
//	app := arbor.MustNew(
//	    arbor.WithModuleProviders(arbor.Value(ConfigToken, cfg)),
//	)
//
//	root := arbor.NewElement("app", arbor.WithModule(app.Injector()))
//	child := arbor.NewElement("div",
//	    arbor.WithParent(root),
//	    arbor.WithDirectives(arbor.Directive{
//	        Token: WidgetToken,
//	        Deps:  []arbor.Dep{arbor.DepOf(ConfigToken)},
//	        Factory: func(deps []any) (any, error) {
//	            return NewWidget(deps[0].(*Config)), nil
//	        },
//	    }),
//	)
//
//	if err := child.Instantiate(); err != nil { ... }
//	cfg, err := arbor.Get[*Config](child.Injector(), ConfigToken)
//
// # Providers
//
// Providers declare how a token resolves at one scope:
//
//	arbor.Value(tok, v)          // a fixed instance
//	arbor.Factory(tok, fn, deps) // constructed on first use
//	arbor.Existing(tok, target)  // alias to another token, same-scope lookup
//
// Element-scoped providers come in two visibility classes: WithProviders
// declares providers visible to the element, its occupants, and its
// descendants; WithViewProviders declares providers visible only inside a
// component's own view, not to projected content.
//
// # Special tokens
//
// InjectorToken, ElementRefToken, TemplateRefToken, ViewContainerToken and
// ChangeDetectorToken are synthesized by the resolver rather than looked up
// in declarations. They respect Optional, Self and SkipSelf against the
// scope they would have been found in.
//
// # Lifecycle
//
// Element injectors are created lazily and torn down with their element:
// Destroy releases the per-scope cache and runs destroy hooks in reverse
// construction order. App.Start instantiates module providers eagerly in
// dependency order; App.Stop unwinds them.
package arbor
