// Package arbortest provides helpers for testing code that resolves
// dependencies through arbor. A TestApp registers its own teardown via
// Cleanup, so tests never leak started modules.
package arbortest

import (
	"context"

	"github.com/danvale/arbor"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestApp struct {
	*arbor.App
	tb TB
}

func New(tb TB, opts ...arbor.Option) *TestApp {
	tb.Helper()

	app, err := arbor.New(opts...)
	if err != nil {
		tb.Fatalf("failed to create app: %v", err)
	}

	ta := &TestApp{
		App: app,
		tb:  tb,
	}

	tb.Cleanup(func() {
		if app.State() != arbor.StateRunning {
			return
		}
		if err := app.Stop(context.Background()); err != nil {
			tb.Fatalf("failed to stop app: %v", err)
		}
	})

	return ta
}

func (ta *TestApp) RequireStart(ctx context.Context) {
	ta.tb.Helper()

	if err := ta.Start(ctx); err != nil {
		ta.tb.Fatalf("failed to start app: %v", err)
	}
}

func (ta *TestApp) RequireStop(ctx context.Context) {
	ta.tb.Helper()

	if err := ta.Stop(ctx); err != nil {
		ta.tb.Fatalf("failed to stop app: %v", err)
	}
}

func (ta *TestApp) RequireValidate() {
	ta.tb.Helper()

	if err := ta.Validate(); err != nil {
		ta.tb.Fatalf("validation failed: %v", err)
	}
}

func (ta *TestApp) MustProvide(providers ...arbor.Provider) {
	ta.tb.Helper()

	if err := ta.Provide(providers...); err != nil {
		ta.tb.Fatalf("failed to provide: %v", err)
	}
}

// Replace re-registers a token as a value provider: last declaration wins,
// so tests can swap a real dependency for a mock.
func Replace(ta *TestApp, token *arbor.Token, value any) {
	ta.tb.Helper()
	ta.MustProvide(arbor.Value(token, value))
}

func AssertHas(ta *TestApp, token *arbor.Token) {
	ta.tb.Helper()

	if !ta.Injector().Has(token) {
		ta.tb.Fatalf("expected app to have %s", token)
	}
}

func AssertNotHas(ta *TestApp, token *arbor.Token) {
	ta.tb.Helper()

	if ta.Injector().Has(token) {
		ta.tb.Fatalf("expected app to not have %s", token)
	}
}

// MustResolve resolves a token from any injector, failing the test on error.
func MustResolve[T any](tb TB, i arbor.Injector, token *arbor.Token, flags ...arbor.Flags) T {
	tb.Helper()

	v, err := arbor.Get[T](i, token, flags...)
	if err != nil {
		tb.Fatalf("failed to resolve %s: %v", token, err)
	}
	return v
}

func MustGet[T any](ta *TestApp, token *arbor.Token, flags ...arbor.Flags) T {
	ta.tb.Helper()
	return MustResolve[T](ta.tb, ta.Injector(), token, flags...)
}
