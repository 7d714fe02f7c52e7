package arbor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danvale/arbor"
)

func TestInjectorTokenAtElementScope(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Service")
	app := arbor.MustNew()
	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(tok, "v")))

	v, err := root.Resolve(arbor.InjectorToken, arbor.Default)
	require.NoError(t, err)

	inj, ok := v.(arbor.Injector)
	require.True(t, ok)

	// the synthesized injector resolves from the same scope
	got, err := arbor.Get[string](inj, tok)
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.True(t, inj.Has(tok))
}

func TestInjectorTokenWithoutElementScope(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root")

	v, err := root.Resolve(arbor.InjectorToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, app.Injector(), v)
}

func TestInjectorTokenSkipSelfAtModule(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	childApp, err := arbor.New(arbor.WithParentModule(app.Injector()))
	require.NoError(t, err)

	root := childApp.NewRootElement("root")
	v, err := root.Resolve(arbor.InjectorToken, arbor.SkipSelf)
	require.NoError(t, err)
	assert.Same(t, app.Injector(), v)
}

func TestElementRefHandle(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root")
	left := arbor.NewElement("left", arbor.WithParent(root),
		arbor.WithProviders(arbor.Value(arbor.NewToken("L"), 1)))
	right := arbor.NewElement("right", arbor.WithParent(root),
		arbor.WithProviders(arbor.Value(arbor.NewToken("R"), 2)))

	v1, err := left.Resolve(arbor.ElementRefToken, arbor.Default)
	require.NoError(t, err)
	ref1, ok := v1.(*arbor.ElementRef)
	require.True(t, ok)
	assert.Same(t, left, ref1.Element())
	assert.Equal(t, "left", ref1.Tag())

	// one handle per scope, stable across requests
	v2, err := left.Resolve(arbor.ElementRefToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, v1, v2)

	v3, err := right.Resolve(arbor.ElementRefToken, arbor.Default)
	require.NoError(t, err)
	assert.NotSame(t, v1, v3)
}

func TestElementRefResolvesToNearestScope(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(arbor.NewToken("T"), 1)))
	child := arbor.NewElement("child", arbor.WithParent(root))

	// the child owns no injector, so the handle names the owning scope
	v, err := child.Resolve(arbor.ElementRefToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, root, v.(*arbor.ElementRef).Element())
}

func TestTemplateRefHandle(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root")
	tmpl := arbor.NewElement("template", arbor.WithParent(root),
		arbor.WithTemplate())

	v, err := tmpl.Resolve(arbor.TemplateRefToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, tmpl, v.(*arbor.TemplateRef).Element())
}

func TestTemplateRefAbsentOnPlainElement(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(arbor.NewToken("T"), 1)))

	_, err := root.Resolve(arbor.TemplateRefToken, arbor.Default)
	assert.True(t, arbor.IsNoProvider(err))

	v, err := root.Resolve(arbor.TemplateRefToken, arbor.Optional)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTemplateRefDoesNotAscend(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root")
	tmpl := arbor.NewElement("template", arbor.WithParent(root),
		arbor.WithTemplate())

	// a scope below the template element never inherits the handle
	inner := arbor.NewElement("span", arbor.WithParent(tmpl),
		arbor.WithProviders(arbor.Value(arbor.NewToken("T"), 1)))

	_, err := inner.Resolve(arbor.TemplateRefToken, arbor.Default)
	assert.True(t, arbor.IsNoProvider(err))
}

func TestViewContainerHandle(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(arbor.NewToken("T"), 1)))

	v, err := root.Resolve(arbor.ViewContainerToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, root, v.(*arbor.ViewContainerRef).Anchor())

	v2, err := root.Resolve(arbor.ViewContainerToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, v, v2)
}

func TestChangeDetectorResolvesToNearestComponent(t *testing.T) {
	t.Parallel()

	compTok := arbor.NewToken("MyComp")
	app := arbor.MustNew()

	root := app.NewRootElement("app-root")
	comp := arbor.NewElement("my-comp",
		arbor.WithParent(root),
		arbor.WithComponent(arbor.Directive{Token: compTok, Factory: passthrough}),
	)
	child1 := arbor.NewElement("a", arbor.WithParent(comp))
	child2 := arbor.NewElement("b", arbor.WithParent(comp))

	v1, err := child1.Resolve(arbor.ChangeDetectorToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, comp, v1.(*arbor.ChangeDetectorRef).Host())

	// siblings in the same view share the component's handle
	v2, err := child2.Resolve(arbor.ChangeDetectorToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, v1, v2)
}

func TestChangeDetectorSkipSelf(t *testing.T) {
	t.Parallel()

	outerTok := arbor.NewToken("Outer")
	innerTok := arbor.NewToken("Inner")
	app := arbor.MustNew()

	root := app.NewRootElement("app-root")
	outer := arbor.NewElement("outer-comp",
		arbor.WithParent(root),
		arbor.WithComponent(arbor.Directive{Token: outerTok, Factory: passthrough}),
	)
	inner := arbor.NewElement("inner-comp",
		arbor.WithParent(outer),
		arbor.WithComponent(arbor.Directive{Token: innerTok, Factory: passthrough}),
	)
	leaf := arbor.NewElement("span", arbor.WithParent(inner))

	v, err := leaf.Resolve(arbor.ChangeDetectorToken, arbor.Default)
	require.NoError(t, err)
	assert.Same(t, inner, v.(*arbor.ChangeDetectorRef).Host())

	v, err = leaf.Resolve(arbor.ChangeDetectorToken, arbor.SkipSelf)
	require.NoError(t, err)
	assert.Same(t, outer, v.(*arbor.ChangeDetectorRef).Host())
}

func TestChangeDetectorAbsentOutsideAnyView(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("app-root")

	_, err := root.Resolve(arbor.ChangeDetectorToken, arbor.Default)
	assert.True(t, arbor.IsNoProvider(err))

	v, err := root.Resolve(arbor.ChangeDetectorToken, arbor.Optional)
	require.NoError(t, err)
	assert.Nil(t, v)
}
