package arbor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danvale/arbor"
)

func TestElementFallsBackToModule(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Config")
	app := arbor.MustNew(arbor.WithModuleProviders(arbor.Value(tok, "from-module")))

	root := app.NewRootElement("app-root")
	child := arbor.NewElement("div", arbor.WithParent(root))

	v, err := arbor.Get[string](child.Injector(), tok)
	require.NoError(t, err)
	assert.Equal(t, "from-module", v)
}

func TestElementProviderShadowsModule(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Config")
	app := arbor.MustNew(arbor.WithModuleProviders(arbor.Value(tok, "from-module")))

	root := app.NewRootElement("app-root",
		arbor.WithProviders(arbor.Value(tok, "from-element")))
	child := arbor.NewElement("div", arbor.WithParent(root))

	v, err := arbor.Get[string](child.Injector(), tok)
	require.NoError(t, err)
	assert.Equal(t, "from-element", v)
}

func TestElementAncestorWalk(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Service")
	app := arbor.MustNew()

	grand := app.NewRootElement("grand",
		arbor.WithProviders(arbor.Value(tok, "grand-service")))
	parent := arbor.NewElement("parent", arbor.WithParent(grand))
	child := arbor.NewElement("child", arbor.WithParent(parent),
		arbor.WithProviders(arbor.Value(arbor.NewToken("Other"), 1)))

	v, err := arbor.Get[string](child.Injector(), tok)
	require.NoError(t, err)
	assert.Equal(t, "grand-service", v)
}

func TestElementNearestDeclarationWins(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Theme")
	app := arbor.MustNew()

	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(tok, "dark")))
	mid := arbor.NewElement("mid", arbor.WithParent(root),
		arbor.WithProviders(arbor.Value(tok, "light")))
	leaf := arbor.NewElement("leaf", arbor.WithParent(mid))

	v, err := arbor.Get[string](leaf.Injector(), tok)
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestElementInstanceSharedAcrossDescendants(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Service")
	calls := 0
	app := arbor.MustNew()

	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Factory(tok, func([]any) (any, error) {
			calls++
			return &struct{ n int }{calls}, nil
		}),
	))
	left := arbor.NewElement("left", arbor.WithParent(root))
	right := arbor.NewElement("right", arbor.WithParent(root))

	v1, err := left.Resolve(tok, arbor.Default)
	require.NoError(t, err)
	v2, err := right.Resolve(tok, arbor.Default)
	require.NoError(t, err)

	// the instance caches at the declaring scope, not the requesting one
	assert.Same(t, v1, v2)
	assert.Equal(t, 1, calls)
}

func TestElementSiblingScopesAreIsolated(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Widget")
	calls := 0
	factory := func([]any) (any, error) {
		calls++
		return &struct{ n int }{calls}, nil
	}

	app := arbor.MustNew()
	root := app.NewRootElement("root")
	left := arbor.NewElement("left", arbor.WithParent(root),
		arbor.WithProviders(arbor.Factory(tok, factory)))
	right := arbor.NewElement("right", arbor.WithParent(root),
		arbor.WithProviders(arbor.Factory(tok, factory)))

	v1, err := left.Resolve(tok, arbor.Default)
	require.NoError(t, err)
	v2, err := right.Resolve(tok, arbor.Default)
	require.NoError(t, err)

	assert.NotSame(t, v1, v2)
	assert.Equal(t, 2, calls)
}

func TestElementLastDeclarationWins(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Size")
	app := arbor.MustNew()
	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Value(tok, "small"),
		arbor.Value(tok, "large"),
	))

	v, err := arbor.Get[string](root.Injector(), tok)
	require.NoError(t, err)
	assert.Equal(t, "large", v)
}

func TestElementOptional(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root")
	missing := arbor.NewToken("Missing")

	v, err := root.Resolve(missing, arbor.Optional)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = root.Resolve(missing, arbor.Default)
	assert.True(t, arbor.IsNoProvider(err))
}

func TestElementSelf(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Local")
	app := arbor.MustNew(arbor.WithModuleProviders(arbor.Value(tok, "from-module")))

	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(tok, "from-root")))
	child := arbor.NewElement("child", arbor.WithParent(root),
		arbor.WithProviders(arbor.Value(arbor.NewToken("Other"), 1)))

	// found in the element's own scope
	v, err := root.Resolve(tok, arbor.Self)
	require.NoError(t, err)
	assert.Equal(t, "from-root", v)

	// Self never ascends and never falls back to the module
	_, err = child.Resolve(tok, arbor.Self)
	assert.True(t, arbor.IsNoProvider(err))

	v, err = child.Resolve(tok, arbor.Self|arbor.Optional)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestElementSkipSelf(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Depth")
	app := arbor.MustNew(arbor.WithModuleProviders(arbor.Value(tok, "module")))

	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(tok, "root")))
	child := arbor.NewElement("child", arbor.WithParent(root),
		arbor.WithProviders(arbor.Value(tok, "child")))

	v, err := child.Resolve(tok, arbor.SkipSelf)
	require.NoError(t, err)
	assert.Equal(t, "root", v)

	// skipping the only element scope falls through to the module
	v, err = root.Resolve(tok, arbor.SkipSelf)
	require.NoError(t, err)
	assert.Equal(t, "module", v)
}

func TestElementSelfWithSkipSelf(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Contradiction")
	app := arbor.MustNew(arbor.WithModuleProviders(arbor.Value(tok, "module")))
	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(tok, "root")))

	// Self and SkipSelf together exclude every scope
	_, err := root.Resolve(tok, arbor.Self|arbor.SkipSelf)
	assert.True(t, arbor.IsNoProvider(err))

	v, err := root.Resolve(tok, arbor.Self|arbor.SkipSelf|arbor.Optional)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestElementSkipSelfSameTokenDoesNotCycle(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Decorated")
	app := arbor.MustNew()

	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(tok, "base")))
	child := arbor.NewElement("child", arbor.WithParent(root),
		arbor.WithProviders(arbor.Factory(tok, func(deps []any) (any, error) {
			return deps[0].(string) + "+decorated", nil
		}, arbor.DepOf(tok, arbor.SkipSelf))))

	v, err := arbor.Get[string](child.Injector(), tok)
	require.NoError(t, err)
	assert.Equal(t, "base+decorated", v)
}

func TestElementCircularDependency(t *testing.T) {
	t.Parallel()

	aTok := arbor.NewToken("A")
	bTok := arbor.NewToken("B")
	app := arbor.MustNew()

	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Factory(aTok, func(deps []any) (any, error) { return deps[0], nil }, arbor.DepOf(bTok)),
		arbor.Factory(bTok, func(deps []any) (any, error) { return deps[0], nil }, arbor.DepOf(aTok)),
	))

	_, err := root.Resolve(aTok, arbor.Default)
	require.Error(t, err)
	assert.True(t, arbor.IsCircularDependency(err))
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestElementSelfCycle(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Narcissus")
	app := arbor.MustNew()
	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Factory(tok, func(deps []any) (any, error) { return deps[0], nil },
			arbor.DepOf(tok, arbor.Optional)),
	))

	// Optional never suppresses a circular-construction failure
	_, err := root.Resolve(tok, arbor.Default)
	require.Error(t, err)
	assert.True(t, arbor.IsCircularDependency(err))
}

func TestElementAliasSameScope(t *testing.T) {
	t.Parallel()

	iface := arbor.NewToken("Renderer")
	impl := arbor.NewToken("CanvasRenderer")
	app := arbor.MustNew()

	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Value(impl, "canvas"),
		arbor.Existing(iface, impl),
	))
	child := arbor.NewElement("child", arbor.WithParent(root))

	v, err := arbor.Get[string](child.Injector(), iface)
	require.NoError(t, err)
	assert.Equal(t, "canvas", v)
}

func TestElementAliasTargetFromAncestor(t *testing.T) {
	t.Parallel()

	iface := arbor.NewToken("Renderer")
	impl := arbor.NewToken("CanvasRenderer")
	app := arbor.MustNew()

	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(impl, "ancestor-canvas")))
	child := arbor.NewElement("child", arbor.WithParent(root),
		arbor.WithProviders(arbor.Existing(iface, impl)))

	// the alias re-enters the full walk from its own scope
	v, err := arbor.Get[string](child.Injector(), iface)
	require.NoError(t, err)
	assert.Equal(t, "ancestor-canvas", v)
}

func TestElementAliasMissingTarget(t *testing.T) {
	t.Parallel()

	iface := arbor.NewToken("Renderer")
	impl := arbor.NewToken("NotDeclared")
	app := arbor.MustNew()
	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Existing(iface, impl)))

	_, err := root.Resolve(iface, arbor.Default)
	assert.True(t, arbor.IsNoProvider(err))

	// only Optional survives the alias hop
	v, err := root.Resolve(iface, arbor.Optional)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestElementDependencyFailureWraps(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("NeedsMissing")
	missing := arbor.NewToken("Missing")
	app := arbor.MustNew()
	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Factory(tok, func(deps []any) (any, error) { return deps[0], nil },
			arbor.DepOf(missing)),
	))

	_, err := root.Resolve(tok, arbor.Default)
	require.Error(t, err)
	assert.True(t, arbor.IsResolutionFailed(err))
	assert.Contains(t, err.Error(), "Missing")
}

func TestElementOptionalDependencyArrivesNil(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Tolerant")
	missing := arbor.NewToken("Missing")
	app := arbor.MustNew()

	var got []any
	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Factory(tok, func(deps []any) (any, error) {
			got = deps
			return "ok", nil
		}, arbor.DepOf(missing, arbor.Optional)),
	))

	_, err := root.Resolve(tok, arbor.Default)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0])
}

func TestElementDestroy(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Resource")
	childTok := arbor.NewToken("ChildResource")
	app := arbor.MustNew()

	var order []string
	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Value(tok, "r").OnDestroy(func(any) { order = append(order, "root") }),
	))
	child := arbor.NewElement("child", arbor.WithParent(root), arbor.WithProviders(
		arbor.Value(childTok, "c").OnDestroy(func(any) { order = append(order, "child") }),
	))

	_, err := root.Resolve(tok, arbor.Default)
	require.NoError(t, err)
	_, err = child.Resolve(childTok, arbor.Default)
	require.NoError(t, err)

	root.Destroy()

	// children unwind before their parent
	assert.Equal(t, []string{"child", "root"}, order)
	assert.True(t, root.Destroyed())
	assert.True(t, child.Destroyed())

	_, err = child.Resolve(childTok, arbor.Default)
	assert.True(t, arbor.IsScopeDestroyed(err))

	// idempotent
	root.Destroy()
	assert.Equal(t, []string{"child", "root"}, order)
}

func TestElementDestroyHookOrderWithinScope(t *testing.T) {
	t.Parallel()

	aTok := arbor.NewToken("A")
	bTok := arbor.NewToken("B")
	app := arbor.MustNew()

	var order []string
	root := app.NewRootElement("root", arbor.WithProviders(
		arbor.Value(aTok, "a").OnDestroy(func(any) { order = append(order, "a") }),
		arbor.Value(bTok, "b").OnDestroy(func(any) { order = append(order, "b") }),
	))

	_, err := root.Resolve(aTok, arbor.Default)
	require.NoError(t, err)
	_, err = root.Resolve(bTok, arbor.Default)
	require.NoError(t, err)

	root.Destroy()

	// reverse construction order
	assert.Equal(t, []string{"b", "a"}, order)
}

func TestElementInstanceLookup(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Cached")
	app := arbor.MustNew()
	root := app.NewRootElement("root",
		arbor.WithProviders(arbor.Value(tok, "v")))

	_, ok := root.Instance(tok)
	assert.False(t, ok)

	_, err := root.Resolve(tok, arbor.Default)
	require.NoError(t, err)

	v, ok := root.Instance(tok)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestElementModuleInheritance(t *testing.T) {
	t.Parallel()

	app := arbor.MustNew()
	root := app.NewRootElement("root")
	child := arbor.NewElement("child", arbor.WithParent(root))

	assert.Same(t, app.Injector(), child.Module())
	assert.Equal(t, "child", child.Tag())
	assert.Same(t, root, child.Parent())
	assert.Equal(t, []*arbor.Element{child}, root.Children())
}

func TestElementDetachedFromModule(t *testing.T) {
	t.Parallel()

	tok := arbor.NewToken("Config")
	elem := arbor.NewElement("orphan")

	inj := elem.Injector()
	require.NotNil(t, inj)
	assert.False(t, inj.Has(tok))

	_, err := inj.Resolve(tok, arbor.Default)
	assert.True(t, arbor.IsNoProvider(err))

	v, err := inj.Resolve(tok, arbor.Optional)
	require.NoError(t, err)
	assert.Nil(t, v)

	// A detached subtree behaves the same through a descendant.
	child := arbor.NewElement("span", arbor.WithParent(elem),
		arbor.WithProviders(arbor.Value(arbor.NewToken("Local"), 1)))
	_, err = child.Injector().Resolve(tok, arbor.Default)
	assert.True(t, arbor.IsNoProvider(err))
}
