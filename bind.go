package arbor

// Bind declares an alias from the token derived from I to the token derived
// from T, typically an interface to its implementation. Because aliases
// redirect through the same-scope lookup, overriding the implementation
// token redirects the binding too.
func Bind[I, T any]() Provider {
	return Existing(TypeToken[I](), TypeToken[T]())
}

// ValueByType declares a value provider keyed by the token derived from T.
func ValueByType[T any](v T) Provider {
	return Value(TypeToken[T](), v)
}

// FactoryByType declares a factory provider keyed by the token derived
// from T.
func FactoryByType[T any](fn FactoryFunc, deps ...Dep) Provider {
	return Factory(TypeToken[T](), fn, deps...)
}
