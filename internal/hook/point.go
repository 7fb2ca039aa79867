package hook

// Owner identifies the subsystem that owns an extension point. Handlers only
// run when the invoking owner matches the owner they were registered under.
type Owner string

// Point is a typed extension point token. The type parameter fixes the
// argument every handler receives.
type Point[A any] struct {
	name string
}

// NewPoint declares an extension point.
func NewPoint[A any](name string) Point[A] {
	return Point[A]{name: name}
}

// Name returns the extension point name used in logs and errors.
func (p Point[A]) Name() string { return p.name }

// Pair bundles the two arguments of a two-argument extension point.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Head adapts a handler that accepts only the first argument of a Pair.
func Head[A, B any](fn func(A) error) func(Pair[A, B]) error {
	return func(p Pair[A, B]) error {
		return fn(p.First)
	}
}
