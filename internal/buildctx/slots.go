package buildctx

// Key is a typed extension slot on a Context. Keys compare by identity, so
// two keys created with the same name are still distinct slots.
type Key[T any] struct {
	name string
}

// NewKey declares a slot. The name is only used in diagnostics.
func NewKey[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

func (k *Key[T]) String() string { return k.name }

// Set stores v in slot k.
func Set[T any](c *Context, k *Key[T], v T) {
	if c.slots == nil {
		c.slots = make(map[any]any)
	}
	c.slots[k] = v
}

// Get returns the value in slot k and whether it was set.
func Get[T any](c *Context, k *Key[T]) (T, bool) {
	v, ok := c.slots[k]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// GetOr returns the value in slot k, or fallback when it was never set.
func GetOr[T any](c *Context, k *Key[T], fallback T) T {
	if v, ok := Get(c, k); ok {
		return v
	}
	return fallback
}

// Delete clears slot k.
func Delete[T any](c *Context, k *Key[T]) {
	delete(c.slots, k)
}
