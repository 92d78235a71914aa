package stage

// Optional is the outcome of resolving an optional role: either a callable or
// the reason there is none. A role that was never configured is absent with a
// nil cause.
type Optional[T any] struct {
	value   T
	cause   error
	present bool
}

func present[T any](v T) Optional[T] { return Optional[T]{value: v, present: true} }

func absent[T any](cause error) Optional[T] { return Optional[T]{cause: cause} }

// Ok reports whether the role resolved.
func (o Optional[T]) Ok() bool { return o.present }

// Get returns the callable and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

// Cause returns why the role is absent, or nil.
func (o Optional[T]) Cause() error { return o.cause }

func resolveOptional[T any](id string, resolve func(string) (T, error)) Optional[T] {
	if id == "" {
		return absent[T](nil)
	}
	v, err := resolve(id)
	if err != nil {
		return absent[T](err)
	}
	return present(v)
}
