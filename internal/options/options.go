package options

// Option configures a target of type T and may reject invalid settings.
type Option[T any] func(T) error

// New creates an option from a function that can fail.
func New[T any](fn func(T) error) Option[T] {
	return Option[T](fn)
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}
