package radix

import "errors"

// Sentinel errors returned by the tree, the suffix/reversed wrappers, and
// the lazy cursor. Wrap these with fmt.Errorf("%w: ...") when adding
// context; callers should match against the sentinel with errors.Is.
var (
	// ErrEmptyKey is returned by any mutator called with a zero-length key.
	ErrEmptyKey = errors.New("radix: key must not be empty")

	// ErrAbsentValue is returned by the tree's internal put when its value
	// pointer is nil. Put and PutIfAbsent pass the address of their value
	// argument, so they never return it.
	ErrAbsentValue = errors.New("radix: value must not be absent")

	// ErrUnsupportedOperation is returned by LazyIterator.Remove, which the
	// cursor never supports.
	ErrUnsupportedOperation = errors.New("radix: unsupported operation")

	// ErrNoSuchElement is returned by LazyIterator.Next once the cursor is
	// exhausted.
	ErrNoSuchElement = errors.New("radix: no such element")

	// ErrIllegalState is returned by LazyIterator.HasNext once the cursor
	// has been poisoned by a prior producer fault.
	ErrIllegalState = errors.New("radix: illegal state")
)
