package radix

// cursorState tracks where a LazyIterator is in the hasNext/next protocol
// described by spec.md §4.6: notReady means the next element (if any) has
// not been computed yet; ready means it has and is waiting in next; done
// means the producer has signaled end-of-data; failed means the producer
// raised an error and the cursor is poisoned.
type cursorState int

const (
	cursorNotReady cursorState = iota
	cursorReady
	cursorDone
	cursorFailed
)

// LazyIterator is a poll-style cursor over a lazily produced sequence. It
// implements the contract in spec.md §4.6: the first HasNext call may
// invoke the producer; later HasNext calls without an intervening Next
// are idempotent; a producer error poisons the cursor so every later
// HasNext fails with ErrIllegalState; advancing past end-of-data fails
// with ErrNoSuchElement; Remove is always ErrUnsupportedOperation.
type LazyIterator[T any] struct {
	computeNext func() (T, bool, error)
	state       cursorState
	next        T
}

// newLazyIterator wraps a producer function in the hasNext/next state
// machine. The producer returns the next element, whether one was
// available, and an error if it failed to compute one.
func newLazyIterator[T any](computeNext func() (T, bool, error)) *LazyIterator[T] {
	return &LazyIterator[T]{computeNext: computeNext}
}

// HasNext reports whether a further call to Next would succeed. Once the
// cursor has failed, every subsequent call returns ErrIllegalState,
// regardless of whether the underlying producer would now succeed.
func (it *LazyIterator[T]) HasNext() (bool, error) {
	switch it.state {
	case cursorFailed:
		return false, ErrIllegalState
	case cursorDone:
		return false, nil
	case cursorReady:
		return true, nil
	}

	v, ok, err := it.computeNext()
	if err != nil {
		it.state = cursorFailed
		return false, err
	}
	if !ok {
		it.state = cursorDone
		return false, nil
	}
	it.next = v
	it.state = cursorReady
	return true, nil
}

// Next returns the next element, advancing the cursor. It fails with
// ErrNoSuchElement once the sequence is exhausted, and propagates any
// poisoning error from HasNext.
func (it *LazyIterator[T]) Next() (T, error) {
	ok, err := it.HasNext()
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		var zero T
		return zero, ErrNoSuchElement
	}
	v := it.next
	var zero T
	it.next = zero
	it.state = cursorNotReady
	return v, nil
}

// Remove never succeeds; LazyIterator does not support mutation.
func (it *LazyIterator[T]) Remove() error {
	return ErrUnsupportedOperation
}

// Collect drains it into a slice. It stops at the first error, returning
// whatever was collected so far alongside it.
func Collect[T any](it *LazyIterator[T]) ([]T, error) {
	var out []T
	for {
		ok, err := it.HasNext()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		v, err := it.Next()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// traversalPair is the (accumulatedKey, node) pair LazyTraversal emits.
type traversalPair[T any] struct {
	Key  []byte
	Node *Node[T]
}

// traversalFrame is a work-stack entry: a node reached during the walk,
// paired with the key accumulated along the path from the traversal root
// to (and including) that node's own incoming edge.
type traversalFrame[T any] struct {
	node *Node[T]
	key  []byte
}

// newTraversalGen returns a producer function performing a depth-first
// pre-order walk of the subtree rooted at root, emitting every
// key-terminal node in ascending key order. Per spec.md §4.6, children are
// pushed onto the work stack in reverse sorted order so that popping (a
// LIFO operation) yields them in ascending order. transform, if non-nil,
// is applied to each accumulated key before it is returned (this is the
// transformKeyForResult hook spec.md §4.3/§4.5 describes; the reversed
// tree wrapper supplies byte-reversal here).
//
// Each call observes only the node references reachable from the frames
// already pushed. Published nodes are never modified, so a concurrent
// writer publishing a new root after this generator was created has no
// effect on an in-progress walk: the walk sees the tree structure
// reachable from root as it was when root was loaded. This is the
// weak-consistency contract of spec.md §5 and §9.
func newTraversalGen[T any](root *Node[T], rootKey []byte, transform func([]byte) []byte) func() (traversalPair[T], bool, error) {
	if root == nil {
		return func() (traversalPair[T], bool, error) {
			return traversalPair[T]{}, false, nil
		}
	}
	if transform == nil {
		transform = identityTransform
	}

	stack := []traversalFrame[T]{{node: root, key: rootKey}}
	return func() (traversalPair[T], bool, error) {
		for len(stack) > 0 {
			n := len(stack)
			frame := stack[n-1]
			stack = stack[:n-1]

			for i := len(frame.node.edges) - 1; i >= 0; i-- {
				child := frame.node.edges[i].node
				stack = append(stack, traversalFrame[T]{
					node: child,
					key:  concatBytes(frame.key, child.prefix),
				})
			}

			if frame.node.value != nil {
				return traversalPair[T]{Key: transform(frame.key), Node: frame.node}, true, nil
			}
		}
		return traversalPair[T]{}, false, nil
	}
}

func identityTransform(k []byte) []byte {
	return k
}

// reverseBytes returns a newly allocated reversal of b, used as the
// transformKeyForResult hook by ReversedTree.
func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}
