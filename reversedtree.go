package radix

// ReversedTree wraps a Tree so that every key is stored and looked up
// reversed, turning prefix queries on the internal tree into suffix
// queries on the keys the caller actually inserted (spec.md §4.5).
// Beyond reversing bytes on ingress and configuring the internal tree's
// transformKeyForResult hook to reverse them again on egress, it adds no
// logic of its own.
type ReversedTree[T any] struct {
	tree *Tree[T]
}

// NewReversedTree constructs an empty ReversedTree.
func NewReversedTree[T any](opts ...Option[T]) *ReversedTree[T] {
	opts = append(append([]Option[T]{}, opts...), withKeyTransform[T](reverseBytes))
	return &ReversedTree[T]{tree: NewWithOptions(opts...)}
}

// Put reverses key before delegating to the internal tree.
func (r *ReversedTree[T]) Put(key []byte, value T) (old T, hadOld bool, err error) {
	return r.tree.Put(reverseBytes(key), value)
}

// PutIfAbsent reverses key before delegating to the internal tree.
func (r *ReversedTree[T]) PutIfAbsent(key []byte, value T) (existing T, hadExisting bool, err error) {
	return r.tree.PutIfAbsent(reverseBytes(key), value)
}

// Remove reverses key before delegating to the internal tree.
func (r *ReversedTree[T]) Remove(key []byte) (bool, error) {
	return r.tree.Remove(reverseBytes(key))
}

// GetValueForExactKey reverses key before delegating to the internal tree.
func (r *ReversedTree[T]) GetValueForExactKey(key []byte) (T, bool) {
	return r.tree.GetValueForExactKey(reverseBytes(key))
}

// GetKeysEndingWith returns every stored key ending with suffix. It
// reverses suffix into a prefix query on the internal tree (whose keys
// are all stored reversed) and the tree's configured transform reverses
// each emitted key back before it is returned.
func (r *ReversedTree[T]) GetKeysEndingWith(suffix []byte) *LazyIterator[[]byte] {
	return r.tree.GetKeysStartingWith(reverseBytes(suffix))
}

// GetValuesForKeysEndingWith is the value-projection counterpart of
// GetKeysEndingWith.
func (r *ReversedTree[T]) GetValuesForKeysEndingWith(suffix []byte) *LazyIterator[T] {
	return r.tree.GetValuesForKeysStartingWith(reverseBytes(suffix))
}

// GetKeyValuePairsForKeysEndingWith is the pair-projection counterpart of
// GetKeysEndingWith.
func (r *ReversedTree[T]) GetKeyValuePairsForKeysEndingWith(suffix []byte) *LazyIterator[KeyValuePair[T]] {
	return r.tree.GetKeyValuePairsForKeysStartingWith(reverseBytes(suffix))
}

// Root returns the internal tree's root, with keys stored reversed. Used
// for diagnostics; PrettyPrint on it prints reversed edge labels.
func (r *ReversedTree[T]) Root() *Node[T] {
	return r.tree.Root()
}

// PrettyPrint renders the internal tree, whose edge labels are reversed
// relative to the keys callers inserted.
func (r *ReversedTree[T]) PrettyPrint(format ValueFormatter[T]) string {
	return PrettyPrint(r.Root(), format)
}
