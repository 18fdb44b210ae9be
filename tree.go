package radix

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// ConcurrencyMode selects between the two schemes spec.md §5 describes.
type ConcurrencyMode int

const (
	// LockFreeReads serializes writers behind a single mutex and
	// publishes each finished mutation with an atomic pointer store;
	// readers never take a lock. This is the default.
	LockFreeReads ConcurrencyMode = iota
	// RestrictedConcurrency uses a readers-writer lock: any number of
	// concurrent readers, one writer at a time, writers exclude readers.
	RestrictedConcurrency
)

// Option configures a Tree at construction time.
type Option[T any] func(*Tree[T])

// WithConcurrencyMode overrides the default LockFreeReads mode.
func WithConcurrencyMode[T any](mode ConcurrencyMode) Option[T] {
	return func(t *Tree[T]) { t.mode = mode }
}

// WithNodeFactory overrides the default NodeFactory.
func WithNodeFactory[T any](f NodeFactory[T]) Option[T] {
	return func(t *Tree[T]) { t.factory = f }
}

// withKeyTransform sets the transformKeyForResult hook applied to
// accumulated keys as they exit traversal (spec.md §4.3). It is
// unexported because only ReversedTree needs to override it; ordinary
// Tree consumers get the identity transform.
func withKeyTransform[T any](transform func([]byte) []byte) Option[T] {
	return func(t *Tree[T]) { t.keyTransform = transform }
}

// Tree is a concurrent compressed radix tree mapping byte-sequence keys
// to values of type T. The zero value is not usable; construct one with
// New or NewWithOptions.
type Tree[T any] struct {
	mode         ConcurrencyMode
	factory      NodeFactory[T]
	keyTransform func([]byte) []byte

	// writerMu serializes writers under LockFreeReads; readers never
	// touch it.
	writerMu sync.Mutex
	// rw is used instead of writerMu under RestrictedConcurrency: writers
	// take the exclusive lock, readers take the shared lock while loading
	// the root. The root is still published with an atomic store.
	rw sync.RWMutex

	root     atomic.Pointer[Node[T]]
	revision uint64 // only touched while holding the writer lock
}

// New constructs an empty Tree with the default options: LockFreeReads
// concurrency and the default NodeFactory.
func New[T any]() *Tree[T] {
	return NewWithOptions[T]()
}

// NewWithOptions constructs an empty Tree with the given options applied.
func NewWithOptions[T any](opts ...Option[T]) *Tree[T] {
	t := &Tree[T]{factory: NewDefaultNodeFactory[T]()}
	for _, opt := range opts {
		opt(t)
	}
	root := t.factory.NewNode(0, nil, nil, nil, true)
	t.root.Store(root)
	return t
}

func (t *Tree[T]) lockWriter() {
	if t.mode == RestrictedConcurrency {
		t.rw.Lock()
		return
	}
	t.writerMu.Lock()
}

func (t *Tree[T]) unlockWriter() {
	if t.mode == RestrictedConcurrency {
		t.rw.Unlock()
		return
	}
	t.writerMu.Unlock()
}

func (t *Tree[T]) lockReader() {
	if t.mode == RestrictedConcurrency {
		t.rw.RLock()
	}
}

func (t *Tree[T]) unlockReader() {
	if t.mode == RestrictedConcurrency {
		t.rw.RUnlock()
	}
}

// snapshotRoot loads the current root. Under LockFreeReads this is a bare
// atomic load and readers never block a writer or vice versa. Under
// RestrictedConcurrency the load itself is taken under the shared lock,
// which is enough: once loaded, the subtree reachable from that root is
// immutable, so the rest of a query can run lock-free against a frozen
// snapshot.
func (t *Tree[T]) snapshotRoot() *Node[T] {
	t.lockReader()
	root := t.root.Load()
	t.unlockReader()
	return root
}

// writeTxn is one mutation's copy-on-write scope: every node it touches
// is stamped with the same revision, so a single transaction may reuse
// (rather than re-copy) a node it already copied earlier in the same
// walk. This mirrors the teacher's Txn.writeNode.
type writeTxn[T any] struct {
	tree     *Tree[T]
	revision uint64
}

func (t *Tree[T]) newWriteTxn() *writeTxn[T] {
	t.revision++
	return &writeTxn[T]{tree: t, revision: t.revision}
}

func (w *writeTxn[T]) writeNode(n *Node[T]) *Node[T] {
	if n.revision == w.revision {
		return n
	}
	var es edges[T]
	if len(n.edges) != 0 {
		es = make(edges[T], len(n.edges), len(n.edges)+2)
		copy(es, n.edges)
	}
	// Only the root has an empty incoming edge label.
	return w.tree.factory.NewNode(w.revision, n.prefix, n.value, es, len(n.prefix) == 0)
}

// Put validates key and value, then inserts or updates key, returning the
// previous value and whether one existed. It dispatches on the same five
// SearchWalk outcomes spec.md §4.3 names, fused with the copy-on-write
// rebuild in a single pass.
func (t *Tree[T]) Put(key []byte, value T) (old T, hadOld bool, err error) {
	return t.put(key, &value, false)
}

// PutIfAbsent inserts key only if it is not already present, returning
// the existing value (and true) if it was, or the absent zero value (and
// false) if the key was freshly inserted.
func (t *Tree[T]) PutIfAbsent(key []byte, value T) (existing T, hadExisting bool, err error) {
	return t.put(key, &value, true)
}

func (t *Tree[T]) put(key []byte, value *T, ifAbsent bool) (T, bool, error) {
	var zero T
	if len(key) == 0 {
		return zero, false, ErrEmptyKey
	}
	if value == nil {
		return zero, false, ErrAbsentValue
	}

	t.lockWriter()
	defer t.unlockWriter()

	w := t.newWriteTxn()
	root := t.root.Load()
	// Own a private copy of key up front: any newly created leaf below
	// stores a subslice of it directly, the way the teacher's Txn.Insert
	// stores subslices of its k parameter, so the tree must not keep
	// aliasing a buffer the caller might mutate after Put returns.
	newRoot, old, hadOld, mutated := w.insert(root, cloneBytes(key), value, ifAbsent)
	if mutated {
		t.root.Store(newRoot)
	}
	if old == nil {
		return zero, hadOld, nil
	}
	return *old, hadOld, nil
}

// insert performs the copy-on-write walk-and-rebuild for Put/PutIfAbsent.
// It returns the candidate new root, the previous value (if any), whether
// one was present, and whether any observable mutation actually occurred
// (false for a no-op PutIfAbsent on an existing key, per spec.md §4.3).
func (w *writeTxn[T]) insert(root *Node[T], key []byte, value *T, ifAbsent bool) (*Node[T], *T, bool, bool) {
	newRoot := root
	n := &newRoot
	search := key

	for {
		nc := w.writeNode(*n)
		*n = nc

		// Key exhausted exactly on an edge boundary: EXACT_MATCH.
		if len(search) == 0 {
			old := nc.value
			if ifAbsent && old != nil {
				return root, old, true, false
			}
			nc.value = value
			return newRoot, old, old != nil, true
		}

		idx, child := nc.getEdge(search[0])

		// No child starts with the next byte: NO_SUB_TREE / MATCH_ROOT.
		if child == nil {
			nc.addEdge(edge[T]{
				label: search[0],
				node:  w.tree.factory.NewNode(w.revision, search, value, nil, false),
			})
			return newRoot, nil, false, true
		}

		common := longestCommonPrefix(search, child.prefix)
		if common == len(child.prefix) {
			// Edge fully consumed, keep walking into the child.
			search = search[common:]
			n = &nc.edges[idx].node
			continue
		}

		// The edge must be split, either because the key ends mid-edge
		// (common == len(search)) or because the key diverges from the
		// edge before either is exhausted.
		splitNode := w.tree.factory.NewNode(w.revision, search[:common], nil, nil, false)
		nc.replaceEdge(edge[T]{label: search[0], node: splitNode})

		modChild := w.writeNode(child)
		splitNode.addEdge(edge[T]{label: modChild.prefix[common], node: modChild})
		modChild.prefix = modChild.prefix[common:]

		search = search[common:]
		if len(search) == 0 {
			// KEY_ENDS_MID_EDGE: the split point itself is nodeFound.
			splitNode.value = value
			return newRoot, nil, false, true
		}

		// INCOMPLETE_CHARACTERS_IN_EDGE: a new leaf carries the rest of
		// the key alongside the rebuilt original branch.
		splitNode.addEdge(edge[T]{
			label: search[0],
			node:  w.tree.factory.NewNode(w.revision, search, value, nil, false),
		})
		return newRoot, nil, false, true
	}
}

// Remove deletes key if present, returning whether it was found and
// removed. Merging a value-absent non-root node that has a single
// remaining child with that child is applied once per spec.md §4.3; the invariants
// guarantee a deeper cascade is never required.
func (t *Tree[T]) Remove(key []byte) (bool, error) {
	if len(key) == 0 {
		return false, ErrEmptyKey
	}

	t.lockWriter()
	defer t.unlockWriter()

	w := t.newWriteTxn()
	root := t.root.Load()
	newRoot, _, removed := w.remove(root, true, key)
	if !removed {
		return false, nil
	}
	t.root.Store(newRoot)
	return true, nil
}

func (w *writeTxn[T]) remove(n *Node[T], isRoot bool, search []byte) (*Node[T], *T, bool) {
	if len(search) == 0 {
		if n.value == nil {
			return nil, nil, false
		}
		nc := w.writeNode(n)
		old := nc.value
		nc.value = nil
		if !isRoot && len(nc.edges) == 1 {
			w.mergeChild(nc)
		}
		return nc, old, true
	}

	idx, child := n.getEdge(search[0])
	if child == nil || !bytes.HasPrefix(search, child.prefix) {
		return nil, nil, false
	}

	newChild, old, removed := w.remove(child, false, search[len(child.prefix):])
	if !removed {
		return nil, nil, false
	}

	nc := w.writeNode(n)
	if newChild.value == nil && len(newChild.edges) == 0 {
		nc.delEdge(search[0])
		if !isRoot && len(nc.edges) == 1 && nc.value == nil {
			w.mergeChild(nc)
		}
	} else {
		nc.edges[idx].node = newChild
	}
	return nc, old, true
}

// mergeChild collapses n, which has no value and exactly one child, into
// that child: n's edge label absorbs the child's, and n adopts the
// child's value and children.
func (w *writeTxn[T]) mergeChild(n *Node[T]) {
	e := n.edges[0]
	child := e.node
	n.prefix = concatBytes(n.prefix, child.prefix)
	n.value = child.value
	if len(child.edges) != 0 {
		n.edges = make(edges[T], len(child.edges))
		copy(n.edges, child.edges)
	} else {
		n.edges = nil
	}
}

// GetValueForExactKey returns the value stored under key, if any.
func (t *Tree[T]) GetValueForExactKey(key []byte) (T, bool) {
	var zero T
	if len(key) == 0 {
		return zero, false
	}
	root := t.snapshotRoot()
	res := searchWalk(root, key)
	if res.outcome != outcomeExactMatch || res.nodeFound.value == nil {
		return zero, false
	}
	return *res.nodeFound.value, true
}

// subtreeForPrefix locates the node whose subtree holds exactly the keys
// having prefix as a prefix (spec.md §4.3), returning that node and the
// full accumulated key from the root down to (and including) its own
// edge. It returns (nil, nil) if no key has the given prefix.
func subtreeForPrefix[T any](root *Node[T], prefix []byte) (*Node[T], []byte) {
	if len(prefix) == 0 {
		return root, nil
	}
	res := searchWalk(root, prefix)
	switch res.outcome {
	case outcomeExactMatch, outcomeKeyEndsMidEdge:
		pathPrefixLen := res.charsMatched - res.charsMatchedInNodeFound
		return res.nodeFound, concatBytes(prefix[:pathPrefixLen], res.nodeFound.prefix)
	default:
		return nil, nil
	}
}

// KeyValuePair is one (key, value) result from a prefix query.
type KeyValuePair[T any] struct {
	Key   []byte
	Value T
}

// GetKeysStartingWith lazily enumerates every stored key having prefix as
// a prefix, in ascending order.
func (t *Tree[T]) GetKeysStartingWith(prefix []byte) *LazyIterator[[]byte] {
	root := t.snapshotRoot()
	subtreeRoot, path := subtreeForPrefix(root, prefix)
	gen := newTraversalGen(subtreeRoot, path, t.keyTransform)
	return newLazyIterator(func() ([]byte, bool, error) {
		pair, ok, err := gen()
		if err != nil || !ok {
			return nil, ok, err
		}
		return pair.Key, true, nil
	})
}

// GetValuesForKeysStartingWith lazily enumerates the values of every
// stored key having prefix as a prefix, in ascending key order.
func (t *Tree[T]) GetValuesForKeysStartingWith(prefix []byte) *LazyIterator[T] {
	root := t.snapshotRoot()
	subtreeRoot, path := subtreeForPrefix(root, prefix)
	gen := newTraversalGen(subtreeRoot, path, t.keyTransform)
	return newLazyIterator(func() (T, bool, error) {
		var zero T
		pair, ok, err := gen()
		if err != nil || !ok {
			return zero, ok, err
		}
		return *pair.Node.value, true, nil
	})
}

// GetKeyValuePairsForKeysStartingWith lazily enumerates (key, value)
// pairs for every stored key having prefix as a prefix, in ascending
// key order.
func (t *Tree[T]) GetKeyValuePairsForKeysStartingWith(prefix []byte) *LazyIterator[KeyValuePair[T]] {
	root := t.snapshotRoot()
	subtreeRoot, path := subtreeForPrefix(root, prefix)
	gen := newTraversalGen(subtreeRoot, path, t.keyTransform)
	return newLazyIterator(func() (KeyValuePair[T], bool, error) {
		pair, ok, err := gen()
		if err != nil || !ok {
			return KeyValuePair[T]{}, ok, err
		}
		return KeyValuePair[T]{Key: pair.Key, Value: *pair.Node.value}, true, nil
	})
}

// Root returns the current root node, primarily for diagnostics (e.g.
// pretty-printing) and tests. Callers must not mutate the returned tree.
func (t *Tree[T]) Root() *Node[T] {
	return t.snapshotRoot()
}

// PrettyPrint renders the tree as the rooted ASCII drawing spec.md §6
// describes. See the package-level PrettyPrint function for the format.
func (t *Tree[T]) PrettyPrint(format ValueFormatter[T]) string {
	return PrettyPrint(t.Root(), format)
}
