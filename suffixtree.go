package radix

import (
	"sort"
	"strings"
	"sync"
)

// SuffixTree indexes every suffix of every inserted key in an internal
// radix tree, so that substring and suffix queries reduce to a prefix
// walk on that internal tree (spec.md §4.4). The internal tree's values
// are sets of original keys that gave rise to the suffix at that
// location; a separate top-level set tracks the original keys themselves,
// used to detect duplicate puts and drive removal.
type SuffixTree[V any] struct {
	tree      *Tree[Set[string]]
	createSet CreateSetFunc[string]
	originals Set[string]

	valuesMu sync.RWMutex
	values   map[string]V
}

// SuffixTreeOption configures a SuffixTree at construction time.
type SuffixTreeOption[V any] func(*SuffixTree[V])

// WithOriginalKeysSetFactory overrides createSetForOriginalKeys
// (spec.md §4.4/§6). The default produces a concurrent hash set; tests
// may substitute an insertion-ordered one for deterministic output.
func WithOriginalKeysSetFactory[V any](f CreateSetFunc[string]) SuffixTreeOption[V] {
	return func(st *SuffixTree[V]) { st.createSet = f }
}

// WithSuffixNodeFactory overrides the NodeFactory used by the internal
// radix tree.
func WithSuffixNodeFactory[V any](f NodeFactory[Set[string]]) SuffixTreeOption[V] {
	return func(st *SuffixTree[V]) {
		st.tree = NewWithOptions(WithNodeFactory(f))
	}
}

// NewSuffixTree constructs an empty SuffixTree.
func NewSuffixTree[V any](opts ...SuffixTreeOption[V]) *SuffixTree[V] {
	st := &SuffixTree[V]{
		tree:      New[Set[string]](),
		createSet: NewConcurrentSet[string],
		originals: NewConcurrentSet[string](),
		values:    make(map[string]V),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Put indexes every suffix of key and associates value with it, returning
// the previous value and whether one existed. If key was already
// inserted, only the external value is updated; suffixes are not
// re-indexed (spec.md §4.4).
func (st *SuffixTree[V]) Put(key string, value V) (old V, hadOld bool, err error) {
	return st.put(key, value, false)
}

// PutIfAbsent is to Put as Tree.PutIfAbsent is to Tree.Put.
func (st *SuffixTree[V]) PutIfAbsent(key string, value V) (existing V, hadExisting bool, err error) {
	return st.put(key, value, true)
}

func (st *SuffixTree[V]) put(key string, value V, ifAbsent bool) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, ErrEmptyKey
	}

	if st.originals.Contains(key) {
		st.valuesMu.Lock()
		old := st.values[key]
		if !ifAbsent {
			st.values[key] = value
		}
		st.valuesMu.Unlock()
		return old, true, nil
	}

	st.valuesMu.Lock()
	st.values[key] = value
	st.valuesMu.Unlock()

	keyBytes := []byte(key)
	for i := range keyBytes {
		st.putSuffix(keyBytes[i:], key)
	}
	// Original keys are tracked last, after every suffix is indexed, so a
	// concurrent reader that observes key in originals is guaranteed to
	// find it reflected in every suffix's originals set too.
	st.originals.Add(key)
	return zero, false, nil
}

// putSuffix retrieves or creates the originals set stored at suffix and
// folds key into it. Creation races with other goroutines indexing a
// different original key under the same suffix for the first time;
// PutIfAbsent on the internal tree is the compare-and-swap spec.md §4.4
// and §5 call for, and losing the race simply means retrying against
// whichever set won.
func (st *SuffixTree[V]) putSuffix(suffix []byte, key string) {
	for {
		existing, ok := st.tree.GetValueForExactKey(suffix)
		if ok {
			existing.Add(key)
			return
		}

		fresh := st.createSet().Add(key)
		_, hadExisting, _ := st.tree.PutIfAbsent(suffix, fresh)
		if !hadExisting {
			return
		}
		// Lost the race: someone else created the entry first. Loop and
		// fold key into their set instead.
	}
}

// Remove deindexes every suffix of key and removes it from the originals
// set, returning whether key had been present.
func (st *SuffixTree[V]) Remove(key string) bool {
	if !st.originals.Contains(key) {
		return false
	}

	keyBytes := []byte(key)
	for i := range keyBytes {
		st.removeSuffix(keyBytes[i:], key)
	}
	st.originals.Remove(key)

	st.valuesMu.Lock()
	delete(st.values, key)
	st.valuesMu.Unlock()
	return true
}

func (st *SuffixTree[V]) removeSuffix(suffix []byte, key string) {
	existing, ok := st.tree.GetValueForExactKey(suffix)
	if !ok {
		return
	}
	existing.Remove(key)
	if existing.Len() == 0 {
		st.tree.Remove(suffix)
	}
}

// GetValueForExactKey returns the value associated with key, if key was
// ever put and has not since been removed.
func (st *SuffixTree[V]) GetValueForExactKey(key string) (V, bool) {
	var zero V
	if !st.originals.Contains(key) {
		return zero, false
	}
	st.valuesMu.RLock()
	defer st.valuesMu.RUnlock()
	v, ok := st.values[key]
	return v, ok
}

// GetKeysEndingWith returns every original key ending with suffix. Per
// spec.md §9's open question, the empty-string query is special-cased to
// return no keys, even though GetKeysContaining("") returns all of them;
// the two cases are deliberately not unified. Otherwise it is an exact
// lookup of suffix in the internal tree: the originals set stored there
// names exactly the keys that have suffix as one of their suffixes.
func (st *SuffixTree[V]) GetKeysEndingWith(suffix string) []string {
	if suffix == "" {
		return nil
	}
	set, ok := st.tree.GetValueForExactKey([]byte(suffix))
	if !ok {
		return nil
	}
	keys := append([]string(nil), set.Values()...)
	sort.Strings(keys)
	return keys
}

// GetKeysContaining returns every original key containing substring as a
// substring. Every key containing substring has some suffix beginning
// with substring, so this unions the originals sets of the whole internal
// subtree under substring; the empty-string query returns every original
// key (spec.md §4.4, §9).
func (st *SuffixTree[V]) GetKeysContaining(substring string) []string {
	if substring == "" {
		keys := append([]string(nil), st.originals.Values()...)
		sort.Strings(keys)
		return keys
	}
	return st.collectSubtree(substring)
}

// collectSubtree unions the originals sets stored at every suffix-tree
// node reachable under prefix, which is exactly the set of original keys
// having some suffix starting with prefix.
func (st *SuffixTree[V]) collectSubtree(prefix string) []string {
	root := st.tree.Root()
	subtreeRoot, path := subtreeForPrefix(root, []byte(prefix))
	if subtreeRoot == nil {
		return nil
	}

	gen := newTraversalGen(subtreeRoot, path, nil)
	var sets []Set[string]
	for {
		pair, ok, err := gen()
		if err != nil || !ok {
			break
		}
		v, _ := pair.Node.Value()
		sets = append(sets, v)
	}
	return unionSets(sets)
}

// PrettyPrint renders the internal radix tree in the diagnostic ASCII
// form (spec.md §6), with each terminal's bracketed originals list in
// place of a raw value, e.g. "([BANANA, BANDANA])".
func (st *SuffixTree[V]) PrettyPrint() string {
	return PrettyPrint(st.tree.Root(), func(s Set[string]) string {
		vals := append([]string(nil), s.Values()...)
		sort.Strings(vals)
		return "[" + strings.Join(vals, ", ") + "]"
	})
}
