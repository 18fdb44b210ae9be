package radix

// walkOutcome classifies where a key's walk from the root stopped, per
// spec.md §4.2.
type walkOutcome int

const (
	// outcomeExactMatch: the whole key was consumed and it lands exactly
	// on nodeFound's incoming edge boundary.
	outcomeExactMatch walkOutcome = iota
	// outcomeKeyEndsMidEdge: the whole key was consumed but it stops
	// partway through nodeFound's incoming edge label.
	outcomeKeyEndsMidEdge
	// outcomeIncompleteCharactersInEdge: the key diverges from
	// nodeFound's edge label before either is exhausted.
	outcomeIncompleteCharactersInEdge
	// outcomeNoSubTree: nodeFound's edge label was fully consumed, the
	// key has unconsumed characters, and no child matches the next one.
	outcomeNoSubTree
	// outcomeMatchRoot: outcomeNoSubTree's degenerate form at the root.
	outcomeMatchRoot
)

// walkResult is the classification SearchWalk returns, per spec.md §4.2.
type walkResult[T any] struct {
	outcome                 walkOutcome
	nodeFound               *Node[T]
	charsMatched            int
	charsMatchedInNodeFound int
}

// searchWalk walks from root following child edges by first-byte match
// and shared prefix, stopping at the first divergence or at key
// exhaustion, and classifies the stop into one of the five outcomes in
// spec.md §4.2. It never mutates the tree; Put/PutIfAbsent/Remove run
// their own copy-on-write walk (see tree.go), and the Put/PutIfAbsent
// walk branches on these same outcomes.
func searchWalk[T any](root *Node[T], key []byte) walkResult[T] {
	n := root
	search := key
	matched := 0

	for {
		if len(search) == 0 {
			return walkResult[T]{
				outcome:                 outcomeExactMatch,
				nodeFound:               n,
				charsMatched:            matched,
				charsMatchedInNodeFound: len(n.prefix),
			}
		}

		_, child := n.getEdge(search[0])
		if child == nil {
			outcome := outcomeNoSubTree
			if n == root {
				outcome = outcomeMatchRoot
			}
			return walkResult[T]{
				outcome:                 outcome,
				nodeFound:               n,
				charsMatched:            matched,
				charsMatchedInNodeFound: len(n.prefix),
			}
		}

		common := longestCommonPrefix(search, child.prefix)
		switch {
		case common == len(child.prefix):
			// Edge fully consumed; keep walking from the child.
			search = search[common:]
			matched += common
			n = child
		case common == len(search):
			// Key exhausted partway through the child's edge.
			return walkResult[T]{
				outcome:                 outcomeKeyEndsMidEdge,
				nodeFound:               child,
				charsMatched:            matched + common,
				charsMatchedInNodeFound: common,
			}
		default:
			// Divergence before either the key or the edge ends.
			return walkResult[T]{
				outcome:                 outcomeIncompleteCharactersInEdge,
				nodeFound:               child,
				charsMatched:            matched + common,
				charsMatchedInNodeFound: common,
			}
		}
	}
}
