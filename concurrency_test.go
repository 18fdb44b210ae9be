package radix

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTreeConcurrentDisjointWritersAndReaders checks property 9: under the
// default lock-free-reads mode, N writer goroutines issuing disjoint-key
// puts and M reader goroutines issuing getValueForExactKey all complete
// without error, and every read observes either the correct value or
// absent. Grounded in the concurrent-access pattern used to exercise a
// router under load with many goroutines hammering the same structure.
func TestTreeConcurrentDisjointWritersAndReaders(t *testing.T) {
	const writers = 8
	const keysPerWriter = 200
	const readers = 8

	tr := New[int]()
	keys := make([]string, 0, writers*keysPerWriter)
	for w := 0; w < writers; w++ {
		for i := 0; i < keysPerWriter; i++ {
			keys = append(keys, fmt.Sprintf("writer%d-key%d", w, i))
		}
	}

	var wg sync.WaitGroup
	wg.Add(writers + readers)

	for w := 0; w < writers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < keysPerWriter; i++ {
				k := fmt.Sprintf("writer%d-key%d", w, i)
				_, _, err := tr.Put([]byte(k), w*keysPerWriter+i)
				require.NoError(t, err)
			}
		}()
	}

	stop := make(chan struct{})
	var readErrs int32
	for r := 0; r < readers; r++ {
		go func() {
			for {
				select {
				case <-stop:
					return
				default:
				}
				// keys[idx] is stored by its writer with value idx.
				for idx, k := range keys {
					if v, ok := tr.GetValueForExactKey([]byte(k)); ok && v != idx {
						atomic.AddInt32(&readErrs, 1)
					}
				}
			}
		}()
	}

	wg.Wait()
	close(stop)

	require.Zero(t, atomic.LoadInt32(&readErrs))
	for w := 0; w < writers; w++ {
		for i := 0; i < keysPerWriter; i++ {
			k := fmt.Sprintf("writer%d-key%d", w, i)
			v, ok := tr.GetValueForExactKey([]byte(k))
			require.True(t, ok)
			require.Equal(t, w*keysPerWriter+i, v)
		}
	}
}

// TestSuffixTreeConcurrentDisjointPuts exercises the same property against
// the suffix tree, where each suffix's originals set is created through
// the internal tree's PutIfAbsent, retried when another goroutine created
// it first, and otherwise updated in place.
func TestSuffixTreeConcurrentDisjointPuts(t *testing.T) {
	const writers = 8
	st := NewSuffixTree[int]()

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		w := w
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("concurrent-key-%d", w)
			_, _, err := st.Put(key, w)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	for w := 0; w < writers; w++ {
		key := fmt.Sprintf("concurrent-key-%d", w)
		v, ok := st.GetValueForExactKey(key)
		require.True(t, ok)
		require.Equal(t, w, v)
	}
}

func TestTreeConcurrentRestrictedMode(t *testing.T) {
	const writers = 8
	const keysPerWriter = 100

	tr := NewWithOptions[int](WithConcurrencyMode[int](RestrictedConcurrency))

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < keysPerWriter; i++ {
				k := fmt.Sprintf("writer%d-key%d", w, i)
				_, _, err := tr.Put([]byte(k), w*keysPerWriter+i)
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for w := 0; w < writers; w++ {
		for i := 0; i < keysPerWriter; i++ {
			k := fmt.Sprintf("writer%d-key%d", w, i)
			v, ok := tr.GetValueForExactKey([]byte(k))
			require.True(t, ok)
			require.Equal(t, w*keysPerWriter+i, v)
		}
	}
}
