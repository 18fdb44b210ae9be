package radix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const s1PrettyPrint = `○
├── ○ A ([BANANA])
│   └── ○ NA ([BANANA])
│       └── ○ NA ([BANANA])
├── ○ BANANA ([BANANA])
└── ○ NA ([BANANA])
    └── ○ NA ([BANANA])`

const s2PrettyPrint = `○
├── ○ A ([BANANA, BANDANA])
│   └── ○ N
│       ├── ○ A ([BANANA, BANDANA])
│       │   └── ○ NA ([BANANA])
│       └── ○ DANA ([BANDANA])
├── ○ BAN
│   ├── ○ ANA ([BANANA])
│   └── ○ DANA ([BANDANA])
├── ○ DANA ([BANDANA])
└── ○ N
    ├── ○ A ([BANANA, BANDANA])
    │   └── ○ NA ([BANANA])
    └── ○ DANA ([BANDANA])`

const s4PrettyPrint = `○
├── ○ A ([BANDANA])
│   └── ○ N
│       ├── ○ A ([BANDANA])
│       └── ○ DANA ([BANDANA])
├── ○ BANDANA ([BANDANA])
├── ○ DANA ([BANDANA])
└── ○ N
    ├── ○ A ([BANDANA])
    └── ○ DANA ([BANDANA])`

// TestSuffixTreeS1SingleKey is the literal S1 golden scenario.
func TestSuffixTreeS1SingleKey(t *testing.T) {
	st := NewSuffixTree[int]()
	_, hadOld, err := st.Put("BANANA", 1)
	require.NoError(t, err)
	require.False(t, hadOld)

	require.Equal(t, s1PrettyPrint, st.PrettyPrint())
}

// TestSuffixTreeS2TwoKeys is the literal S2 golden scenario.
func TestSuffixTreeS2TwoKeys(t *testing.T) {
	st := NewSuffixTree[int]()
	st.Put("BANANA", 1)
	st.Put("BANDANA", 2)

	require.Equal(t, s2PrettyPrint, st.PrettyPrint())
}

// TestSuffixTreeS3RemoveSecondKey is the literal S3 golden scenario: from
// S2, removing BANDANA returns to S1's pretty-print and BANDANA becomes
// absent.
func TestSuffixTreeS3RemoveSecondKey(t *testing.T) {
	st := NewSuffixTree[int]()
	st.Put("BANANA", 1)
	st.Put("BANDANA", 2)

	removed := st.Remove("BANDANA")
	require.True(t, removed)

	require.Equal(t, s1PrettyPrint, st.PrettyPrint())

	_, ok := st.GetValueForExactKey("BANDANA")
	require.False(t, ok)
}

// TestSuffixTreeS4RemoveFirstKey is the literal S4 golden scenario.
func TestSuffixTreeS4RemoveFirstKey(t *testing.T) {
	st := NewSuffixTree[int]()
	st.Put("BANANA", 1)
	st.Put("BANDANA", 2)

	removed := st.Remove("BANANA")
	require.True(t, removed)

	require.Equal(t, s4PrettyPrint, st.PrettyPrint())
}

// TestSuffixTreeS5SubstringQueries is the literal S5 golden scenario.
func TestSuffixTreeS5SubstringQueries(t *testing.T) {
	st := NewSuffixTree[int]()
	st.Put("BANANA", 1)
	st.Put("BANDANA", 2)

	require.Equal(t, []string{"BANANA"}, st.GetKeysContaining("ANAN"))
	require.Equal(t, []string{"BANDANA"}, st.GetKeysContaining("DA"))
	require.Equal(t, []string{"BANANA", "BANDANA"}, st.GetKeysContaining("AN"))
	require.Equal(t, []string(nil), st.GetKeysContaining("APPLE"))
	require.Equal(t, []string{"BANANA", "BANDANA"}, st.GetKeysContaining(""))

	require.Equal(t, []string{"BANANA", "BANDANA"}, st.GetKeysEndingWith("ANA"))
	require.Equal(t, []string{"BANDANA"}, st.GetKeysEndingWith("DANA"))
	require.Equal(t, []string(nil), st.GetKeysEndingWith("BAN"))
	require.Equal(t, []string(nil), st.GetKeysEndingWith(""))
}

func TestSuffixTreePutDoesNotReindexOnExistingKey(t *testing.T) {
	st := NewSuffixTree[int]()
	st.Put("BANANA", 1)

	old, hadOld, err := st.Put("BANANA", 2)
	require.NoError(t, err)
	require.True(t, hadOld)
	require.Equal(t, 1, old)

	// Re-putting an already-indexed key must not disturb its suffix
	// entries: the pretty-print is unchanged apart from nothing, since the
	// originals list only ever names the key, not its value.
	require.Equal(t, s1PrettyPrint, st.PrettyPrint())

	v, ok := st.GetValueForExactKey("BANANA")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func TestSuffixTreePutEmptyKey(t *testing.T) {
	st := NewSuffixTree[int]()
	_, _, err := st.Put("", 1)
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestSuffixTreeRemoveAbsentKey(t *testing.T) {
	st := NewSuffixTree[int]()
	st.Put("BANANA", 1)
	require.False(t, st.Remove("BANDANA"))
}

func TestSuffixTreeGetKeysEndingWithProperty(t *testing.T) {
	st := NewSuffixTree[int]()
	keys := []string{"alpha", "beta", "gamma", "delta", "omega"}
	for i, k := range keys {
		st.Put(k, i)
	}

	for _, q := range []string{"a", "ta", "ega", "zzz"} {
		got := st.GetKeysEndingWith(q)
		var want []string
		for _, k := range keys {
			if len(k) >= len(q) && k[len(k)-len(q):] == q {
				want = append(want, k)
			}
		}
		requireSameSet(t, want, got)
	}
}

func TestSuffixTreeGetKeysContainingProperty(t *testing.T) {
	st := NewSuffixTree[int]()
	keys := []string{"alpha", "beta", "gamma", "delta", "omega"}
	for i, k := range keys {
		st.Put(k, i)
	}

	for _, q := range []string{"a", "am", "elt", "zzz"} {
		got := st.GetKeysContaining(q)
		var want []string
		for _, k := range keys {
			if containsSubstring(k, q) {
				want = append(want, k)
			}
		}
		requireSameSet(t, want, got)
	}
}

func containsSubstring(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func requireSameSet(t *testing.T, want, got []string) {
	t.Helper()
	wantSorted := append([]string(nil), want...)
	gotSorted := append([]string(nil), got...)
	require.ElementsMatch(t, wantSorted, gotSorted)
}
