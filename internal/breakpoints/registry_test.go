package breakpoints

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAddFileAssignsStableIDs(t *testing.T) {
	r := New()
	id1, snap1 := r.AddFile("main.go", 10, "", "", "")
	require.Equal(t, uint32(1), id1)
	require.Len(t, snap1, 1)

	id2, snap2 := r.AddFile("main.go", 20, "x > 1", "", "")
	require.Equal(t, uint32(2), id2)
	require.Len(t, snap2, 2)
	require.Equal(t, 10, snap2[0].Line)
	require.Equal(t, 20, snap2[1].Line)
	require.True(t, snap2[0].Verified)
}

// TestReplaceAllAfterAddAddRemove is testable property 9: after
// add(file,10), add(file,20), remove(id_10), the remaining snapshot for
// file lists exactly [20].
func TestReplaceAllAfterAddAddRemove(t *testing.T) {
	r := New()
	id10, _ := r.AddFile("a.go", 10, "", "", "")
	_, _ = r.AddFile("a.go", 20, "", "", "")

	file, snapshot, ok := r.RemoveFile(id10)
	require.True(t, ok)
	require.Equal(t, "a.go", file)
	require.Len(t, snapshot, 1)
	require.Equal(t, 20, snapshot[0].Line)

	require.Equal(t, snapshot, r.FileSnapshot("a.go"))
}

func TestRemoveUnknownIDFails(t *testing.T) {
	r := New()
	_, _, ok := r.RemoveFile(999)
	require.False(t, ok)
	require.False(t, r.Remove(999))
}

func TestRemoveIsIdempotentAcrossKinds(t *testing.T) {
	r := New()
	fileID, _ := r.AddFile("a.go", 1, "", "", "")
	fnID, _ := r.AddFunction("main", "", "")
	instrID, _ := r.AddInstruction("0xDEAD", 0, "", "")
	dataID, _ := r.AddData("var1", "write", "", "")

	require.True(t, r.Remove(fileID))
	require.True(t, r.Remove(fnID))
	require.True(t, r.Remove(instrID))
	require.True(t, r.Remove(dataID))
	require.False(t, r.Remove(fileID))

	require.Empty(t, r.List())
}

func TestListConcatenatesAllKinds(t *testing.T) {
	r := New()
	r.AddFile("a.go", 5, "", "", "")
	r.AddFunction("Foo", "", "")
	r.AddInstruction("0x1", 0, "", "")
	r.AddData("d1", "readWrite", "", "")

	list := r.List()
	require.Len(t, list, 4)
}

func TestExceptionFiltersReplaceAll(t *testing.T) {
	r := New()
	r.SetExceptionFilters([]string{"uncaught"}, map[string]string{"uncaught": "x > 0"})
	filters, conditions := r.ExceptionFilters()
	require.Equal(t, []string{"uncaught"}, filters)
	require.Equal(t, "x > 0", conditions["uncaught"])

	r.SetExceptionFilters([]string{"all"}, nil)
	filters, conditions = r.ExceptionFilters()
	require.Equal(t, []string{"all"}, filters)
	require.Empty(t, conditions)
}

// TestReplaceAllPropertyAcrossRandomSequences is a rapid property check of
// testable property 9 generalized: after any sequence of add/remove
// operations against one file, the tracked snapshot always equals exactly
// the set of ids that were added and not subsequently removed, in
// insertion order.
func TestReplaceAllPropertyAcrossRandomSequences(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New()
		var liveLines []int
		var liveIDs []uint32

		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(liveIDs) == 0 || rapid.Bool().Draw(t, "add") {
				line := rapid.IntRange(1, 1000).Draw(t, "line")
				id, snap := r.AddFile("f.go", line, "", "", "")
				liveLines = append(liveLines, line)
				liveIDs = append(liveIDs, id)
				require.Len(t, snap, len(liveIDs))
			} else {
				idx := rapid.IntRange(0, len(liveIDs)-1).Draw(t, "removeIdx")
				id := liveIDs[idx]
				_, snap, ok := r.RemoveFile(id)
				require.True(t, ok)
				liveIDs = append(liveIDs[:idx], liveIDs[idx+1:]...)
				liveLines = append(liveLines[:idx], liveLines[idx+1:]...)
				require.Len(t, snap, len(liveIDs))
			}
		}

		final := r.FileSnapshot("f.go")
		require.Len(t, final, len(liveLines))
		for i, bp := range final {
			require.Equal(t, liveLines[i], bp.Line)
			require.Equal(t, liveIDs[i], bp.ID)
		}
	})
}
