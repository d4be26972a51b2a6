package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DisjointSnapshots(t *testing.T) {
	d := New([]string{"a", "b"}, []string{"c", "d"})

	assert.Len(t, d.Addition, 2)
	assert.Len(t, d.Removal, 2)
	assert.Contains(t, d.Addition, "c")
	assert.Contains(t, d.Addition, "d")
	assert.Contains(t, d.Removal, "a")
	assert.Contains(t, d.Removal, "b")
}

func TestNew_OverlapAppearsNowhere(t *testing.T) {
	d := New([]string{"a", "b", "c"}, []string{"b", "c", "d"})

	assert.NotContains(t, d.Addition, "b")
	assert.NotContains(t, d.Addition, "c")
	assert.NotContains(t, d.Removal, "b")
	assert.NotContains(t, d.Removal, "c")
	assert.Contains(t, d.Addition, "d")
	assert.Contains(t, d.Removal, "a")
}

func TestNew_AdditionAndRemovalAreDisjoint(t *testing.T) {
	d := New([]int{1, 2, 3, 4}, []int{3, 4, 5, 6})

	for v := range d.Addition {
		assert.NotContains(t, d.Removal, v)
	}
}

func TestNew_IdenticalSnapshotsAreEmpty(t *testing.T) {
	d := New([]int{1, 2, 3}, []int{3, 2, 1})

	assert.True(t, d.Empty())
}

func TestNew_OrderIrrelevant(t *testing.T) {
	a := New([]string{"x", "y"}, []string{"y", "z"})
	b := New([]string{"y", "x"}, []string{"z", "y"})

	assert.Equal(t, a, b)
}

func TestNew_DuplicatesCollapse(t *testing.T) {
	d := New([]string{"a", "a", "a"}, []string{"b", "b"})

	assert.Len(t, d.Addition, 1)
	assert.Len(t, d.Removal, 1)
}

func TestNew_EmptyOld_AllAdditions(t *testing.T) {
	d := New(nil, []int{1, 2})

	assert.Len(t, d.Addition, 2)
	assert.Empty(t, d.Removal)
}

func TestNew_EmptyNew_AllRemovals(t *testing.T) {
	d := New([]int{1, 2}, nil)

	assert.Empty(t, d.Addition)
	assert.Len(t, d.Removal, 2)
}

// Applying a diff to the old snapshot reproduces the new snapshot, which
// is the property the pull reconciler relies on.
func TestNew_ApplyReproducesNew(t *testing.T) {
	old := []string{"a", "b", "c"}
	new := []string{"b", "c", "d", "e"}

	d := New(old, new)

	result := make(map[string]struct{})
	for _, v := range old {
		result[v] = struct{}{}
	}

	for v := range d.Removal {
		delete(result, v)
	}

	for v := range d.Addition {
		result[v] = struct{}{}
	}

	want := make(map[string]struct{})
	for _, v := range new {
		want[v] = struct{}{}
	}

	assert.Equal(t, want, result)
}

func TestEmpty(t *testing.T) {
	assert.True(t, New([]int{}, []int{}).Empty())
	assert.False(t, New([]int{1}, []int{}).Empty())
	assert.False(t, New([]int{}, []int{1}).Empty())
}

// Value records with differing fields count as different elements.
func TestNew_StructValues(t *testing.T) {
	type record struct {
		ID    int
		Title string
	}

	old := []record{{1, "hello"}, {2, "world"}}
	new := []record{{1, "hello"}, {2, "world!"}}

	d := New(old, new)

	assert.Contains(t, d.Removal, record{2, "world"})
	assert.Contains(t, d.Addition, record{2, "world!"})
	assert.NotContains(t, d.Removal, record{1, "hello"})
}
