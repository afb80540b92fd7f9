package heap_test

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/ChloeMayhewELT/HeapStorageMacro/heap"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
	Tag  string
}

type list struct {
	value int
	next  heap.Box[*list]
}

// tree embeds its own type through boxes, which is only possible because
// Box has a fixed size.
type tree struct {
	value       int
	left, right heap.Box[tree]
	leaf        bool
}

func leaf(v int) tree {
	return tree{value: v, leaf: true}
}

func (t tree) sum() int {
	if t.leaf {
		return t.value
	}
	return t.value + t.left.Get().sum() + t.right.Get().sum()
}

func TestBoxScenario(t *testing.T) {
	require := require.New(t)

	b := heap.New(26)
	require.Equal(26, b.Get())
	b.Set(267)
	require.Equal(267, b.Get())
}

func TestBoxRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, v := range []int{0, 1, -1, 1 << 40} {
		require.Equal(v, heap.New(v).Get())
	}
	p := point{X: 1, Y: 2, Tag: "p"}
	require.Equal(p, heap.New(p).Get())
	s := []string{"a", "b"}
	require.Equal(s, heap.New(s).Get())

	tr := tree{value: 1, left: heap.New(leaf(2)), right: heap.New(leaf(3))}
	got := heap.New(tr).Get()
	require.Equal(6, got.sum())
	require.Equal(2, got.left.Get().value)
}

func TestBoxWriteThenRead(t *testing.T) {
	require := require.New(t)

	ib := heap.New(1)
	ib.Set(2)
	require.Equal(2, ib.Get())

	pb := heap.New(point{X: 1})
	pb.Set(point{X: 5, Tag: "new"})
	require.Equal(point{X: 5, Tag: "new"}, pb.Get())

	tb := heap.New(leaf(1))
	tb.Set(tree{value: 10, left: heap.New(leaf(1)), right: heap.New(leaf(2))})
	require.Equal(13, tb.Get().sum())
}

func TestBoxValueEquality(t *testing.T) {
	require := require.New(t)

	require.True(heap.Equal(heap.New(7), heap.New(7)))
	require.False(heap.Equal(heap.New(7), heap.New(8)))
	require.True(heap.Equal(heap.New(point{1, 2, "x"}), heap.New(point{1, 2, "x"})))

	require.True(heap.New(7).Equal(heap.New(7)))
	require.True(heap.New([]int{1, 2}).Equal(heap.New([]int{1, 2})))
	require.False(heap.New([]int{1, 2}).Equal(heap.New([]int{2, 1})))

	mk := func() tree {
		return tree{value: 1, left: heap.New(leaf(2)), right: heap.New(leaf(3))}
	}
	require.True(heap.New(mk()).Equal(heap.New(mk())))
	other := mk()
	other.right.Set(leaf(4))
	require.False(heap.New(mk()).Equal(heap.New(other)))

	byValue := func(a, b tree) bool { return a.sum() == b.sum() }
	require.True(heap.EqualFunc(heap.New(leaf(5)), heap.New(tree{value: 1, left: heap.New(leaf(2)), right: heap.New(leaf(2))}), byValue))

	calls := 0
	counting := func(a, b int) bool { calls++; return a == b }
	var z1, z2 heap.Box[int]
	shared := heap.New(3)
	require.True(heap.EqualFunc(z1, z2, counting))
	require.True(heap.EqualFunc(shared, shared, counting))
	require.Equal(0, calls)
	require.True(heap.EqualFunc(z1, heap.New(0), counting))
	require.Equal(1, calls)
}

func TestBoxIndependence(t *testing.T) {
	require := require.New(t)

	b1 := heap.New(point{X: 1})
	b2 := heap.New(point{X: 1})
	b1.Set(point{X: 2})
	require.Equal(point{X: 1}, b2.Get())

	// Copies behave like values too.
	orig := heap.New(3)
	cp := orig
	cp.Set(4)
	require.Equal(3, orig.Get())
	require.Equal(4, cp.Get())

	tr := tree{value: 1, left: heap.New(leaf(2)), right: heap.New(leaf(3))}
	tr2 := tr
	tr2.left.Set(leaf(20))
	require.Equal(6, tr.sum())
	require.Equal(24, tr2.sum())
}

func TestBoxZeroValue(t *testing.T) {
	require := require.New(t)

	var b heap.Box[point]
	require.Equal(point{}, b.Get())
	require.True(b.Equal(heap.New(point{})))
	require.Equal("{0 0 }", b.String())

	b.Set(point{Tag: "set"})
	require.Equal("set", b.Get().Tag)

	var l list
	require.Nil(l.next.Get())
}

func TestBoxUpdate(t *testing.T) {
	require := require.New(t)

	var zero heap.Box[int]
	zero.Update(func(v *int) { *v = 9 })
	require.Equal(9, zero.Get())

	b := heap.New(point{X: 1})
	b.Update(func(p *point) { p.Y = 2 })
	require.Equal(point{X: 1, Y: 2}, b.Get())

	// Copies stay independent of in-place edits.
	cp := b
	b.Update(func(p *point) { p.Tag = "b" })
	require.Equal("b", b.Get().Tag)
	require.Equal("", cp.Get().Tag)

	c := b.Clone()
	c.Update(func(p *point) { p.Tag = "c" })
	require.Equal("b", b.Get().Tag)
	require.Equal("c", c.Get().Tag)
}

func TestBoxEqualZeroChildren(t *testing.T) {
	require := require.New(t)

	// A zero child holds the zero tree, just like New(tree{}).
	bare := tree{value: 1}
	filled := tree{value: 1, left: heap.New(tree{}), right: heap.New(tree{})}
	require.True(bare.left.Equal(filled.left))
	require.True(heap.New(bare).Equal(heap.New(filled)))
	require.True(heap.New(filled).Equal(heap.New(bare)))
	type wrapped struct{ Tree heap.Box[tree] }
	require.True(cmp.Equal(wrapped{heap.New(bare)}, wrapped{heap.New(filled)}))

	deeper := tree{value: 1, left: heap.New(tree{left: heap.New(tree{})})}
	require.True(heap.New(bare).Equal(heap.New(deeper)))

	filled.left.Set(tree{value: 2})
	require.False(heap.New(bare).Equal(heap.New(filled)))
	require.False(cmp.Equal(wrapped{heap.New(bare)}, wrapped{heap.New(filled)}))
}

func TestDeepEqual(t *testing.T) {
	type holder struct {
		Name  string
		Kids  []heap.Box[tree]
		ByKey map[string]heap.Box[int]
		Any   any
		Next  *holder
	}
	mk := func() *holder {
		return &holder{
			Name:  "h",
			Kids:  []heap.Box[tree]{{}, heap.New(leaf(1))},
			ByKey: map[string]heap.Box[int]{"zero": {}},
			Any:   heap.Box[string]{},
		}
	}

	for _, tt := range []struct {
		name string
		edit func(h *holder)
		want bool
	}{
		{"same", func(h *holder) {}, true},
		{"zero box in slice", func(h *holder) { h.Kids[0] = heap.New(tree{}) }, true},
		{"zero box in map", func(h *holder) { h.ByKey["zero"] = heap.New(0) }, true},
		{"zero box in interface", func(h *holder) { h.Any = heap.New("") }, true},
		{"different leaf", func(h *holder) { h.Kids[1] = heap.New(leaf(2)) }, false},
		{"different map value", func(h *holder) { h.ByKey["zero"] = heap.New(1) }, false},
		{"missing map key", func(h *holder) { h.ByKey = map[string]heap.Box[int]{"other": {}} }, false},
		{"different dynamic type", func(h *holder) { h.Any = heap.Box[int]{} }, false},
		{"nil slice", func(h *holder) { h.Kids = nil }, false},
		{"name", func(h *holder) { h.Name = "x" }, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mk(), mk()
			tt.edit(b)
			require.Equal(t, tt.want, heap.DeepEqual(a, b))
			require.Equal(t, tt.want, heap.DeepEqual(b, a))
		})
	}

	// Cycles through plain pointers terminate.
	a, b := mk(), mk()
	a.Next, b.Next = a, b
	require.True(t, heap.DeepEqual(a, b))

	require.True(t, heap.DeepEqual(nil, nil))
	require.False(t, heap.DeepEqual(nil, 0))
	require.False(t, heap.DeepEqual(1, int64(1)))
}

func TestBoxFootprint(t *testing.T) {
	require := require.New(t)

	type big struct{ buf [4096]byte }
	require.Equal(unsafe.Sizeof(uintptr(0)), unsafe.Sizeof(heap.Box[big]{}))
	require.Equal(unsafe.Sizeof(heap.Box[int8]{}), unsafe.Sizeof(heap.Box[big]{}))
	require.Equal(unsafe.Sizeof(heap.Box[tree]{}), unsafe.Sizeof(heap.Box[big]{}))
}

func TestBoxCmpIntegration(t *testing.T) {
	type wrapper struct {
		Name string
		Val  heap.Box[point]
	}
	a := wrapper{Name: "a", Val: heap.New(point{X: 1})}
	b := wrapper{Name: "a", Val: heap.New(point{X: 1})}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("boxes holding equal values differ (-a +b):\n%s", diff)
	}
	b.Val.Set(point{X: 2})
	if cmp.Equal(a, b) {
		t.Error("boxes holding different values compare equal")
	}
}

type node struct {
	name string
	next heap.Box[node]
	last bool
}

func ExampleBox() {
	n := node{name: "a", next: heap.New(node{name: "b", last: true})}
	for cur := n; ; cur = cur.next.Get() {
		fmt.Println(cur.name)
		if cur.last {
			break
		}
	}
	// Output:
	// a
	// b
}
