package example_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/ChloeMayhewELT/HeapStorageMacro/example"
	"github.com/ChloeMayhewELT/HeapStorageMacro/generator"
	"github.com/stretchr/testify/require"
)

func TestMyStruct(t *testing.T) {
	require := require.New(t)

	s := example.NewMyStruct(267)
	require.Equal(26, s.ValueWithDefault())
	require.Equal(267, s.Value())

	c := s
	c.SetValue(1)
	c.SetValueWithDefault(2)
	require.Equal(267, s.Value())
	require.Equal(26, s.ValueWithDefault())
	require.False(s.Equal(&c))

	c.SetValue(267)
	c.SetValueWithDefault(26)
	require.True(s.Equal(&c))

	var zero example.MyStruct
	require.Equal(0, zero.Value())
}

func TestList(t *testing.T) {
	require := require.New(t)

	l := example.List(1, 2, 3)
	require.Equal([]int{1, 2, 3}, l.Values())
	longer := l.Push(0)
	require.Equal([]int{0, 1, 2, 3}, longer.Values())
	require.Equal([]int{1, 2, 3}, l.Values())
	require.Equal([]int{3, 2, 1}, l.Reverse().Values())

	var empty example.Node
	require.True(empty.Empty())
	require.Nil(empty.Values())
	none := example.List()
	require.True(none.Equal(&empty))

	same := example.List(1, 2, 3)
	require.True(l.Equal(&same))
	require.False(l.Equal(&longer))
	require.False(l.Equal(nil))
}

func TestTree(t *testing.T) {
	require := require.New(t)

	var tr example.Tree
	for _, v := range []int{5, 3, 8, 1, 4, 8} {
		tr.Insert(v)
	}
	require.Equal(6, tr.Len())
	var got []int
	tr.Walk(func(v int) { got = append(got, v) })
	require.Equal([]int{1, 3, 4, 5, 8, 8}, got)

	// Children are values: changing a copy leaves the tree alone.
	left := tr.LeftChild()
	left.Insert(2)
	require.Equal(4, left.Len())
	require.Equal(6, tr.Len())

	var other example.Tree
	for _, v := range []int{5, 3, 8, 1, 4, 8} {
		other.Insert(v)
	}
	require.True(tr.Equal(&other))
	other.Insert(9)
	require.False(tr.Equal(&other))
}

func TestCountdown(t *testing.T) {
	require := require.New(t)

	require.Equal([]int{6, 5, 4, 3, 2, 1, 0}, example.Countdown(6).Values())
	require.Equal([]int{0}, example.Countdown(0).Values())

	a, b := example.Countdown(4), example.Countdown(4)
	require.True(a.Equal(&b))
	c := example.Countdown(2)
	require.False(a.Equal(&c))
}

func TestGeneratedFileHeader(t *testing.T) {
	src, err := os.ReadFile("example_heapgen.go")
	require.NoError(t, err)
	require.True(t, generator.IsGeneratedSource(src))
}

func ExampleNewMyStruct() {
	s := example.NewMyStruct(267)
	copied := s
	copied.SetValue(1)
	fmt.Println(s.ValueWithDefault(), s.Value(), copied.Value())
	// Output: 26 267 1
}

func ExampleTree() {
	var t example.Tree
	for _, v := range []int{4, 2, 6} {
		t.Insert(v)
	}
	left := t.LeftChild()
	fmt.Println(t.Len(), left.Len())
	// Output: 3 1
}
