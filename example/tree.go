package example

import "github.com/ChloeMayhewELT/HeapStorageMacro/heap"

// Tree is a binary search tree of ints. The zero Tree is empty.
type Tree struct {
	value       int
	full        bool
	left, right heap.Box[Tree]
}

// Insert adds v to the tree. Duplicates go to the right.
func (t *Tree) Insert(v int) {
	if !t.full {
		t.value, t.full = v, true
		return
	}
	if v < t.value {
		child := t.LeftChild()
		child.Insert(v)
		t.SetLeftChild(child)
	} else {
		child := t.RightChild()
		child.Insert(v)
		t.SetRightChild(child)
	}
}

// Walk calls fn for each value in ascending order.
func (t *Tree) Walk(fn func(int)) {
	if !t.full {
		return
	}
	left, right := t.LeftChild(), t.RightChild()
	left.Walk(fn)
	fn(t.value)
	right.Walk(fn)
}

// Len returns the number of values in the tree.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(int) { n++ })
	return n
}
