package example

import "github.com/ChloeMayhewELT/HeapStorageMacro/heap"

// Node is an element of an immutable linked list. The zero Node is the
// empty list.
type Node struct {
	Value int
	more  bool
	next  heap.Box[Node] `heap:",readonly"`
}

// List returns a list holding vals in order.
func List(vals ...int) Node {
	var n Node
	for _, v := range vals {
		n = n.Push(v)
	}
	return n.Reverse()
}

// Push returns a list with v in front of n. n is left unchanged.
func (n Node) Push(v int) Node {
	return Node{Value: v, more: true, next: heap.New(n)}
}

// Empty reports whether n is the end of a list.
func (n Node) Empty() bool {
	return !n.more
}

// Reverse returns the list in reverse order.
func (n Node) Reverse() Node {
	var res Node
	for cur := n; !cur.Empty(); cur = cur.Next() {
		res = res.Push(cur.Value)
	}
	return res
}

// Values returns the elements of the list.
func (n Node) Values() []int {
	var res []int
	for cur := n; !cur.Empty(); cur = cur.Next() {
		res = append(res, cur.Value)
	}
	return res
}
