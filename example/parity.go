package example

import "github.com/ChloeMayhewELT/HeapStorageMacro/heap"

// Even and Odd alternate in a chain counting down to zero.
type Even struct {
	n    int
	next heap.Box[Odd]
}

type Odd struct {
	n    int
	next heap.Box[Even]
}

// Countdown returns the chain n, n-1, ..., 0. n must be even and not
// negative.
func Countdown(n int) Even {
	var e Even
	for i := 2; i <= n; i += 2 {
		var o Odd
		o.n = i - 1
		o.SetNext(e)
		e = Even{n: i}
		e.SetNext(o)
	}
	return e
}

// Values returns the numbers in the chain.
func (e Even) Values() []int {
	res := []int{e.n}
	for cur := e; cur.n > 0; {
		o := cur.Next()
		cur = o.Next()
		res = append(res, o.n, cur.n)
	}
	return res
}
