/*
Package heap provides [Box], a single-slot container that stores its value
behind one pointer.

A struct cannot contain itself by value, since its size would be infinite.
Wrapping the recursive field in a Box gives it a fixed, pointer-sized
footprint:

	type Node struct {
		value int
		next  heap.Box[Node]
	}

Boxes keep value semantics. Copying a struct that contains a Box and then
calling Set on either copy never affects the other, and equality compares
the held values, never the pointers. The heapgen tool generates getter and
setter methods for boxed struct fields, so that from the outside they look
like plain fields.
*/
package heap

import "fmt"

// Box holds exactly one value of type T through one level of indirection.
//
// New is the regular constructor. The zero Box is usable and holds the zero
// value of T, so a Box is never observably empty.
//
// Box is not comparable with ==; use [Equal], [EqualFunc] or [Box.Equal].
// A Box is not safe for concurrent mutation.
type Box[T any] struct {
	_ [0]func() // disallow ==, which would compare identity

	p *T
}

// New returns a Box holding v.
func New[T any](v T) Box[T] {
	return Box[T]{p: &v}
}

// Get returns the held value.
func (b Box[T]) Get() T {
	if b.p == nil {
		var zero T
		return zero
	}
	return *b.p
}

// Set replaces the held value with v.
//
// The new value gets a fresh allocation, so copies of b made before the
// call keep observing the previous value.
func (b *Box[T]) Set(v T) {
	b.p = &v
}

// Update applies fn to a copy of the held value and stores the result.
// Copies of b keep observing the previous value.
func (b *Box[T]) Update(fn func(v *T)) {
	v := b.Get()
	fn(&v)
	b.Set(v)
}

// Clone returns a new Box holding a shallow copy of the held value.
func (b Box[T]) Clone() Box[T] {
	return New(b.Get())
}

// Equal reports whether b and o hold deeply equal values, as defined by
// [DeepEqual]. Two distinct boxes holding equal values are equal.
//
// For comparable T, the package-level [Equal] avoids reflection.
func (b Box[T]) Equal(o Box[T]) bool {
	return DeepEqual(b, o)
}

func (b Box[T]) String() string {
	return fmt.Sprint(b.Get())
}

// Equal reports whether a and b hold equal values according to ==.
func Equal[T comparable](a, b Box[T]) bool {
	return a.Get() == b.Get()
}

// EqualFunc reports whether a and b hold equal values according to eq.
//
// Boxes sharing storage, which includes two zero Boxes, are equal without
// calling eq. This ends the recursion when eq compares a recursive type
// field by field.
func EqualFunc[T any](a, b Box[T], eq func(x, y T) bool) bool {
	if a.p == b.p {
		return true
	}
	return eq(a.Get(), b.Get())
}
