// Package example holds recursive types built on [heap.Box], using the
// accessors heapgen writes for them.
package example

import "github.com/ChloeMayhewELT/HeapStorageMacro/heap"

//go:generate go run ../cmd/heapgen

// MyStruct keeps both of its values out of line.
type MyStruct struct {
	valueWithDefault heap.Box[int]
	value            heap.Box[int]
}

// NewMyStruct returns a MyStruct holding value. ValueWithDefault starts
// out as 26.
func NewMyStruct(value int) MyStruct {
	return MyStruct{
		valueWithDefault: heap.New(26),
		value:            heap.New(value),
	}
}
