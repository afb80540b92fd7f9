/*
Package generator implements heapgen, which writes accessor methods for
struct fields of type [heap.Box].

Given

	type Tree struct {
		value       int
		left, right heap.Box[Tree]
	}

heapgen writes a file next to it containing

	func (t *Tree) Left() Tree     { return t.left.Get() }
	func (t *Tree) SetLeft(v Tree) { t.left.Set(v) }
	...

so the boxed fields read like plain values from the outside. Boxed fields
have to be unexported, as the accessors take their names. Accessor names
are derived from the field name and can be changed with a `heap:"Name"`
struct tag, `heap:",readonly"` to drop the setter, `heap:"-"` to skip
the field, or with rules in a heapgen.toml config file.

# Pipeline

Each element in the pipeline has a distinct sub-package or file. These are
glued together in [Run].
 1. [config]: Parse the heapgen.toml file governing each package directory
 2. [gomod]: Check that the module's go directive permits generics
 3. [loader]: Load and type-check the packages
 4. [Collect]: Find boxed fields in the type information and resolve
    accessor names (tags, then [rules], then defaults)
 5. [File.Generate]: Render the accessors through [genio.CodeBuilder]

[File.Graph] additionally renders which structs hold which as graphviz
DOT code, for debugging deeply recursive types.

[heap.Box]: https://pkg.go.dev/github.com/ChloeMayhewELT/HeapStorageMacro/heap#Box
*/
package generator
