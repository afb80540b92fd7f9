package generator

import (
	"cmp"
	"go/types"
	"maps"
	"slices"

	"github.com/ChloeMayhewELT/HeapStorageMacro/digraphutils"
)

// structEdges returns the edges of the "holds a value of" graph between
// named struct types of pkg. A struct holds the struct types of its value
// fields and of its boxed fields' elements.
func structEdges(pkg *types.Package) func(*types.Named) []*types.Named {
	return func(n *types.Named) []*types.Named {
		st, ok := n.Underlying().(*types.Struct)
		if !ok {
			return nil
		}
		var res []*types.Named
		for field := range st.Fields() {
			typ := field.Type()
			if elem, _, ok := boxElem(typ); ok {
				typ = elem
			}
			t, ok := types.Unalias(typ).(*types.Named)
			if !ok || t.Obj().Pkg() != pkg || t.TypeArgs().Len() > 0 {
				continue
			}
			if _, ok := t.Underlying().(*types.Struct); ok && !slices.Contains(res, t) {
				res = append(res, t)
			}
		}
		return res
	}
}

func byName(a, b *types.Named) int {
	return cmp.Compare(a.Obj().Name(), b.Obj().Name())
}

// Graph returns graphviz DOT code showing which structs hold which, with
// recursive structs in bold.
func (f *File) Graph() []byte {
	var roots []*types.Named
	for _, s := range f.Structs {
		roots = append(roots, s.named)
	}
	edges := structEdges(f.Pkg)
	nodes := slices.SortedFunc(maps.Keys(digraphutils.Reachable(roots, edges)), byName)
	recursive := digraphutils.Cyclic(nodes, edges)
	return digraphutils.DOTCode(nodes, edges, f.Pkg.Path(),
		func(n *types.Named) string { return n.Obj().Name() },
		func(n *types.Named) string {
			if recursive[n] {
				return "style=bold"
			}
			return ""
		},
	)
}
