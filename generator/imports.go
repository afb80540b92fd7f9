package generator

import (
	"fmt"
	"go/types"
	"slices"
	"strconv"

	"github.com/ChloeMayhewELT/HeapStorageMacro/generator/genio"
	"github.com/ChloeMayhewELT/HeapStorageMacro/gomod"
)

// importSet assigns unique names to the packages referenced by generated
// code.
type importSet struct {
	pkg    *types.Package // package the code is generated for
	names  map[string]string // package path to name
	byName map[string]string // name to package path
	order  []*types.Package
}

func newImportSet(pkg *types.Package) *importSet {
	return &importSet{
		pkg:    pkg,
		names:  map[string]string{},
		byName: map[string]string{},
	}
}

func (s *importSet) taken(name string) bool {
	if _, ok := s.byName[name]; ok {
		return true
	}
	return s.pkg.Scope().Lookup(name) != nil
}

// name returns the name p is referred to by, adding it to the set.
func (s *importSet) name(p *types.Package) string {
	if p == nil || p.Path() == s.pkg.Path() {
		return ""
	}
	if name, ok := s.names[p.Path()]; ok {
		return name
	}
	name := p.Name()
	for i := 2; s.taken(name); i++ {
		name = fmt.Sprintf("%v%v", p.Name(), i)
	}
	s.names[p.Path()] = name
	s.byName[name] = p.Path()
	s.order = append(s.order, p)
	return name
}

func (s *importSet) qualifier() types.Qualifier {
	return s.name
}

// write writes the import declaration, standard library first.
func (s *importSet) write(cb *genio.CodeBuilder) {
	if len(s.order) == 0 {
		return
	}
	pkgs := slices.Clone(s.order)
	slices.SortStableFunc(pkgs, func(a, b *types.Package) int {
		aStd, bStd := gomod.IsStd(a.Path()), gomod.IsStd(b.Path())
		switch {
		case aStd && !bStd:
			return -1
		case !aStd && bStd:
			return 1
		}
		if a.Path() < b.Path() {
			return -1
		} else if a.Path() > b.Path() {
			return 1
		}
		return 0
	})
	spec := func(p *types.Package) string {
		if name := s.names[p.Path()]; name != p.Name() {
			return name + " " + strconv.Quote(p.Path())
		}
		return strconv.Quote(p.Path())
	}
	if len(pkgs) == 1 {
		cb.Linef("import %v", spec(pkgs[0]))
		return
	}
	cb.Linef("import (")
	cb.Indent++
	for i, p := range pkgs {
		if i > 0 && gomod.IsStd(pkgs[i-1].Path()) && !gomod.IsStd(p.Path()) {
			cb.Linef("")
		}
		cb.Linef("%v", spec(p))
	}
	cb.Indent--
	cb.Linef(")")
}
