package generator

import (
	"fmt"
	"go/types"
	"strings"

	"github.com/ChloeMayhewELT/HeapStorageMacro/generator/genio"
)

// equalMethod reports whether typ has a method "Equal(T) bool" or
// "Equal(*T) bool", and whether its argument is a pointer.
func equalMethod(typ types.Type) (ptrArg, ok bool) {
	if _, isPtr := typ.Underlying().(*types.Pointer); isPtr {
		return false, false
	}
	obj, _, _ := types.LookupFieldOrMethod(typ, true, nil, "Equal")
	fn, isFunc := obj.(*types.Func)
	if !isFunc {
		return false, false
	}
	sig := fn.Signature()
	if sig.Params().Len() != 1 || sig.Results().Len() != 1 || sig.Variadic() {
		return false, false
	}
	if res, isBasic := sig.Results().At(0).Type().(*types.Basic); !isBasic || res.Kind() != types.Bool {
		return false, false
	}
	arg := sig.Params().At(0).Type()
	if types.Identical(arg, typ) {
		return false, true
	}
	if p, isPtr := arg.(*types.Pointer); isPtr && types.Identical(p.Elem(), typ) {
		return true, true
	}
	return false, false
}

type renderer struct {
	f    *File
	imps *importSet
	// structs getting a generated Equal, by name
	equal map[string]bool
}

func (r *renderer) typeString(t types.Type) string {
	return types.TypeString(t, r.imps.qualifier())
}

// hasEqual is like equalMethod, but also knows about Equal methods
// emitted in the same file.
func (r *renderer) hasEqual(t types.Type) (ptrArg, ok bool) {
	if named, isNamed := types.Unalias(t).(*types.Named); isNamed &&
		named.Obj().Pkg() == r.f.Pkg && r.equal[named.Obj().Name()] {
		return true, true
	}
	return equalMethod(t)
}

// fieldEqual returns an expression comparing field name of a and b.
func (r *renderer) fieldEqual(a, b, name string, typ types.Type) string {
	if elem, _, ok := boxElem(typ); ok {
		heapName := r.imps.name(r.f.heapPkg)
		if ptrArg, ok := r.hasEqual(elem); ok {
			amp := ""
			if ptrArg {
				amp = "&"
			}
			return fmt.Sprintf("%v.EqualFunc(%v.%v, %v.%v, func(a, b %v) bool { return a.Equal(%vb) })",
				heapName, a, name, b, name, r.typeString(elem), amp)
		}
		if types.Comparable(elem) {
			return fmt.Sprintf("%v.Equal(%v.%v, %v.%v)", heapName, a, name, b, name)
		}
		return fmt.Sprintf("%v.%v.Equal(%v.%v)", a, name, b, name)
	}
	if types.Comparable(typ) {
		return fmt.Sprintf("%v.%v == %v.%v", a, name, b, name)
	}
	if ptrArg, ok := r.hasEqual(typ); ok {
		amp := ""
		if ptrArg {
			amp = "&"
		}
		return fmt.Sprintf("%v.%v.Equal(%v%v.%v)", a, name, amp, b, name)
	}
	return fmt.Sprintf("%v.DeepEqual(%v.%v, %v.%v)", r.imps.name(r.f.heapPkg), a, name, b, name)
}

func (r *renderer) writeStruct(cb *genio.CodeBuilder, s *Struct) {
	for _, fld := range s.Fields {
		elem := r.typeString(fld.Elem)
		cb.Linef("")
		cb.Linef("// %v returns the value of the boxed field %v.", fld.Getter, fld.Name)
		cb.Block(fmt.Sprintf("func (%v *%v) %v() %v", s.Recv, s.Name, fld.Getter, elem), func() {
			cb.Linef("return %v.%v.Get()", s.Recv, fld.Name)
		})
		if fld.Setter == "" {
			continue
		}
		cb.Linef("")
		cb.Linef("// %v replaces the value of the boxed field %v.", fld.Setter, fld.Name)
		cb.Block(fmt.Sprintf("func (%v *%v) %v(v %v)", s.Recv, s.Name, fld.Setter, elem), func() {
			cb.Linef("%v.%v.Set(v)", s.Recv, fld.Name)
		})
	}

	if !s.Equal {
		return
	}
	var conds []string
	for field := range s.named.Underlying().(*types.Struct).Fields() {
		if field.Name() == "_" {
			continue
		}
		conds = append(conds, r.fieldEqual(s.Recv, "o", field.Name(), field.Type()))
	}
	cb.Linef("")
	cb.Linef("// Equal reports whether %v and o hold equal values, comparing boxed", s.Recv)
	cb.Linef("// fields by their contents.")
	cb.Block(fmt.Sprintf("func (%v *%v) Equal(o *%v) bool", s.Recv, s.Name, s.Name), func() {
		cb.Block(fmt.Sprintf("if %v == nil || o == nil", s.Recv), func() {
			cb.Linef("return %v == o", s.Recv)
		})
		if len(conds) == 0 {
			cb.Linef("return true")
			return
		}
		cb.Linef("return %v", strings.Join(conds, " &&\n\t\t"))
	})
}

// Generate renders the file as formatted Go source.
func (f *File) Generate() ([]byte, error) {
	r := &renderer{
		f:     f,
		imps:  newImportSet(f.Pkg),
		equal: map[string]bool{},
	}
	for _, s := range f.Structs {
		if s.Equal {
			r.equal[s.Name] = true
		}
	}

	var body genio.CodeBuilder
	for _, s := range f.Structs {
		r.writeStruct(&body, s)
	}

	var cb genio.CodeBuilder
	cb.Linef("%v", Header)
	cb.Linef("")
	if len(f.BuildTags) > 0 {
		cb.Linef("//go:build %v", strings.Join(f.BuildTags, " && "))
		cb.Linef("")
	}
	cb.Linef("package %v", f.Pkg.Name())
	cb.Linef("")
	r.imps.write(&cb)
	cb.Write(body.String())

	code, err := cb.FmtString()
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w\n%v", err, cb.String())
	}
	return []byte(code), nil
}
