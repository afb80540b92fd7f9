package generator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"maps"
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ChloeMayhewELT/HeapStorageMacro/config"
	"github.com/ChloeMayhewELT/HeapStorageMacro/config/rules"
	"github.com/ChloeMayhewELT/HeapStorageMacro/digraphutils"
	"github.com/hashicorp/go-multierror"
)

// HeapPkgPath is the import path of the package declaring Box.
const HeapPkgPath = "github.com/ChloeMayhewELT/HeapStorageMacro/heap"

// TagKey is the struct tag key read on boxed fields.
const TagKey = "heap"

// Header is the first line of every generated file.
const Header = "// Code generated by heapgen. DO NOT EDIT."

// Input is one type-checked package.
type Input struct {
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
}

// Field is a boxed struct field accessors are generated for.
type Field struct {
	Name   string
	Elem   types.Type // T in heap.Box[T]
	Getter string
	Setter string // empty if read-only
	Pos    token.Position
}

// Struct is a named struct type with at least one boxed field.
type Struct struct {
	Name string
	Recv string
	// Fields with accessors, in declaration order.
	Fields []*Field
	// Equal is true if an Equal method is generated for the struct.
	Equal bool
	// Recursive is true if the struct holds itself, through boxes or
	// value fields of other structs.
	Recursive bool

	named *types.Named
}

// File is the generated file of one package.
type File struct {
	Pkg       *types.Package
	Structs   []*Struct // sorted by name
	BuildTags []string

	heapPkg *types.Package
}

type fieldTag struct {
	skip     bool
	name     string
	readOnly bool
}

func parseTag(tag string) (fieldTag, error) {
	val, ok := reflect.StructTag(tag).Lookup(TagKey)
	if !ok {
		return fieldTag{}, nil
	}
	if val == "-" {
		return fieldTag{skip: true}, nil
	}
	name, opts, _ := strings.Cut(val, ",")
	res := fieldTag{name: name}
	if name != "" && !token.IsIdentifier(name) {
		return fieldTag{}, fmt.Errorf("invalid accessor name %q in tag", name)
	}
	for opt := range strings.SplitSeq(opts, ",") {
		switch opt {
		case "":
		case "readonly":
			res.readOnly = true
		default:
			return fieldTag{}, fmt.Errorf("unknown tag option %q", opt)
		}
	}
	return res, nil
}

// boxElem returns T if typ is heap.Box[T].
func boxElem(typ types.Type) (elem types.Type, heapPkg *types.Package, ok bool) {
	named, ok := types.Unalias(typ).(*types.Named)
	if !ok {
		return nil, nil, false
	}
	obj := named.Obj()
	if obj.Name() != "Box" || obj.Pkg() == nil || obj.Pkg().Path() != HeapPkgPath {
		return nil, nil, false
	}
	if named.TypeArgs().Len() != 1 {
		return nil, nil, false
	}
	return named.TypeArgs().At(0), obj.Pkg(), true
}

// isGenerated reports whether f is a generated file, and whether
// heapgen generated it.
func isGenerated(f *ast.File) (generated, byHeapgen bool) {
	if !ast.IsGenerated(f) {
		return false, false
	}
	for _, cg := range f.Comments {
		if cg.Pos() > f.Package {
			break
		}
		for _, c := range cg.List {
			if c.Text == Header {
				return true, true
			}
		}
	}
	return true, false
}

// IsGeneratedSource reports whether src was written by heapgen.
func IsGeneratedSource(src []byte) bool {
	return bytes.HasPrefix(src, []byte(Header+"\n"))
}

// receiverName picks the receiver name of generated methods: the one
// used by existing methods if consistent, else the lowercased first
// letter of the type name. Reserved names fall back to r, r2 and so on.
func receiverName(named *types.Named, isOwn func(types.Object) bool, reserved func(string) bool) string {
	name := ""
	for m := range named.Methods() {
		if isOwn(m) {
			continue
		}
		recv := m.Signature().Recv()
		if recv == nil || recv.Name() == "" || recv.Name() == "_" {
			continue
		}
		name = recv.Name()
		break
	}
	if name == "" {
		r, _ := utf8.DecodeRuneInString(named.Obj().Name())
		name = string(unicode.ToLower(r))
	}
	if !reserved(name) && token.IsIdentifier(name) {
		return name
	}
	name = "r"
	for i := 2; reserved(name); i++ {
		name = fmt.Sprintf("r%v", i)
	}
	return name
}

// Collect finds boxed struct fields in the package and resolves their
// accessor names.
//
// All problems found are returned together in a *multierror.Error.
func Collect(in *Input, conf *config.Config) (*File, error) {
	if conf == nil {
		conf = config.Default()
	}

	res := &File{
		Pkg:       in.Types,
		BuildTags: conf.BuildTags,
	}
	var resErr error
	addErr := func(pos token.Position, format string, args ...any) {
		resErr = multierror.Append(resErr, fmt.Errorf("%v: %v", pos, fmt.Sprintf(format, args...)))
	}

	heapgenFiles := map[string]bool{}
	var sources []*ast.File
	for _, f := range in.Files {
		generated, byHeapgen := isGenerated(f)
		if byHeapgen {
			heapgenFiles[in.Fset.Position(f.Package).Filename] = true
		}
		if !generated {
			sources = append(sources, f)
		}
	}
	// isOwn reports whether obj was declared in a file heapgen wrote.
	isOwn := func(obj types.Object) bool {
		return heapgenFiles[in.Fset.Position(obj.Pos()).Filename]
	}

	type pending struct {
		strct *Struct
		field *Field
		tag   fieldTag
	}
	var pendings []pending
	var accessors []rules.Accessor
	structsByName := map[string]*Struct{}

	for _, f := range sources {
		for _, decl := range f.Decls {
			decl, ok := decl.(*ast.GenDecl)
			if !ok || decl.Tok != token.TYPE {
				continue
			}
			for _, spec := range decl.Specs {
				spec := spec.(*ast.TypeSpec)
				obj, ok := in.Info.Defs[spec.Name].(*types.TypeName)
				if !ok || obj.IsAlias() {
					continue
				}
				named, ok := obj.Type().(*types.Named)
				if !ok {
					continue
				}
				struc, ok := named.Underlying().(*types.Struct)
				if !ok {
					continue
				}

				var strct *Struct
				for i := range struc.NumFields() {
					field := struc.Field(i)
					elem, heapPkg, ok := boxElem(field.Type())
					if !ok || field.Embedded() {
						continue
					}
					pos := in.Fset.Position(field.Pos())
					if named.TypeParams() != nil {
						addErr(pos, "%v.%v: boxed fields in generic types are not supported", obj.Name(), field.Name())
						continue
					}
					tag, err := parseTag(struc.Tag(i))
					if err != nil {
						addErr(pos, "%v.%v: %v", obj.Name(), field.Name(), err)
						continue
					}
					if tag.skip {
						continue
					}
					if field.Exported() {
						addErr(pos, "%v.%v: boxed field must be unexported, its accessors take its name", obj.Name(), field.Name())
						continue
					}
					if field.Name() == "_" {
						continue
					}
					res.heapPkg = heapPkg
					if strct == nil {
						strct = &Struct{Name: obj.Name(), named: named}
						structsByName[strct.Name] = strct
					}
					fld := &Field{Name: field.Name(), Elem: elem, Pos: pos}
					pendings = append(pendings, pending{strct: strct, field: fld, tag: tag})
					accessors = append(accessors, rules.Accessor{Struct: obj.Name(), Field: field.Name()})
				}
			}
		}
	}

	decisions, err := rules.Execute(conf, accessors)
	if err != nil {
		return nil, err
	}
	for _, p := range pendings {
		d := decisions[rules.Accessor{Struct: p.strct.Name, Field: p.field.Name}]
		if !d.Include {
			continue
		}
		p.field.Getter, p.field.Setter = d.Getter, d.Setter
		if p.tag.name != "" {
			p.field.Getter = p.tag.name
			if p.field.Setter != "" {
				p.field.Setter = rules.SetterFor(p.tag.name)
			}
		}
		if p.tag.readOnly {
			p.field.Setter = ""
		}
		p.strct.Fields = append(p.strct.Fields, p.field)
	}

	structs := slices.SortedFunc(maps.Values(structsByName), func(a, b *Struct) int {
		return byName(a.named, b.named)
	})
	for _, strct := range structs {
		struc := strct.named.Underlying().(*types.Struct)
		// Names a generated method must not take.
		taken := map[string]string{}
		for field := range struc.Fields() {
			taken[field.Name()] = "field"
		}
		for m := range strct.named.Methods() {
			if !isOwn(m) {
				taken[m.Name()] = "method"
			}
		}

		if conf.Equal && taken["Equal"] == "" {
			strct.Equal = true
			taken["Equal"] = "generated method"
		}
		for _, fld := range strct.Fields {
			for _, name := range []string{fld.Getter, fld.Setter} {
				if name == "" {
					continue
				}
				if !token.IsIdentifier(name) {
					addErr(fld.Pos, "%v.%v: invalid accessor name %q", strct.Name, fld.Name, name)
					continue
				}
				if what := taken[name]; what != "" {
					addErr(fld.Pos, "%v.%v: accessor %v collides with %v %v.%v", strct.Name, fld.Name, name, what, strct.Name, name)
					continue
				}
				taken[name] = "generated method"
			}
		}
	}

	// Receiver names must not shadow anything the method bodies refer
	// to, including the names imports get in the generated file.
	imps := newImportSet(in.Types)
	if res.heapPkg != nil {
		imps.name(res.heapPkg)
	}
	for _, strct := range structs {
		for field := range strct.named.Underlying().(*types.Struct).Fields() {
			if elem, _, ok := boxElem(field.Type()); ok {
				types.TypeString(elem, imps.qualifier())
			}
		}
	}
	reserved := func(name string) bool {
		switch name {
		case "v", "o", "a", "b":
			return true
		}
		return imps.taken(name)
	}
	var nameds []*types.Named
	for _, strct := range structs {
		nameds = append(nameds, strct.named)
	}
	recursive := digraphutils.Cyclic(nameds, structEdges(in.Types))
	for _, strct := range structs {
		if len(strct.Fields) == 0 && !strct.Equal {
			continue
		}
		strct.Recv = receiverName(strct.named, isOwn, reserved)
		strct.Recursive = recursive[strct.named]
		res.Structs = append(res.Structs, strct)
	}

	if resErr != nil {
		return nil, resErr
	}
	return res, nil
}
