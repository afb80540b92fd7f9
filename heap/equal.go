package heap

import (
	"reflect"
	"strings"
	"unsafe"
)

var (
	boxPkgPath = reflect.TypeFor[Box[int]]().PkgPath()
	boxSlot    = func() int {
		f, _ := reflect.TypeFor[Box[int]]().FieldByName("p")
		return f.Index[0]
	}()
)

func isBox(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.PkgPath() == boxPkgPath && strings.HasPrefix(t.Name(), "Box[")
}

// held returns the value a reflected Box holds. A zero Box holds the zero
// value of its element type.
func held(box reflect.Value) reflect.Value {
	p := box.Field(boxSlot)
	if p.IsNil() {
		return reflect.Zero(p.Type().Elem())
	}
	return p.Elem()
}

// DeepEqual is like [reflect.DeepEqual], except that boxes anywhere
// inside x and y are compared by the values they hold. A zero Box is
// deeply equal to one made with New of the zero value.
func DeepEqual(x, y any) bool {
	return deepEqual(reflect.ValueOf(x), reflect.ValueOf(y), map[visit]bool{})
}

// visit is a pair of references already being compared, which are
// assumed equal when seen again.
type visit struct {
	x, y unsafe.Pointer
	typ  reflect.Type
}

func deepEqual(x, y reflect.Value, visited map[visit]bool) bool {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	if x.Type() != y.Type() {
		return false
	}
	if isBox(x.Type()) {
		px, py := x.Field(boxSlot), y.Field(boxSlot)
		if px.UnsafePointer() == py.UnsafePointer() {
			return true
		}
		return deepEqual(held(x), held(y), visited)
	}

	switch x.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		if x.UnsafePointer() == y.UnsafePointer() && (x.Kind() != reflect.Slice || x.Len() == y.Len()) {
			return true
		}
		v := visit{x.UnsafePointer(), y.UnsafePointer(), x.Type()}
		if visited[v] {
			return true
		}
		visited[v] = true
	}

	switch x.Kind() {
	case reflect.Array, reflect.Slice:
		if x.Len() != y.Len() {
			return false
		}
		for i := range x.Len() {
			if !deepEqual(x.Index(i), y.Index(i), visited) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := range x.NumField() {
			if !deepEqual(x.Field(i), y.Field(i), visited) {
				return false
			}
		}
		return true
	case reflect.Map:
		if x.Len() != y.Len() {
			return false
		}
		iter := x.MapRange()
		for iter.Next() {
			yv := y.MapIndex(iter.Key())
			if !yv.IsValid() || !deepEqual(iter.Value(), yv, visited) {
				return false
			}
		}
		return true
	case reflect.Pointer:
		return deepEqual(x.Elem(), y.Elem(), visited)
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		return deepEqual(x.Elem(), y.Elem(), visited)
	case reflect.Func:
		return x.IsNil() && y.IsNil()
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	case reflect.Complex64, reflect.Complex128:
		return x.Complex() == y.Complex()
	case reflect.String:
		return x.String() == y.String()
	case reflect.Chan, reflect.UnsafePointer:
		return x.UnsafePointer() == y.UnsafePointer()
	}
	return false
}
