package registry

import (
	"reflect"

	"github.com/funvibe/funbit"
)

// Built-in type names.
const (
	NumberTypeName    = "number"
	StringTypeName    = "string"
	BooleanTypeName   = "boolean"
	NullTypeName      = "null"
	UndefinedTypeName = "undefined"
	ArrayTypeName     = "Array"
	FunctionTypeName  = "Function"
	BitstringTypeName = "Bitstring"
)

// Default is the process-wide shared Engine. Mutating it after
// callables have been built against it has no effect on those
// callables.
var Default = newDefaultEngine()

func newDefaultEngine() *Engine {
	e := New()

	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}

	must(e.AddType(Type{Name: NumberTypeName, Test: func(v any) bool {
		switch v.(type) {
		case int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	}}))
	must(e.AddType(Type{Name: StringTypeName, Test: func(v any) bool {
		_, ok := v.(string)
		return ok
	}}))
	must(e.AddType(Type{Name: BooleanTypeName, Test: func(v any) bool {
		_, ok := v.(bool)
		return ok
	}}))
	must(e.AddType(Type{Name: NullTypeName, Test: func(v any) bool {
		return v == nil
	}}))
	must(e.AddType(Type{Name: BitstringTypeName, Test: func(v any) bool {
		_, ok := v.(*funbit.BitString)
		return ok
	}}))
	must(e.AddType(Type{Name: ArrayTypeName, Test: func(v any) bool {
		if v == nil {
			return false
		}
		k := reflect.TypeOf(v).Kind()
		return k == reflect.Slice || k == reflect.Array
	}}))
	must(e.AddType(Type{Name: FunctionTypeName, Test: func(v any) bool {
		if v == nil {
			return false
		}
		return reflect.TypeOf(v).Kind() == reflect.Func
	}}))
	must(e.AddType(Type{Name: ObjectTypeName, Test: func(v any) bool {
		if v == nil {
			return false
		}
		k := reflect.TypeOf(v).Kind()
		return k == reflect.Map || k == reflect.Struct || k == reflect.Ptr
	}}))
	must(e.AddType(Type{Name: AnyTypeName, Test: func(v any) bool {
		return true
	}}))

	e.AddIgnore(UndefinedTypeName)

	return e
}
