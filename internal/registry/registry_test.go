package registry

import "testing"

func TestAddTypeFirstWins(t *testing.T) {
	e := New()
	if err := e.AddType(Type{Name: "number", Test: func(v any) bool { return true }}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.AddType(Type{Name: "number", Test: func(v any) bool { return false }}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	test, err := e.FindTest("number")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !test(42) {
		t.Errorf("expected first registered predicate for %q to win", "number")
	}
}

func TestAddTypeValidation(t *testing.T) {
	e := New()
	if err := e.AddType(Type{Name: "", Test: func(any) bool { return true }}); err == nil {
		t.Errorf("expected error for empty name")
	}
	if err := e.AddType(Type{Name: "x"}); err == nil {
		t.Errorf("expected error for nil test")
	}
}

func TestFindTestUnknownTypeHint(t *testing.T) {
	e := New()
	_ = e.AddType(Type{Name: "number", Test: func(any) bool { return false }})
	_, err := e.FindTest("numbr")
	if err == nil {
		t.Fatalf("expected UnknownTypeError")
	}
	ute, ok := err.(*UnknownTypeError)
	if !ok {
		t.Fatalf("expected *UnknownTypeError, got %T", err)
	}
	if ute.Hint != "number" {
		t.Errorf("hint = %q, want %q", ute.Hint, "number")
	}
}

func TestFindType(t *testing.T) {
	e := New()
	_ = e.AddType(Type{Name: "number", Test: func(v any) bool { _, ok := v.(int); return ok }})
	_ = e.AddType(Type{Name: "any", Test: func(any) bool { return true }})

	name, err := e.FindType(42)
	if err != nil || name != "number" {
		t.Errorf("FindType(42) = %q, %v; want number, nil", name, err)
	}

	name, err = e.FindType("x")
	if err != nil || name != "any" {
		t.Errorf("FindType(\"x\") = %q, %v; want any, nil", name, err)
	}
}

func TestFindTypeNoMatch(t *testing.T) {
	e := New()
	_ = e.AddType(Type{Name: "number", Test: func(v any) bool { _, ok := v.(int); return ok }})
	if _, err := e.FindType("x"); err == nil {
		t.Errorf("expected UnknownValueTypeError")
	}
}

func TestConvertIdempotent(t *testing.T) {
	e := New()
	_ = e.AddType(Type{Name: "number", Test: func(v any) bool { _, ok := v.(int); return ok }})
	_ = e.AddType(Type{Name: "boolean", Test: func(v any) bool { _, ok := v.(bool); return ok }})
	calls := 0
	_ = e.AddConversion(Conversion{From: "boolean", To: "number", Convert: func(v any) any {
		calls++
		if v.(bool) {
			return 1
		}
		return 0
	}})

	// Already a number: Convert must never invoke the converter.
	v, err := e.Convert(5, "number")
	if err != nil || v != 5 {
		t.Fatalf("Convert(5, number) = %v, %v", v, err)
	}
	if calls != 0 {
		t.Errorf("convert invoked %d times for an already-matching value, want 0", calls)
	}

	v, err = e.Convert(true, "number")
	if err != nil || v != 1 {
		t.Fatalf("Convert(true, number) = %v, %v", v, err)
	}
	if calls != 1 {
		t.Errorf("convert invoked %d times, want 1", calls)
	}
}

func TestConvertNoConversion(t *testing.T) {
	e := New()
	_ = e.AddType(Type{Name: "number", Test: func(v any) bool { _, ok := v.(int); return ok }})
	_ = e.AddType(Type{Name: "string", Test: func(v any) bool { _, ok := v.(string); return ok }})
	if _, err := e.Convert("x", "number"); err == nil {
		t.Errorf("expected NoConversionError")
	}
}

func TestTypeIndexSentinels(t *testing.T) {
	e := New()
	_ = e.AddType(Type{Name: "number", Test: func(any) bool { return false }})
	_ = e.AddType(Type{Name: "string", Test: func(any) bool { return false }})
	idx := e.TypeIndex()
	if idx["number"] != 0 || idx["string"] != 1 {
		t.Fatalf("unexpected base indices: %v", idx)
	}
	if idx[ObjectTypeName] != 2 {
		t.Errorf("Object index = %d, want 2", idx[ObjectTypeName])
	}
	if idx[AnyTypeName] != 3 {
		t.Errorf("any index = %d, want 3", idx[AnyTypeName])
	}
}

func TestDefaultEngineHasAnyCatchAll(t *testing.T) {
	name, err := Default.FindType(make(chan int))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != AnyTypeName {
		t.Errorf("FindType(chan) = %q, want %q for a value no other built-in type recognizes", name, AnyTypeName)
	}
}
