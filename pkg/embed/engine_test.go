package embed_test

import (
	"testing"

	"github.com/funvibe/typedfn"
	"github.com/funvibe/typedfn/pkg/embed"
)

func TestEngineDefineAndInvoke(t *testing.T) {
	e := embed.New()

	_, err := e.Define("add", map[string]typedfn.Fn{
		"number, number": func(args []any) (any, error) {
			return args[0].(float64) + args[1].(float64), nil
		},
		"string, string": func(args []any) (any, error) {
			return args[0].(string) + args[1].(string), nil
		},
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}

	got, err := e.Invoke("add", 1.0, 2.0)
	if err != nil {
		t.Fatalf("Invoke(1,2): %v", err)
	}
	if got != 3.0 {
		t.Errorf("Invoke(1,2) = %v, want 3", got)
	}

	got, err = e.Invoke("add", "a", "b")
	if err != nil {
		t.Fatalf("Invoke(a,b): %v", err)
	}
	if got != "ab" {
		t.Errorf("Invoke(a,b) = %v, want ab", got)
	}
}

func TestEngineCallableLookupMissing(t *testing.T) {
	e := embed.New()

	if _, err := e.Callable("nope"); err == nil {
		t.Fatal("expected error looking up an undefined callable")
	}
}

// TestEngineRegistryIsIndependent verifies that a custom type added to
// one Engine does not leak into another Engine's registry, confirming
// New() clones rather than shares the process-wide default.
func TestEngineRegistryIsIndependent(t *testing.T) {
	e1 := embed.New()
	e2 := embed.New()

	type widget struct{}

	if err := e1.AddType("widget", func(v any) bool {
		_, ok := v.(widget)
		return ok
	}); err != nil {
		t.Fatalf("AddType: %v", err)
	}

	if _, err := e1.Define("describe", map[string]typedfn.Fn{
		"widget": func(args []any) (any, error) { return "a widget", nil },
	}); err != nil {
		t.Fatalf("Define on e1: %v", err)
	}

	if _, err := e2.Define("describe", map[string]typedfn.Fn{
		"widget": func(args []any) (any, error) { return "a widget", nil },
	}); err == nil {
		t.Fatal("expected e2.Define to fail: \"widget\" type was never registered on e2")
	}
}

// TestEngineFastPathPrefixAppliesToDefine is a smoke test that
// SetFastPathPrefix doesn't break a subsequent Define; the assembler's
// internal fast-path specialization is exercised indirectly through a
// normal dispatch call.
func TestEngineFastPathPrefixAppliesToDefine(t *testing.T) {
	e := embed.New()
	e.SetFastPathPrefix(2)

	_, err := e.Define("greet", map[string]typedfn.Fn{
		"string": func(args []any) (any, error) { return "hi " + args[0].(string), nil },
	})
	if err != nil {
		t.Fatalf("Define: %v", err)
	}

	got, err := e.Invoke("greet", "Alice")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got != "hi Alice" {
		t.Errorf("Invoke(Alice) = %v, want %q", got, "hi Alice")
	}
}
