// Package demolib hosts a small fixed library of dispatched callables
// shared by cmd/typedfn (interactive shell) and cmd/typedfnd (gRPC
// daemon), so both entry points demonstrate the same dispatch
// behavior over their respective transports.
package demolib

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/funvibe/typedfn"
)

// Build assembles the demo callables: a numeric/string/rest-arity
// "add" multimethod and a type-discriminating "describe" multimethod,
// both built through the public typedfn API exactly as an embedding
// host would.
func Build() map[string]*typedfn.Callable {
	add, err := typedfn.NewNamed("add", map[string]typedfn.Fn{
		"number, number": func(args []any) (any, error) {
			return args[0].(float64) + args[1].(float64), nil
		},
		"string, string": func(args []any) (any, error) {
			return args[0].(string) + args[1].(string), nil
		},
		"...number": func(args []any) (any, error) {
			sum := 0.0
			for _, a := range args[0].([]any) {
				sum += a.(float64)
			}
			return sum, nil
		},
	})
	if err != nil {
		panic(fmt.Sprintf("demolib: %s", err))
	}

	describe, err := typedfn.NewNamed("describe", map[string]typedfn.Fn{
		"number": func(args []any) (any, error) {
			return fmt.Sprintf("a number: %s", humanize.Commaf(args[0].(float64))), nil
		},
		"string": func(args []any) (any, error) {
			return fmt.Sprintf("a %d-byte string", len(args[0].(string))), nil
		},
		"boolean": func(args []any) (any, error) {
			return fmt.Sprintf("boolean %v", args[0]), nil
		},
		"any": func(args []any) (any, error) {
			return "something else entirely", nil
		},
	})
	if err != nil {
		panic(fmt.Sprintf("demolib: %s", err))
	}

	return map[string]*typedfn.Callable{
		"add":      add,
		"describe": describe,
	}
}
