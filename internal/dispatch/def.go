// Package dispatch implements the dispatch compiler's assembly
// pipeline: ordering, conversion expansion, test/conversion
// compilation, callable assembly, error diagnostics, and
// exact-signature lookup.
package dispatch

import (
	"github.com/funvibe/typedfn/internal/registry"
	"github.com/funvibe/typedfn/internal/signature"
)

// Fn is a user-supplied implementation. It receives the full,
// already-converted argument list (with trailing rest args gathered
// into a single slice value when the signature has a rest param) and
// returns the result.
type Fn func(args []any) (any, error)

// def is the internal compiled form of one signature.
type def struct {
	signature signature.Signature

	// test is the compiled per-argument-list predicate.
	test func(args []any) bool

	// fn is the implementation, possibly wrapped to rewrite args
	// (applying conversions) before calling the original user
	// function.
	fn Fn

	// preprocess gathers trailing args into a single rest argument.
	// Non-nil iff signature.RestParam is true.
	preprocess func(args []any) []any

	// fromConversion marks defs synthesized during conversion
	// expansion; these are excluded from the public Signatures map.
	fromConversion bool

	// original points at the def this one was expanded from, when
	// fromConversion is true. Nil otherwise.
	original *def
}

// paramTest is the compiled disjunction of a param's named predicates:
// it accepts a value iff at least one named type matches,
// short-circuiting to "always accept" when the param contains "any".
type paramTest func(value any) bool

// compileParamTest builds a paramTest for a signature param against
// an engine's type registry. Unknown type names are resolved lazily
// here, at compile time, rather than validated up front.
func compileParamTest(p signature.Param, eng *registry.Engine) (paramTest, error) {
	if p.Has(signature.AnyName) {
		return func(any) bool { return true }, nil
	}
	tests := make([]func(any) bool, 0, len(p))
	for name := range p {
		t, err := eng.FindTest(name)
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return func(v any) bool {
		for _, t := range tests {
			if t(v) {
				return true
			}
		}
		return false
	}, nil
}
