package dispatch

import (
	"github.com/funvibe/typedfn/internal/registry"
	"github.com/funvibe/typedfn/internal/signature"
)

// compileTest compiles a signature into a predicate over the full
// argument list.
func compileTest(sig signature.Signature, eng *registry.Engine) (func(args []any) bool, error) {
	n := len(sig.Params)

	if n == 0 {
		return func(args []any) bool { return len(args) == 0 }, nil
	}

	paramTests := make([]paramTest, n)
	for i, p := range sig.Params {
		pt, err := compileParamTest(p, eng)
		if err != nil {
			return nil, err
		}
		paramTests[i] = pt
	}

	if !sig.RestParam {
		return func(args []any) bool {
			if len(args) != n {
				return false
			}
			for i := 0; i < n; i++ {
				if !paramTests[i](args[i]) {
					return false
				}
			}
			return true
		}, nil
	}

	lastTest := paramTests[n-1]
	return func(args []any) bool {
		if len(args) < n-1 {
			return false
		}
		for i := 0; i < n-1; i++ {
			if !paramTests[i](args[i]) {
				return false
			}
		}
		for j := n - 1; j < len(args); j++ {
			if !lastTest(args[j]) {
				return false
			}
		}
		return true
	}, nil
}

// compilePreprocess builds the rest-parameter gatherer: it leaves the
// leading (non-rest) args untouched and collects every trailing arg
// into a single []any value appended as the final argument. Non-nil
// only for signatures with RestParam set.
func compilePreprocess(sig signature.Signature) func(args []any) []any {
	if !sig.RestParam {
		return nil
	}
	n := len(sig.Params)
	return func(args []any) []any {
		out := make([]any, 0, n)
		out = append(out, args[:n-1]...)
		rest := make([]any, len(args)-(n-1))
		copy(rest, args[n-1:])
		out = append(out, rest)
		return out
	}
}
