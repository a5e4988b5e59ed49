package dispatch

import (
	"github.com/funvibe/typedfn/internal/registry"
	"github.com/funvibe/typedfn/internal/signature"
)

// NoSignaturesError is raised by Compile when the input signatures
// map is empty.
type NoSignaturesError struct{}

func (e *NoSignaturesError) Error() string { return "no signatures provided" }

// Entry is one raw (signature string, implementation) pair handed to
// Compile, mirroring the public constructor's `signatures` map.
type Entry struct {
	Signature string
	Fn        Fn
}

// Options tunes the assembler; a zero Options uses the package
// defaults.
type Options struct {
	FastPathPrefix int
}

// sigFn pairs a normalized signature with its implementation so the
// two travel together through the ordering step.
type sigFn struct {
	sig signature.Signature
	fn  Fn
}

// Compile runs the full pipeline — parse, normalize, order, expand
// conversions, compile tests, assemble — and returns the assembled
// Callable.
func Compile(name string, entries []Entry, eng *registry.Engine, opts Options) (*Callable, error) {
	if len(entries) == 0 {
		return nil, &NoSignaturesError{}
	}

	pairs := make([]sigFn, 0, len(entries))
	for _, e := range entries {
		sig, err := signature.Parse(e.Signature)
		if err != nil {
			return nil, err
		}
		norm, ok := signature.Normalize(sig, eng)
		if !ok {
			// Normalizer rejected this entry; treat as "not provided".
			continue
		}
		pairs = append(pairs, sigFn{sig: norm, fn: e.Fn})
	}

	if len(pairs) == 0 {
		return nil, &NoSignaturesError{}
	}

	order(pairs, eng.TypeIndex())

	defs := make([]*def, 0, len(pairs))
	public := make(map[string]Fn, len(pairs))
	for _, pr := range pairs {
		test, err := compileTest(pr.sig, eng)
		if err != nil {
			return nil, err
		}
		d := &def{
			signature:  pr.sig,
			test:       test,
			fn:         pr.fn,
			preprocess: compilePreprocess(pr.sig),
		}
		defs = append(defs, d)
		public[pr.sig.Canonical()] = pr.fn
	}

	// Append a widened, conversion-aware twin after each original,
	// preserving "originals before their conversion-twins".
	expanded := make([]*def, len(defs), len(defs)*2)
	copy(expanded, defs)
	for _, d := range defs {
		ex, ok, err := expandOne(d, eng)
		if err != nil {
			return nil, err
		}
		if ok {
			expanded = append(expanded, ex)
		}
	}

	callable := build(name, expanded, public, eng, opts.FastPathPrefix)
	return callable, nil
}
