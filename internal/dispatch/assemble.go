package dispatch

import (
	"github.com/funvibe/typedfn/internal/registry"
	"github.com/funvibe/typedfn/internal/signature"
)

// DefaultFastPathPrefix is the number of leading arity-≤2, non-rest
// defs specialized into a direct sequence of checks before falling
// back to the generic linear scan. Kept as a tunable rather than a
// hardcoded six.
const DefaultFastPathPrefix = 6

// fastDef is one specialized entry of the fast path.
type fastDef struct {
	arity int
	t0    paramTest
	t1    paramTest
	fn    Fn
}

// Callable is the compiled, immutable dispatcher assembled from a
// sorted, expanded def list. It is safe for concurrent invocation from
// multiple goroutines: it holds no mutable state after build returns.
type Callable struct {
	Name string

	// Signatures maps each original (post-normalize, pre-expand)
	// signature's canonical stringification to its original Fn.
	// Conversion-expanded defs never appear here.
	Signatures map[string]Fn

	engine *registry.Engine
	fast   []fastDef
	rest   []*def // every def not specialized into the fast path, in order
	all    []*def // full def set, for the Error Builder
}

// build assembles a Callable from a sorted, expanded def list. defs
// must already reflect order + expansion (build itself performs no
// reordering).
func build(name string, defs []*def, originals map[string]Fn, eng *registry.Engine, fastPathPrefix int) *Callable {
	c := &Callable{
		Name:       name,
		Signatures: originals,
		engine:     eng,
		all:        defs,
	}

	if fastPathPrefix <= 0 {
		fastPathPrefix = DefaultFastPathPrefix
	}

	specialized := 0
	for i, d := range defs {
		if specialized < fastPathPrefix && i == specialized &&
			!d.signature.RestParam && d.signature.Arity() <= 2 {
			fd := fastDef{arity: d.signature.Arity(), fn: d.fn}
			pts, err := paramTestsFor(d.signature, eng)
			if err == nil {
				if len(pts) > 0 {
					fd.t0 = pts[0]
				}
				if len(pts) > 1 {
					fd.t1 = pts[1]
				}
				c.fast = append(c.fast, fd)
				specialized++
				continue
			}
		}
		c.rest = append(c.rest, d)
	}

	return c
}

// paramTestsFor recompiles the per-param predicates for a signature,
// used only to populate the fast path's direct checks (the def's own
// compiled test already covers the generic path).
func paramTestsFor(sig signature.Signature, eng *registry.Engine) ([]paramTest, error) {
	out := make([]paramTest, len(sig.Params))
	for i, p := range sig.Params {
		pt, err := compileParamTest(p, eng)
		if err != nil {
			return nil, err
		}
		out[i] = pt
	}
	return out, nil
}

// Call dispatches args against the compiled def set: fast path first,
// then the generic linear scan. On no match, it builds and returns a
// structured error describing why nothing matched.
func (c *Callable) Call(args []any, reqID string) (any, error) {
	n := len(args)

	for _, fd := range c.fast {
		if fd.arity != n {
			continue
		}
		switch n {
		case 0:
			return fd.fn(args)
		case 1:
			if fd.t0(args[0]) {
				return fd.fn(args)
			}
		case 2:
			if fd.t0(args[0]) && fd.t1(args[1]) {
				return fd.fn(args)
			}
		}
	}

	for _, d := range c.rest {
		if !d.test(args) {
			continue
		}
		callArgs := args
		if d.preprocess != nil {
			callArgs = d.preprocess(args)
		}
		return d.fn(callArgs)
	}

	return nil, BuildError(c.Name, args, c.all, c.engine, reqID)
}
