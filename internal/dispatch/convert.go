package dispatch

import (
	"github.com/funvibe/typedfn/internal/registry"
	"github.com/funvibe/typedfn/internal/signature"
)

// candidateConversion is one conversion considered for a given
// param position, in conversion-registry insertion order.
type candidateConversion struct {
	from    string
	fromTst func(any) bool
	convert func(any) any
}

// candidatesForParam applies the per-param selection rule: include
// conversion c for param i iff c.To is accepted by the param, c.From
// is not already accepted by the param, and no conversion with the
// same From has already been selected for this param (first-win per
// source, preserving declared/registry priority).
func candidatesForParam(p signature.Param, eng *registry.Engine) ([]candidateConversion, error) {
	var out []candidateConversion
	seenFrom := make(map[string]struct{})
	for _, c := range eng.Conversions {
		if !p.Has(c.To) {
			continue
		}
		if p.Has(c.From) {
			continue
		}
		if _, dup := seenFrom[c.From]; dup {
			continue
		}
		test, err := eng.FindTest(c.From)
		if err != nil {
			return nil, err
		}
		seenFrom[c.From] = struct{}{}
		out = append(out, candidateConversion{from: c.From, fromTst: test, convert: c.Convert})
	}
	return out, nil
}

// expandOne computes per-param conversion candidates for a single def
// and, if at least one param has a candidate, returns a widened def
// whose test is recompiled against the union of original and
// convertible types, wrapping fn with a conversion-applying wrapper.
// ok is false when no param has any eligible conversion (no expansion
// produced).
func expandOne(d *def, eng *registry.Engine) (*def, bool, error) {
	n := len(d.signature.Params)
	perParam := make([][]candidateConversion, n)
	hasCandidate := false
	for i, p := range d.signature.Params {
		cs, err := candidatesForParam(p, eng)
		if err != nil {
			return nil, false, err
		}
		perParam[i] = cs
		if len(cs) > 0 {
			hasCandidate = true
		}
	}
	if !hasCandidate {
		return nil, false, nil
	}

	widened := d.signature
	widened.Params = append([]signature.Param(nil), d.signature.Params...)
	for i, cs := range perParam {
		if len(cs) == 0 {
			continue
		}
		np := make(signature.Param, len(d.signature.Params[i])+len(cs))
		order := append([]string(nil), widened.Order(i)...)
		for name := range d.signature.Params[i] {
			np[name] = struct{}{}
		}
		for _, c := range cs {
			if _, dup := np[c.from]; dup {
				continue
			}
			np[c.from] = struct{}{}
			order = append(order, c.from)
		}
		widened = widened.WithParam(i, np, order)
	}

	test, err := compileTest(widened, eng)
	if err != nil {
		return nil, false, err
	}

	wrappedFn := compileConversionWrapper(d.fn, perParam, widened.RestParam, n)

	expanded := &def{
		signature: widened,
		test:      test,
		// fn already gathers trailing args after converting each one
		// individually (compileConversionWrapper); Call must hand it
		// the raw, ungathered arg list, so no separate preprocess.
		fn:             wrappedFn,
		fromConversion: true,
		original:       d,
	}
	return expanded, true, nil
}

// compileConversionWrapper builds a wrapper that, for each arg
// position, tries the position's candidate conversions in declared
// order, substituting the first match's converted value; an arg
// already matching the original param passes through unchanged. Rest
// positions apply the last param's candidates to every trailing arg
// individually, before those trailing args are gathered into the
// single rest slice inner expects.
func compileConversionWrapper(inner Fn, perParam [][]candidateConversion, rest bool, n int) Fn {
	convertOne := func(cands []candidateConversion, v any) any {
		for _, c := range cands {
			if c.fromTst(v) {
				return c.convert(v)
			}
		}
		return v
	}

	return func(args []any) (any, error) {
		bound := n
		if rest {
			bound = n - 1
		}
		converted := make([]any, len(args))
		for i, a := range args {
			switch {
			case i < bound:
				converted[i] = convertOne(perParam[i], a)
			case rest:
				converted[i] = convertOne(perParam[n-1], a)
			default:
				converted[i] = a
			}
		}
		if !rest {
			return inner(converted)
		}

		out := make([]any, 0, n)
		out = append(out, converted[:bound]...)
		tail := make([]any, len(converted)-bound)
		copy(tail, converted[bound:])
		out = append(out, tail)
		return inner(out)
	}
}
