package dispatch

import (
	"fmt"

	"github.com/funvibe/typedfn/internal/registry"
	"github.com/funvibe/typedfn/internal/signature"
)

// WrongTypeError is raised when the argument at Index has a type not
// accepted by any still-viable def at that position.
type WrongTypeError struct {
	Fn       string
	Index    int
	Actual   string
	Expected []string
	ReqID    string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("%s: wrong type for argument %d: got %s, expected one of %v", e.Fn, e.Index, e.Actual, e.Expected)
}

// TooFewArgsError is raised when the call's arity is below every
// surviving def's minimum arity.
type TooFewArgsError struct {
	Fn       string
	Index    int
	Expected []string
	ReqID    string
}

func (e *TooFewArgsError) Error() string {
	return fmt.Sprintf("%s: too few arguments: missing argument %d (expected one of %v)", e.Fn, e.Index, e.Expected)
}

// TooManyArgsError is raised when the call's arity exceeds every
// surviving def's maximum (non-rest) arity.
type TooManyArgsError struct {
	Fn             string
	Actual         int
	ExpectedLength int
	ReqID          string
}

func (e *TooManyArgsError) Error() string {
	return fmt.Sprintf("%s: too many arguments: got %d, expected at most %d", e.Fn, e.Actual, e.ExpectedLength)
}

// MismatchError is the fallback raised when narrowing succeeds (every
// position is individually plausible) but no single def's full
// predicate matched — an interior inconsistency expected to be rare.
type MismatchError struct {
	Fn     string
	Actual []string
	ReqID  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: no matching signature for argument types %v", e.Fn, e.Actual)
}

// candidate is the minimal view error classification needs of a def:
// its signature, for expected-param lookups and arity bounds.
type candidate struct {
	sig signature.Signature
}

// expectedParamAt returns the expected param at position i for a
// candidate def: sig.Params[i] if i < len(Params), else the rest param
// if present, else nil (no param — the def is too short to accept
// this position at all).
func expectedParamAt(sig signature.Signature, i int) (signature.Param, bool) {
	if i < len(sig.Params) {
		return sig.Params[i], true
	}
	if sig.RestParam && len(sig.Params) > 0 {
		return sig.Params[len(sig.Params)-1], true
	}
	return nil, false
}

// BuildError takes the call name, actual argument values, and the
// full def set, and classifies and describes why no def matched.
func BuildError(name string, args []any, defs []*def, eng *registry.Engine, reqID string) error {
	actualTypes := make([]string, len(args))
	for i, a := range args {
		t, err := eng.FindType(a)
		if err != nil {
			actualTypes[i] = "unknown"
			continue
		}
		actualTypes[i] = t
	}

	candidates := make([]candidate, 0, len(defs))
	for _, d := range defs {
		candidates = append(candidates, candidate{sig: d.signature})
	}

	for i, actual := range actualTypes {
		var applicable []candidate // candidates that still have a param at position i
		var viable []candidate
		var expectedUnion []string
		for _, c := range candidates {
			p, ok := expectedParamAt(c.sig, i)
			if !ok {
				// This def's (non-rest) arity is already exhausted at
				// position i: it is an arity fact, not a type
				// mismatch, so it neither narrows the candidate set
				// nor contributes to the expected-types union here —
				// it is handled by the arity classification below.
				continue
			}
			applicable = append(applicable, c)
			if p.Has(actual) {
				viable = append(viable, c)
			}
			expectedUnion = append(expectedUnion, namesOf(p)...)
		}
		if len(applicable) == 0 {
			// Every remaining candidate ran out of params at this
			// position (the call simply has too many arguments);
			// defer to the arity classification below instead of
			// reporting a type error.
			break
		}
		if len(viable) == 0 {
			return &WrongTypeError{
				Fn:       name,
				Index:    i,
				Actual:   actual,
				Expected: registry.SortedUnique(expectedUnion),
				ReqID:    reqID,
			}
		}
		candidates = viable
	}

	// All positions narrowed: classify by arity. A rest signature's
	// required minimum is its leading (non-rest) prefix length; its
	// maximum is treated as unbounded.
	minArity := -1
	maxArity := -1
	hasRest := false
	expectedUnion := make([]string, 0)
	for _, c := range candidates {
		required := c.sig.Arity()
		if c.sig.RestParam {
			hasRest = true
			required--
			if required < 0 {
				required = 0
			}
		} else if required > maxArity {
			maxArity = required
		}
		if minArity < 0 || required < minArity {
			minArity = required
		}
		if p, ok := expectedParamAt(c.sig, len(args)); ok {
			expectedUnion = append(expectedUnion, namesOf(p)...)
		}
	}
	if minArity < 0 {
		minArity = 0
	}

	if len(args) < minArity {
		return &TooFewArgsError{
			Fn:       name,
			Index:    len(args),
			Expected: registry.SortedUnique(expectedUnion),
			ReqID:    reqID,
		}
	}
	if !hasRest && maxArity >= 0 && len(args) > maxArity {
		return &TooManyArgsError{
			Fn:             name,
			Actual:         len(args),
			ExpectedLength: maxArity,
			ReqID:          reqID,
		}
	}

	return &MismatchError{Fn: name, Actual: actualTypes, ReqID: reqID}
}

func namesOf(p signature.Param) []string {
	out := make([]string, 0, len(p))
	for n := range p {
		out = append(out, n)
	}
	return out
}
