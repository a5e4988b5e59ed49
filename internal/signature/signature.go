// Package signature implements the structured Signature/Param data
// model, a textual signature parser, and the normalizer that strips
// ignored type names.
package signature

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/typedfn/internal/registry"
)

// Param is one positional slot of a Signature: an unordered, non-empty
// set of accepted type names.
type Param map[string]struct{}

// NewParam builds a Param from a list of type names, de-duplicating.
func NewParam(names ...string) Param {
	p := make(Param, len(names))
	for _, n := range names {
		p[n] = struct{}{}
	}
	return p
}

// Names returns the param's type names in the order given by order,
// preserving only the names present in the param. order is typically
// the pre-normalization token order, so canonical stringification
// preserves the post-normalization order of each param's types.
func (p Param) Names(order []string) []string {
	out := make([]string, 0, len(p))
	seen := make(map[string]struct{}, len(p))
	for _, n := range order {
		if _, ok := p[n]; !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// sortedNames returns Names in a deterministic, alphabetically sorted
// order; used when no explicit token order is tracked (e.g. for
// synthesized params produced during conversion expansion).
func (p Param) sortedNames() []string {
	out := make([]string, 0, len(p))
	for n := range p {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Has reports whether name is accepted by this param, directly or via
// the "any" catch-all.
func (p Param) Has(name string) bool {
	if _, ok := p[AnyName]; ok {
		return true
	}
	_, ok := p[name]
	return ok
}

// AnyName is the reserved sentinel type name accepting every value.
const AnyName = registry.AnyTypeName

// Signature is a parsed, normalized overload shape: an ordered list
// of Params plus a rest flag.
type Signature struct {
	Params []Param
	// order tracks each param's original token order, for canonical
	// stringification; len(order) == len(Params).
	order     [][]string
	RestParam bool
}

// Arity is the number of declared params, counting a rest param as
// one.
func (s Signature) Arity() int { return len(s.Params) }

// SyntaxError is raised by Parse on a malformed signature string: a
// "..." prefix on any token but the last.
type SyntaxError struct {
	Input string
	Pos   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid signature %q: \"...\" may only prefix the last parameter (token %d)", e.Input, e.Pos)
}

const restPrefix = "..."

// Parse turns a textual signature ("T1, T2|T3, ...T4") into a
// Signature. The empty string parses to a zero-arity signature.
func Parse(input string) (Signature, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Signature{}, nil
	}

	tokens := strings.Split(trimmed, ",")
	sig := Signature{
		Params: make([]Param, 0, len(tokens)),
		order:  make([][]string, 0, len(tokens)),
	}

	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		isRest := strings.HasPrefix(tok, restPrefix)
		if isRest {
			if i != len(tokens)-1 {
				return Signature{}, &SyntaxError{Input: input, Pos: i}
			}
			tok = strings.TrimSpace(strings.TrimPrefix(tok, restPrefix))
			sig.RestParam = true
		} else if strings.Contains(tok, restPrefix) {
			// "..." appearing anywhere but as a leading prefix is
			// still malformed on a non-last token.
			return Signature{}, &SyntaxError{Input: input, Pos: i}
		}

		if tok == "" {
			tok = AnyName
		}

		names := make([]string, 0, 1)
		param := make(Param)
		for _, piece := range strings.Split(tok, "|") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if _, dup := param[piece]; !dup {
				names = append(names, piece)
			}
			param[piece] = struct{}{}
		}

		sig.Params = append(sig.Params, param)
		sig.order = append(sig.order, names)
	}

	return sig, nil
}

// Normalize strips ignored type names from every param, then discards
// the signature entirely (silently — it is not an error) if any param
// becomes empty. ok is false when the signature was discarded.
func Normalize(sig Signature, eng *registry.Engine) (Signature, bool) {
	out := Signature{
		Params:    make([]Param, len(sig.Params)),
		order:     make([][]string, len(sig.Params)),
		RestParam: sig.RestParam,
	}
	for i, p := range sig.Params {
		np := make(Param, len(p))
		norder := make([]string, 0, len(sig.order[i]))
		for _, name := range sig.order[i] {
			if eng.Ignored(name) {
				continue
			}
			np[name] = struct{}{}
			norder = append(norder, name)
		}
		if len(np) == 0 {
			return Signature{}, false
		}
		out.Params[i] = np
		out.order[i] = norder
	}
	return out, true
}

// Canonical renders the normalized signature's canonical
// stringification: each param as "types.join("|")" (post-normalization
// token order preserved), joined by ",", with a leading "..." on a
// rest param's last entry.
func (s Signature) Canonical() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		var order []string
		if i < len(s.order) && s.order[i] != nil {
			order = s.order[i]
		} else {
			order = p.sortedNames()
		}
		names := p.Names(order)
		if len(names) == 0 {
			names = p.sortedNames()
		}
		parts[i] = strings.Join(names, "|")
	}
	if s.RestParam && len(parts) > 0 {
		parts[len(parts)-1] = restPrefix + parts[len(parts)-1]
	}
	return strings.Join(parts, ",")
}

// WithParam returns a copy of s with the param at index i replaced,
// and its token order extended with any newly added names (used
// during conversion expansion to keep Canonical stable for
// conversion-widened params built elsewhere).
func (s Signature) WithParam(i int, p Param, order []string) Signature {
	out := Signature{
		Params:    append([]Param(nil), s.Params...),
		order:     append([][]string(nil), s.order...),
		RestParam: s.RestParam,
	}
	out.Params[i] = p
	out.order[i] = order
	return out
}

// Order returns the tracked token order for param i (used by callers
// that need to extend it, e.g. conversion expansion).
func (s Signature) Order(i int) []string {
	if i < len(s.order) {
		return s.order[i]
	}
	return nil
}
