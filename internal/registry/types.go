// Package registry implements the process-wide Type and Conversion
// registries (components A and B): an ordered sequence of named type
// predicates and an ordered sequence of declared conversions.
//
// Registries are append-only. Mutating a registry after a callable has
// been compiled against it has no effect on that callable — compiled
// defs close over the predicates and converters they were built with.
package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Type is a named runtime type predicate. Identity is Name; order of
// insertion in an Engine's Types slice is significant — lower index
// means more specific for the purposes of specificity ordering.
type Type struct {
	Name string
	Test func(value any) bool
}

// Conversion declares how to turn a value of type From into type To.
// Conversions are applied exactly as written; there is no transitive
// closure over chains of conversions.
type Conversion struct {
	From    string
	To      string
	Convert func(value any) any
}

// ObjectTypeName and AnyTypeName are the two reserved sentinels
// conceptually appended at the end of the type order.
const (
	ObjectTypeName = "Object"
	AnyTypeName    = "any"
)

// InvalidArgumentError is raised by Engine.AddType and
// Engine.AddConversion when the supplied value is malformed.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// UnknownTypeError is raised by FindTest when a type name is not
// registered. It carries a "did you mean?" hint computed from the
// existing registry names.
type UnknownTypeError struct {
	Name string
	Hint string
}

func (e *UnknownTypeError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("unknown type: %q", e.Name)
	}
	return fmt.Sprintf("unknown type: %q (did you mean %q?)", e.Name, e.Hint)
}

// UnknownValueTypeError is raised by FindType when no registered
// predicate (including the built-in "any" catch-all) matches a value.
// This is defensive: a correctly configured Engine always has an
// "any" type whose predicate accepts everything.
type UnknownValueTypeError struct {
	Value any
}

func (e *UnknownValueTypeError) Error() string {
	return fmt.Sprintf("no registered type matches value %#v", e.Value)
}

// NoConversionError is raised by Engine.Convert when no registered
// conversion maps from the value's type to the requested target.
type NoConversionError struct {
	From string
	To   string
}

func (e *NoConversionError) Error() string {
	return fmt.Sprintf("no conversion from %q to %q", e.From, e.To)
}

// Engine owns an independent set of registries. The package-level
// Default is the well-known shared instance; most callers never need
// to create their own.
type Engine struct {
	Types       []Type
	Conversions []Conversion
	Ignore      map[string]struct{}
}

// New creates an empty Engine with no registered types or conversions.
func New() *Engine {
	return &Engine{Ignore: make(map[string]struct{})}
}

// AddType validates and appends a Type. Duplicate names are allowed;
// the first registered wins on lookup (FindTest, FindType) — this is
// intentional and pinned by tests, not an oversight.
func (e *Engine) AddType(t Type) error {
	if t.Name == "" {
		return &InvalidArgumentError{Reason: "type name must not be empty"}
	}
	if t.Test == nil {
		return &InvalidArgumentError{Reason: fmt.Sprintf("type %q has no test function", t.Name)}
	}
	e.Types = append(e.Types, t)
	return nil
}

// AddConversion validates and appends a Conversion. Declared priority
// is insertion order.
func (e *Engine) AddConversion(c Conversion) error {
	if c.From == "" || c.To == "" {
		return &InvalidArgumentError{Reason: "conversion must specify both from and to"}
	}
	if c.Convert == nil {
		return &InvalidArgumentError{Reason: fmt.Sprintf("conversion %s->%s has no convert function", c.From, c.To)}
	}
	e.Conversions = append(e.Conversions, c)
	return nil
}

// Ignored reports whether name is in the engine's ignore set.
func (e *Engine) Ignored(name string) bool {
	_, ok := e.Ignore[name]
	return ok
}

// AddIgnore marks a type name to be stripped from params during
// signature normalization.
func (e *Engine) AddIgnore(name string) {
	if e.Ignore == nil {
		e.Ignore = make(map[string]struct{})
	}
	e.Ignore[name] = struct{}{}
}

// FindTest returns the predicate registered under name, or an
// UnknownTypeError carrying a case-insensitive did-you-mean hint.
func (e *Engine) FindTest(name string) (func(any) bool, error) {
	for _, t := range e.Types {
		if t.Name == name {
			return t.Test, nil
		}
	}
	return nil, &UnknownTypeError{Name: name, Hint: e.suggestName(name)}
}

// HasType reports whether name is registered.
func (e *Engine) HasType(name string) bool {
	for _, t := range e.Types {
		if t.Name == name {
			return true
		}
	}
	return false
}

// FindType returns the name of the first registered predicate that
// matches value, in registry order.
func (e *Engine) FindType(value any) (string, error) {
	for _, t := range e.Types {
		if t.Test(value) {
			return t.Name, nil
		}
	}
	return "", &UnknownValueTypeError{Value: value}
}

// Convert converts value to targetType. If the value already has
// targetType, it is returned unchanged and Convert is never invoked.
// Otherwise the first registered conversion with matching From/To is
// applied.
func (e *Engine) Convert(value any, targetType string) (any, error) {
	actual, err := e.FindType(value)
	if err != nil {
		return nil, err
	}
	if actual == targetType {
		return value, nil
	}
	for _, c := range e.Conversions {
		if c.From == actual && c.To == targetType {
			return c.Convert(value), nil
		}
	}
	return nil, &NoConversionError{From: actual, To: targetType}
}

// suggestName returns the closest existing type name to name (case
// insensitive prefix / substring / subsequence match, so a name with
// dropped letters such as "numbr" still finds "number"), or "" if
// nothing is close.
func (e *Engine) suggestName(name string) string {
	lower := strings.ToLower(name)
	isSubsequence := func(short, long string) bool {
		j := 0
		for i := 0; i < len(long) && j < len(short); i++ {
			if long[i] == short[j] {
				j++
			}
		}
		return j == len(short)
	}
	best := ""
	bestScore := -1
	for _, t := range e.Types {
		tl := strings.ToLower(t.Name)
		score := -1
		switch {
		case tl == lower:
			score = 100
		case strings.HasPrefix(tl, lower) || strings.HasPrefix(lower, tl):
			score = 50
		case strings.Contains(tl, lower) || strings.Contains(lower, tl):
			score = 10
		case isSubsequence(lower, tl) || isSubsequence(tl, lower):
			score = 5
		}
		if score > bestScore {
			bestScore = score
			best = t.Name
		}
	}
	if bestScore < 0 {
		return ""
	}
	return best
}

// TypeIndex builds the name -> specificity-order map used when
// ordering signatures: registered types keep their registry index,
// Object sorts just after the last registered type, and any sorts
// last of all.
func (e *Engine) TypeIndex() map[string]int {
	idx := make(map[string]int, len(e.Types)+2)
	for i, t := range e.Types {
		if _, exists := idx[t.Name]; !exists {
			idx[t.Name] = i
		}
	}
	n := len(e.Types)
	idx[ObjectTypeName] = n
	idx[AnyTypeName] = n + 1
	return idx
}

// Names returns the registered type names in registry order, for
// diagnostics and tests.
func (e *Engine) Names() []string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = t.Name
	}
	return names
}

// sortedUnique is a small shared helper used by the dispatch package
// when rendering deterministic "expected types" error messages.
func sortedUnique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SortedUnique exposes sortedUnique to other packages in this module.
func SortedUnique(names []string) []string { return sortedUnique(names) }
