// Package typedfn is the public surface of the multiple-dispatch
// engine: given a map of textual signatures to implementations, it
// compiles a single Callable that dispatches on the runtime types of
// its arguments.
package typedfn

import (
	"fmt"
	"strings"

	"github.com/funvibe/typedfn/internal/dispatch"
	"github.com/funvibe/typedfn/internal/registry"
	"github.com/google/uuid"
)

// Fn is a user-supplied implementation, re-exported from the
// dispatch package so callers never need to import internal/dispatch
// directly.
type Fn = dispatch.Fn

// Callable is the compiled, immutable dispatcher returned by New,
// NewNamed, and Merge.
type Callable struct {
	inner *dispatch.Callable
}

// Name is the callable's inferred or declared name.
func (c *Callable) Name() string { return c.inner.Name }

// Signatures exposes the canonical-signature-string -> original-Fn
// map. Conversion-expanded defs are never included.
func (c *Callable) Signatures() map[string]Fn {
	out := make(map[string]Fn, len(c.inner.Signatures))
	for k, v := range c.inner.Signatures {
		out[k] = v
	}
	return out
}

// Call dispatches args against the compiled signature set. A fresh
// correlation ID is attached to any returned dispatch error so hosts
// can thread it through their own logs.
func (c *Callable) Call(args ...any) (any, error) {
	reqID := uuid.NewString()
	return c.inner.Call(args, reqID)
}

// Find does an exact signature lookup, accepting either a signature
// string or a slice of type names; either form is parsed and
// normalized the same way a constructor's signatures are before the
// lookup, so spacing doesn't matter; param order and the order of
// types within a union must match the declared signature.
func (c *Callable) Find(sig any) (Fn, error) {
	key, err := rawKey(sig)
	if err != nil {
		return nil, err
	}
	return dispatch.Find(c.inner, key)
}

func rawKey(sig any) (string, error) {
	switch v := sig.(type) {
	case string:
		return v, nil
	case []string:
		return strings.Join(v, ","), nil
	default:
		return "", fmt.Errorf("find: signature must be a string or []string, got %T", sig)
	}
}

// DuplicateSignatureError is raised by Merge when two inputs bind a
// different Fn to the same canonical signature.
type DuplicateSignatureError struct {
	Signature string
}

func (e *DuplicateSignatureError) Error() string {
	return fmt.Sprintf("duplicate signature %q bound to two different implementations during merge", e.Signature)
}

// NameMismatchError is raised by Merge when two inputs disagree on
// Name.
type NameMismatchError struct {
	First, Second string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("cannot merge callables with different names: %q vs %q", e.First, e.Second)
}

// NotTypedError mirrors dispatch.NotTypedError for callers that only
// import the public package.
type NotTypedError = dispatch.NotTypedError

// New builds an unnamed callable from a map of signature strings to
// implementations, using the Default registry engine. The callable's
// name is always empty: New does not infer a name from the
// implementations (use NewNamed to set one).
func New(signatures map[string]Fn) (*Callable, error) {
	return build("", signatures, registry.Default, dispatch.Options{})
}

// NewNamed builds a named callable from a map of signature strings to
// implementations.
func NewNamed(name string, signatures map[string]Fn) (*Callable, error) {
	return build(name, signatures, registry.Default, dispatch.Options{})
}

// NewWithEngine is like NewNamed but compiles against a caller-owned
// registry.Engine instead of the process-wide Default.
func NewWithEngine(name string, signatures map[string]Fn, eng *registry.Engine, opts dispatch.Options) (*Callable, error) {
	return build(name, signatures, eng, opts)
}

func build(name string, signatures map[string]Fn, eng *registry.Engine, opts dispatch.Options) (*Callable, error) {
	entries := make([]dispatch.Entry, 0, len(signatures))
	for sig, fn := range signatures {
		entries = append(entries, dispatch.Entry{Signature: sig, Fn: fn})
	}
	c, err := dispatch.Compile(name, entries, eng, opts)
	if err != nil {
		return nil, err
	}
	return &Callable{inner: c}, nil
}

// Merge combines the Signatures of multiple already-compiled
// callables into one. A duplicate canonical key bound to a different
// Fn fails with DuplicateSignatureError; same Fn is allowed.
// Disagreeing names fail with NameMismatchError.
func Merge(fns ...*Callable) (*Callable, error) {
	if len(fns) == 0 {
		return nil, &dispatch.NoSignaturesError{}
	}

	merged := make(map[string]Fn)
	name := fns[0].Name()
	for _, c := range fns {
		if c.Name() != name {
			return nil, &NameMismatchError{First: name, Second: c.Name()}
		}
		for sig, fn := range c.inner.Signatures {
			if existing, ok := merged[sig]; ok {
				if !sameFn(existing, fn) {
					return nil, &DuplicateSignatureError{Signature: sig}
				}
				continue
			}
			merged[sig] = fn
		}
	}

	return build(name, merged, registry.Default, dispatch.Options{})
}

// sameFn compares two Fn values for identity. Go function values are
// not comparable with ==, so we compare via reflection on the
// underlying code pointer — sufficient to detect "the same closure".
func sameFn(a, b Fn) bool {
	return fnPointer(a) == fnPointer(b)
}
