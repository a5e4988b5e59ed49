package dispatch

import (
	"fmt"

	"github.com/funvibe/typedfn/internal/registry"
	"github.com/funvibe/typedfn/internal/signature"
)

// NotTypedError is raised by Find when the callable was not built
// with a Signatures map at all (a typed-function contract violation,
// not merely a missing key).
type NotTypedError struct {
	Name string
}

func (e *NotTypedError) Error() string {
	return fmt.Sprintf("%s is not a typed function", e.Name)
}

// NotFoundError is raised by Find when the canonical key has no exact
// match in the callable's Signatures map.
type NotFoundError struct {
	Name string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s has no signature matching %q", e.Name, e.Key)
}

// Find does an exact-signature lookup on a compiled Callable. key is
// parsed and normalized exactly as a constructor's signature strings
// are, so spacing and ignored type names do not matter; the order of
// params and of the types within each union must match the declared
// signature. Find performs no fuzzy or conversion-aware matching
// beyond that.
func Find(c *Callable, key string) (Fn, error) {
	if c.Signatures == nil {
		return nil, &NotTypedError{Name: c.Name}
	}
	canon, err := canonicalize(key, c.engine)
	if err != nil {
		return nil, &NotFoundError{Name: c.Name, Key: key}
	}
	fn, ok := c.Signatures[canon]
	if !ok {
		return nil, &NotFoundError{Name: c.Name, Key: key}
	}
	return fn, nil
}

// canonicalize parses and normalizes a raw signature string the same
// way Compile does, returning its canonical stringification.
func canonicalize(raw string, eng *registry.Engine) (string, error) {
	sig, err := signature.Parse(raw)
	if err != nil {
		return "", err
	}
	norm, ok := signature.Normalize(sig, eng)
	if !ok {
		return "", fmt.Errorf("find: signature %q normalizes to nothing", raw)
	}
	return norm.Canonical(), nil
}
