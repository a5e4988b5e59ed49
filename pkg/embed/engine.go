// Package embed provides a small embeddable API over the dispatch
// engine for host programs that want to build and call typed
// dispatchers without going through the CLI or gRPC surface.
package embed

import (
	"fmt"

	"github.com/funvibe/typedfn"
	"github.com/funvibe/typedfn/internal/dispatch"
	"github.com/funvibe/typedfn/internal/registry"
)

// Engine wraps a registry.Engine plus a small directory of named
// compiled callables.
type Engine struct {
	reg        *registry.Engine
	callables  map[string]*typedfn.Callable
	fastPrefix int
}

// New creates a fresh Engine with its own independent type and
// conversion registry, seeded with the built-in default types.
func New() *Engine {
	e := &Engine{
		reg:       cloneEngine(registry.Default),
		callables: make(map[string]*typedfn.Callable),
	}
	return e
}

// cloneEngine copies a registry.Engine's types/conversions/ignore set
// into an independent instance, so callers of embed.New never mutate
// the process-wide registry.Default.
func cloneEngine(src *registry.Engine) *registry.Engine {
	dst := registry.New()
	dst.Types = append(dst.Types, src.Types...)
	dst.Conversions = append(dst.Conversions, src.Conversions...)
	for name := range src.Ignore {
		dst.AddIgnore(name)
	}
	return dst
}

// AddType registers a custom type predicate on this Engine's
// registry.
func (e *Engine) AddType(name string, test func(any) bool) error {
	return e.reg.AddType(registry.Type{Name: name, Test: test})
}

// AddConversion registers a custom conversion on this Engine's
// registry.
func (e *Engine) AddConversion(from, to string, convert func(any) any) error {
	return e.reg.AddConversion(registry.Conversion{From: from, To: to, Convert: convert})
}

// SetFastPathPrefix overrides the assembler's fast-path specialization
// depth for callables built after this call.
func (e *Engine) SetFastPathPrefix(n int) { e.fastPrefix = n }

// Define compiles and registers a named callable from a map of
// signature strings to implementations, bound to this Engine's own
// registry and fast-path setting rather than the process-wide
// Default.
func (e *Engine) Define(name string, signatures map[string]typedfn.Fn) (*typedfn.Callable, error) {
	opts := dispatch.Options{FastPathPrefix: e.fastPrefix}
	c, err := typedfn.NewWithEngine(name, signatures, e.reg, opts)
	if err != nil {
		return nil, err
	}
	e.callables[name] = c
	return c, nil
}

// Callable retrieves a previously Define-d callable by name.
func (e *Engine) Callable(name string) (*typedfn.Callable, error) {
	c, ok := e.callables[name]
	if !ok {
		return nil, fmt.Errorf("embed: no callable registered under name %q", name)
	}
	return c, nil
}

// Invoke is a convenience wrapper around Callable(name).Call(args...).
func (e *Engine) Invoke(name string, args ...any) (any, error) {
	c, err := e.Callable(name)
	if err != nil {
		return nil, err
	}
	return c.Call(args...)
}
