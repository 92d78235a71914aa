// Package luafn builds stage functions from Lua source held in the
// descriptor. Each definition evaluates to a Lua function; every resolution
// gets its own sandboxed interpreter, closed by the runner after the call.
package luafn

import (
	"context"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/flarebyte/scribe/internal/resolver"
)

// ABIVersion is the calling convention Lua functions are written against.
// Definitions may pin it with a semver constraint in "requires".
const ABIVersion = "1.1.0"

const source = "lua"

// Definition is one inline function from the descriptor.
type Definition struct {
	ID       string
	Role     resolver.Role
	Sig      resolver.Signature
	Inline   string
	Requires string
}

// Annotatable is implemented by document units a Lua post-processor can write to.
type Annotatable interface {
	SetAnnotation(v any)
}

// Register checks each definition compiles to a function and adds a
// constructor for it to reg.
func Register(reg *resolver.Registry, defs []Definition, sb Sandbox) error {
	for _, def := range defs {
		if err := checkRequires(def); err != nil {
			return err
		}
		if err := probe(def, sb); err != nil {
			return err
		}
		def := def
		d := resolver.Descriptor{ID: def.ID, Sig: def.Sig, Source: source}
		var err error
		switch def.Role {
		case resolver.RoleExtractor:
			err = reg.RegisterExtractor(d, func() (resolver.Extractor, error) { return newFunction(def, sb) })
		case resolver.RoleAnnotator:
			err = reg.RegisterAnnotator(d, func() (resolver.Annotator, error) { return newFunction(def, sb) })
		case resolver.RolePostProcessor:
			err = reg.RegisterPostProcessor(d, func() (resolver.PostProcessor, error) { return newFunction(def, sb) })
		default:
			err = errors.Newf("function %q: unknown role %q", def.ID, def.Role)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func checkRequires(def Definition) error {
	if def.Requires == "" {
		return nil
	}
	c, err := semver.NewConstraint(def.Requires)
	if err != nil {
		return errors.Wrapf(err, "function %q: invalid requires %q", def.ID, def.Requires)
	}
	if !c.Check(semver.MustParse(ABIVersion)) {
		return errors.Newf("function %q requires %s, but ABI is %s", def.ID, def.Requires, ABIVersion)
	}
	return nil
}

func probe(def Definition, sb Sandbox) error {
	f, err := newFunction(def, sb)
	if err != nil {
		return err
	}
	return f.Close()
}

// Function is a compiled Lua function bound to its own interpreter. It
// implements all three stage roles; the registry decides which one is used.
type Function struct {
	id string
	sb Sandbox
	L  *lua.LState
	fn *lua.LFunction
}

func newFunction(def Definition, sb Sandbox) (*Function, error) {
	L := newSandboxState(def.ID, sb)
	chunk, err := L.LoadString(def.Inline)
	if err != nil {
		L.Close()
		return nil, errors.Wrapf(err, "function %q", def.ID)
	}
	L.Push(chunk)
	if err := L.PCall(0, 1, nil); err != nil {
		L.Close()
		return nil, errors.Wrapf(err, "function %q", def.ID)
	}
	ret := L.Get(-1)
	L.Pop(1)
	fn, ok := ret.(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, errors.Newf("function %q: inline must return function, got %s", def.ID, ret.Type())
	}
	return &Function{id: def.ID, sb: sb, L: L, fn: fn}, nil
}

// Close releases the interpreter.
func (f *Function) Close() error {
	f.L.Close()
	return nil
}

func (f *Function) call(ctx context.Context, args ...any) (any, error) {
	if f.sb.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(f.sb.TimeoutMs)*time.Millisecond)
		defer cancel()
	}
	f.L.SetContext(ctx)
	defer f.L.RemoveContext()

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = toLValue(f.L, a)
	}
	if err := f.L.CallByParam(lua.P{Fn: f.fn, NRet: 1, Protect: true}, largs...); err != nil {
		switch {
		case isTimeoutError(err):
			return nil, errors.Newf("function %q: %s", f.id, violationTimeout)
		case isMemoryError(err):
			return nil, errors.Newf("function %q: %s", f.id, violationMemory)
		}
		return nil, errors.Wrapf(err, "function %q", f.id)
	}
	ret := f.L.Get(-1)
	f.L.Pop(1)
	out := fromLValue(ret)
	if f.sb.MemoryLimitBytes > 0 && estimateValueSize(out, 0) > f.sb.MemoryLimitBytes {
		return nil, errors.Newf("function %q: %s", f.id, violationMemory)
	}
	return out, nil
}

// Extract calls fn(doc, ctx).
func (f *Function) Extract(ctx context.Context, unit any, pctx any) (any, error) {
	return f.call(ctx, unit, pctx)
}

// Annotate calls fn(input).
func (f *Function) Annotate(ctx context.Context, input any) (any, error) {
	return f.call(ctx, input)
}

// Post calls fn(doc, result, input) and stores a non-nil return value as the
// unit's annotation.
func (f *Function) Post(ctx context.Context, unit any, result any, input any) error {
	v, err := f.call(ctx, unit, result, input)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	a, ok := unit.(Annotatable)
	if !ok {
		return errors.Newf("function %q: cannot write annotation to %T", f.id, unit)
	}
	a.SetAnnotation(v)
	return nil
}
