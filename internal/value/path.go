package value

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"golang.org/x/xerrors"
)

type (
	// Step is one descent in a Path.
	Step struct {
		kind  stepKind
		name  string
		index int
	}

	// Path is an ordered list of steps resolved from the root of a value.
	Path []Step

	stepKind int
)

const (
	stepField stepKind = iota
	stepIndex
	stepTag
	stepAnyTag
)

// ErrShapeMismatch is returned whenever a value does not have the expected shape.
// It is recoverable: the caller skips the single fact it was extracting.
var ErrShapeMismatch = xerrors.New("shape mismatch")

// Key descends into a named composite by field name.
func Key(name string) Step {
	return Step{kind: stepField, name: name}
}

// Index descends into the i-th element of an unnamed composite, or the i-th field of a named one.
func Index(i int) Step {
	return Step{kind: stepIndex, index: i}
}

// Tag unwraps a variant whose tag equals name.
func Tag(name string) Step {
	return Step{kind: stepTag, name: name}
}

// AnyTag unwraps a variant regardless of its tag.
func AnyTag() Step {
	return Step{kind: stepAnyTag}
}

func (s Step) String() string {
	switch s.kind {
	case stepField:
		return "." + s.name
	case stepIndex:
		return fmt.Sprintf("[%d]", s.index)
	case stepTag:
		return "<" + s.name + ">"
	default:
		return "<*>"
	}
}

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, s := range p {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Resolve walks path from v. It stops at the first step that does not apply.
func Resolve(v *Value, path ...Step) (*Value, error) {
	current := v
	for i, step := range path {
		next, ok := step.apply(current)
		if !ok {
			return nil, xerrors.Errorf("cannot apply %v at step %d of %v to %v: %w", step, i, Path(path), describe(current), ErrShapeMismatch)
		}
		current = next
	}

	if current == nil {
		return nil, xerrors.Errorf("nil value at %v: %w", Path(path), ErrShapeMismatch)
	}

	return current, nil
}

// FirstOf tries each path in order and returns the first one that resolves.
func FirstOf(v *Value, paths ...Path) (*Value, error) {
	for _, path := range paths {
		if resolved, err := Resolve(v, path...); err == nil {
			return resolved, nil
		}
	}

	return nil, xerrors.Errorf("none of %d alternative paths resolved on %v: %w", len(paths), describe(v), ErrShapeMismatch)
}

func (s Step) apply(v *Value) (*Value, bool) {
	if v == nil {
		return nil, false
	}

	switch s.kind {
	case stepField:
		if v.kind != KindNamed {
			return nil, false
		}
		for _, f := range v.fields {
			if f.Name == s.name {
				return f.Value, f.Value != nil
			}
		}
		return nil, false

	case stepIndex:
		if s.index < 0 {
			return nil, false
		}
		switch v.kind {
		case KindUnnamed:
			if s.index >= len(v.items) {
				return nil, false
			}
			return v.items[s.index], v.items[s.index] != nil
		case KindNamed:
			if s.index >= len(v.fields) {
				return nil, false
			}
			return v.fields[s.index].Value, v.fields[s.index].Value != nil
		}
		return nil, false

	case stepTag:
		if v.kind != KindVariant || v.tag != s.name {
			return nil, false
		}
		return v.payload, true

	case stepAnyTag:
		if v.kind != KindVariant {
			return nil, false
		}
		return v.payload, true
	}

	return nil, false
}

func describe(v *Value) string {
	if v == nil {
		return "<nil>"
	}

	switch v.kind {
	case KindPrimitive:
		return v.primitive.kind.String()
	case KindVariant:
		return fmt.Sprintf("variant<%s>", v.tag)
	default:
		return fmt.Sprintf("%v(%d)", v.kind, v.Len())
	}
}

// AsUint64 reads an integer primitive that fits in 64 bits.
func AsUint64(v *Value) (uint64, error) {
	p, ok := v.Primitive()
	if !ok {
		return 0, xerrors.Errorf("expected integer, got %v: %w", describe(v), ErrShapeMismatch)
	}

	n, ok := p.Uint64()
	if !ok {
		return 0, xerrors.Errorf("expected unsigned 64-bit integer, got %v: %w", p.kind, ErrShapeMismatch)
	}
	return n, nil
}

// AsUint32 reads an integer primitive that fits in 32 bits.
func AsUint32(v *Value) (uint32, error) {
	n, err := AsUint64(v)
	if err != nil {
		return 0, err
	}
	if n > 1<<32-1 {
		return 0, xerrors.Errorf("value %d overflows u32: %w", n, ErrShapeMismatch)
	}
	return uint32(n), nil
}

// AsUint128 reads an unsigned integer primitive of any width up to 128 bits.
func AsUint128(v *Value) (*uint256.Int, error) {
	p, ok := v.Primitive()
	if !ok {
		return nil, xerrors.Errorf("expected integer, got %v: %w", describe(v), ErrShapeMismatch)
	}

	n, ok := p.Uint256()
	if !ok || n.BitLen() > 128 {
		return nil, xerrors.Errorf("expected unsigned 128-bit integer, got %v: %w", p.kind, ErrShapeMismatch)
	}
	return n, nil
}

func AsString(v *Value) (string, error) {
	p, ok := v.Primitive()
	if !ok {
		return "", xerrors.Errorf("expected string, got %v: %w", describe(v), ErrShapeMismatch)
	}

	s, ok := p.Str()
	if !ok {
		return "", xerrors.Errorf("expected string, got %v: %w", p.kind, ErrShapeMismatch)
	}
	return s, nil
}

func AsBool(v *Value) (bool, error) {
	p, ok := v.Primitive()
	if !ok {
		return false, xerrors.Errorf("expected bool, got %v: %w", describe(v), ErrShapeMismatch)
	}

	b, ok := p.Bool()
	if !ok {
		return false, xerrors.Errorf("expected bool, got %v: %w", p.kind, ErrShapeMismatch)
	}
	return b, nil
}

// UnwrapOption returns the payload of Some(x), nil for None, and v itself when it is not an option.
func UnwrapOption(v *Value) *Value {
	if v == nil || v.kind != KindVariant {
		return v
	}

	switch v.tag {
	case "Some":
		if v.payload.Len() == 1 {
			return v.payload.Children()[0]
		}
		return v.payload
	case "None":
		return nil
	default:
		return v
	}
}
