// Package value implements the generic decoded-value tree that every extractor reads.
// A Value is one of a primitive scalar, a named composite, an unnamed composite or a variant.
// Values are immutable once constructed.
package value

import (
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/xerrors"
)

type (
	Kind          int
	PrimitiveKind int

	Value struct {
		kind      Kind
		primitive Primitive
		fields    []Field
		items     []*Value
		tag       string
		payload   *Value
	}

	Field struct {
		Name  string
		Value *Value
	}

	Primitive struct {
		kind PrimitiveKind
		u    uint256.Int
		i    int64
		b    bool
		s    string
		raw  []byte
	}
)

const (
	KindPrimitive Kind = iota
	KindNamed
	KindUnnamed
	KindVariant
)

const (
	U8 PrimitiveKind = iota
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	Bool
	Str
	Bytes
)

var (
	ErrDuplicateField = xerrors.New("duplicate field name")

	kindNames = map[Kind]string{
		KindPrimitive: "primitive",
		KindNamed:     "named",
		KindUnnamed:   "unnamed",
		KindVariant:   "variant",
	}

	primitiveKindNames = map[PrimitiveKind]string{
		U8: "u8", U16: "u16", U32: "u32", U64: "u64", U128: "u128",
		I8: "i8", I16: "i16", I32: "i32", I64: "i64",
		Bool: "bool", Str: "str", Bytes: "bytes",
	}
)

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k PrimitiveKind) String() string {
	if name, ok := primitiveKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("primitive(%d)", int(k))
}

func newUnsigned(kind PrimitiveKind, v uint64) *Value {
	p := Primitive{kind: kind}
	p.u.SetUint64(v)
	return &Value{kind: KindPrimitive, primitive: p}
}

func newSigned(kind PrimitiveKind, v int64) *Value {
	return &Value{kind: KindPrimitive, primitive: Primitive{kind: kind, i: v}}
}

func NewU8(v uint8) *Value   { return newUnsigned(U8, uint64(v)) }
func NewU16(v uint16) *Value { return newUnsigned(U16, uint64(v)) }
func NewU32(v uint32) *Value { return newUnsigned(U32, uint64(v)) }
func NewU64(v uint64) *Value { return newUnsigned(U64, v) }

// NewU128 copies v. Values wider than 128 bits are truncated.
func NewU128(v *uint256.Int) *Value {
	p := Primitive{kind: U128}
	if v != nil {
		p.u.Set(v)
		p.u[2], p.u[3] = 0, 0
	}
	return &Value{kind: KindPrimitive, primitive: p}
}

func NewI8(v int8) *Value   { return newSigned(I8, int64(v)) }
func NewI16(v int16) *Value { return newSigned(I16, int64(v)) }
func NewI32(v int32) *Value { return newSigned(I32, int64(v)) }
func NewI64(v int64) *Value { return newSigned(I64, v) }

func NewBool(v bool) *Value {
	return &Value{kind: KindPrimitive, primitive: Primitive{kind: Bool, b: v}}
}

func NewString(v string) *Value {
	return &Value{kind: KindPrimitive, primitive: Primitive{kind: Str, s: v}}
}

func NewBytes(v []byte) *Value {
	raw := make([]byte, len(v))
	copy(raw, v)
	return &Value{kind: KindPrimitive, primitive: Primitive{kind: Bytes, raw: raw}}
}

// NewNamed builds a named composite. Field order is preserved and names must be unique.
func NewNamed(fields ...Field) (*Value, error) {
	seen := make(map[string]struct{}, len(fields))
	copied := make([]Field, len(fields))
	for i, f := range fields {
		if _, ok := seen[f.Name]; ok {
			return nil, xerrors.Errorf("field %q: %w", f.Name, ErrDuplicateField)
		}
		seen[f.Name] = struct{}{}
		copied[i] = f
	}

	return &Value{kind: KindNamed, fields: copied}, nil
}

// MustNamed is like NewNamed but panics on duplicate names. Intended for literals and tests.
func MustNamed(fields ...Field) *Value {
	v, err := NewNamed(fields...)
	if err != nil {
		panic(err)
	}
	return v
}

func NewUnnamed(items ...*Value) *Value {
	copied := make([]*Value, len(items))
	copy(copied, items)
	return &Value{kind: KindUnnamed, items: copied}
}

// NewVariant wraps a composite payload under a tag. A nil payload becomes an empty unnamed composite
// and a non-composite payload is wrapped into a single-element unnamed composite.
func NewVariant(tag string, payload *Value) *Value {
	switch {
	case payload == nil:
		payload = NewUnnamed()
	case payload.kind != KindNamed && payload.kind != KindUnnamed:
		payload = NewUnnamed(payload)
	}

	return &Value{kind: KindVariant, tag: tag, payload: payload}
}

func (v *Value) Kind() Kind {
	return v.kind
}

func (v *Value) Primitive() (Primitive, bool) {
	if v == nil || v.kind != KindPrimitive {
		return Primitive{}, false
	}
	return v.primitive, true
}

// Fields returns the fields of a named composite. The returned slice must not be modified.
func (v *Value) Fields() []Field {
	if v == nil || v.kind != KindNamed {
		return nil
	}
	return v.fields
}

// Items returns the elements of an unnamed composite. The returned slice must not be modified.
func (v *Value) Items() []*Value {
	if v == nil || v.kind != KindUnnamed {
		return nil
	}
	return v.items
}

func (v *Value) Tag() string {
	if v == nil || v.kind != KindVariant {
		return ""
	}
	return v.tag
}

func (v *Value) Payload() *Value {
	if v == nil || v.kind != KindVariant {
		return nil
	}
	return v.payload
}

// Len is the number of children of a composite, and zero otherwise.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}

	switch v.kind {
	case KindNamed:
		return len(v.fields)
	case KindUnnamed:
		return len(v.items)
	default:
		return 0
	}
}

// Children returns the child values of a composite in order, ignoring field names.
func (v *Value) Children() []*Value {
	if v == nil {
		return nil
	}

	switch v.kind {
	case KindNamed:
		children := make([]*Value, len(v.fields))
		for i, f := range v.fields {
			children[i] = f.Value
		}
		return children
	case KindUnnamed:
		return v.items
	default:
		return nil
	}
}

func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}

	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%v>", v.kind)
	}
	return string(data)
}

func (p Primitive) Kind() PrimitiveKind {
	return p.kind
}

func (p Primitive) IsUnsigned() bool {
	return p.kind <= U128
}

func (p Primitive) IsSigned() bool {
	return p.kind >= I8 && p.kind <= I64
}

func (p Primitive) IsInteger() bool {
	return p.IsUnsigned() || p.IsSigned()
}

// LowByte truncates an integer primitive to its low 8 bits.
func (p Primitive) LowByte() (byte, bool) {
	switch {
	case p.IsUnsigned():
		return byte(p.u.Uint64()), true
	case p.IsSigned():
		return byte(p.i), true
	default:
		return 0, false
	}
}

func (p Primitive) Uint64() (uint64, bool) {
	switch {
	case p.IsUnsigned():
		if !p.u.IsUint64() {
			return 0, false
		}
		return p.u.Uint64(), true
	case p.IsSigned():
		if p.i < 0 {
			return 0, false
		}
		return uint64(p.i), true
	default:
		return 0, false
	}
}

func (p Primitive) Uint256() (*uint256.Int, bool) {
	switch {
	case p.IsUnsigned():
		return new(uint256.Int).Set(&p.u), true
	case p.IsSigned():
		if p.i < 0 {
			return nil, false
		}
		return uint256.NewInt(uint64(p.i)), true
	default:
		return nil, false
	}
}

func (p Primitive) Int64() (int64, bool) {
	switch {
	case p.IsSigned():
		return p.i, true
	case p.IsUnsigned():
		if !p.u.IsUint64() || p.u.Uint64() > 1<<63-1 {
			return 0, false
		}
		return int64(p.u.Uint64()), true
	default:
		return 0, false
	}
}

func (p Primitive) Bool() (bool, bool) {
	return p.b, p.kind == Bool
}

func (p Primitive) Str() (string, bool) {
	return p.s, p.kind == Str
}

func (p Primitive) Bytes() ([]byte, bool) {
	return p.raw, p.kind == Bytes
}
