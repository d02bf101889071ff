package scale

import (
	"unicode/utf8"

	"github.com/holiman/uint256"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/value"
)

type decoder struct {
	registry *registry
	reader   *reader
	depth    int
}

const (
	maxDepth = 128
)

var (
	ErrUnsupportedType = xerrors.New("unsupported type")
	ErrInvalidValue    = xerrors.New("invalid encoded value")
)

// decodeAll decodes a value of the given type and requires the whole input to be consumed.
func (r *registry) decodeAll(id uint32, data []byte) (*value.Value, error) {
	d := &decoder{
		registry: r,
		reader:   newReader(data),
	}

	v, err := d.decode(id)
	if err != nil {
		return nil, err
	}

	if d.reader.remaining() != 0 {
		return nil, xerrors.Errorf("%v bytes left after type %v: %w", d.reader.remaining(), id, ErrTrailingBytes)
	}
	return v, nil
}

func (d *decoder) decode(id uint32) (*value.Value, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDepth {
		return nil, xerrors.Errorf("type %v nested deeper than %v: %w", id, maxDepth, ErrUnsupportedType)
	}

	def, err := d.registry.lookup(id)
	if err != nil {
		return nil, err
	}

	switch {
	case def.Primitive != "":
		return d.decodePrimitive(def.Primitive)
	case def.Composite != nil:
		return d.decodeFields(def.Composite.Fields)
	case def.Variant != nil:
		return d.decodeVariant(def.Variant)
	case def.Sequence != nil:
		n, err := d.reader.readLength()
		if err != nil {
			return nil, xerrors.Errorf("failed to read sequence length: %w", err)
		}
		return d.decodeItems(def.Sequence.Type, n)
	case def.Array != nil:
		// Every element takes at least one byte.
		if uint64(def.Array.Len) > uint64(d.reader.remaining()) {
			return nil, xerrors.Errorf("array length %v exceeds remaining %v bytes: %w", def.Array.Len, d.reader.remaining(), ErrUnexpectedEOF)
		}
		return d.decodeItems(def.Array.Type, int(def.Array.Len))
	case def.IsTuple():
		items := make([]*value.Value, 0, len(def.Tuple))
		for _, elem := range def.Tuple {
			item, err := d.decode(elem)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return value.NewUnnamed(items...), nil
	case def.Compact != nil:
		return d.decodeCompact(def.Compact.Type)
	case def.BitSequence != nil:
		return d.decodeBitSequence(def.BitSequence)
	default:
		return nil, xerrors.Errorf("type %v has no definition: %w", id, ErrUnsupportedType)
	}
}

// decodeFields renders named fields as a named composite and anything else as an unnamed one.
func (d *decoder) decodeFields(fields []FieldDef) (*value.Value, error) {
	named := len(fields) > 0
	for _, f := range fields {
		if f.Name == "" {
			named = false
			break
		}
	}

	if !named {
		items := make([]*value.Value, 0, len(fields))
		for _, f := range fields {
			item, err := d.decode(f.Type)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return value.NewUnnamed(items...), nil
	}

	out := make([]value.Field, 0, len(fields))
	for _, f := range fields {
		v, err := d.decode(f.Type)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode field %v: %w", f.Name, err)
		}
		out = append(out, value.Field{Name: f.Name, Value: v})
	}
	return value.NewNamed(out...)
}

func (d *decoder) decodeVariant(def *VariantDef) (*value.Value, error) {
	index, err := d.reader.readByte()
	if err != nil {
		return nil, xerrors.Errorf("failed to read variant index: %w", err)
	}

	for i := range def.Variants {
		c := &def.Variants[i]
		if c.Index != index {
			continue
		}

		payload, err := d.decodeFields(c.Fields)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode variant %v: %w", c.Name, err)
		}
		return value.NewVariant(c.Name, payload), nil
	}

	return nil, xerrors.Errorf("unknown variant index %v: %w", index, ErrInvalidValue)
}

func (d *decoder) decodeItems(elem uint32, n int) (*value.Value, error) {
	items := make([]*value.Value, 0, min(n, d.reader.remaining()))
	for i := 0; i < n; i++ {
		item, err := d.decode(elem)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode item %v: %w", i, err)
		}
		items = append(items, item)
	}
	return value.NewUnnamed(items...), nil
}

func (d *decoder) decodePrimitive(name string) (*value.Value, error) {
	r := d.reader
	switch name {
	case "bool":
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case 0:
			return value.NewBool(false), nil
		case 1:
			return value.NewBool(true), nil
		default:
			return nil, xerrors.Errorf("bool byte %v: %w", b, ErrInvalidValue)
		}
	case "char":
		n, err := r.readUint64(4)
		if err != nil {
			return nil, err
		}
		if !utf8.ValidRune(rune(n)) {
			return nil, xerrors.Errorf("char %v: %w", n, ErrInvalidValue)
		}
		return value.NewString(string(rune(n))), nil
	case "str":
		n, err := r.readLength()
		if err != nil {
			return nil, err
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(b) {
			return nil, xerrors.Errorf("string is not utf-8: %w", ErrInvalidValue)
		}
		return value.NewString(string(b)), nil
	case "u8":
		n, err := r.readUint64(1)
		return wrap(value.NewU8(uint8(n)), err)
	case "u16":
		n, err := r.readUint64(2)
		return wrap(value.NewU16(uint16(n)), err)
	case "u32":
		n, err := r.readUint64(4)
		return wrap(value.NewU32(uint32(n)), err)
	case "u64":
		n, err := r.readUint64(8)
		return wrap(value.NewU64(n), err)
	case "u128":
		n, err := r.readUint(16)
		if err != nil {
			return nil, err
		}
		return value.NewU128(n), nil
	case "i8":
		n, err := r.readUint64(1)
		return wrap(value.NewI8(int8(n)), err)
	case "i16":
		n, err := r.readUint64(2)
		return wrap(value.NewI16(int16(n)), err)
	case "i32":
		n, err := r.readUint64(4)
		return wrap(value.NewI32(int32(n)), err)
	case "i64":
		n, err := r.readUint64(8)
		return wrap(value.NewI64(int64(n)), err)
	default:
		return nil, xerrors.Errorf("primitive %v: %w", name, ErrUnsupportedType)
	}
}

// decodeCompact reads a compact integer and shapes it after the wrapped type,
// which is either an unsigned primitive or a single-field composite around one.
func (d *decoder) decodeCompact(id uint32) (*value.Value, error) {
	def, err := d.registry.lookup(id)
	if err != nil {
		return nil, err
	}

	switch {
	case def.Primitive != "":
		n, err := d.reader.readCompact()
		if err != nil {
			return nil, err
		}
		return compactPrimitive(def.Primitive, n)
	case def.Composite != nil && len(def.Composite.Fields) == 1:
		field := def.Composite.Fields[0]
		inner, err := d.decodeCompact(field.Type)
		if err != nil {
			return nil, err
		}
		if field.Name != "" {
			return value.NewNamed(value.Field{Name: field.Name, Value: inner})
		}
		return value.NewUnnamed(inner), nil
	case def.Composite != nil && len(def.Composite.Fields) == 0, def.IsTuple() && len(def.Tuple) == 0:
		return value.NewUnnamed(), nil
	default:
		return nil, xerrors.Errorf("compact of type %v: %w", id, ErrUnsupportedType)
	}
}

func (d *decoder) decodeBitSequence(def *BitSequenceDef) (*value.Value, error) {
	store, err := d.registry.lookup(def.BitStoreType)
	if err != nil {
		return nil, err
	}

	var width int
	switch store.Primitive {
	case "u8":
		width = 1
	case "u16":
		width = 2
	case "u32":
		width = 4
	case "u64":
		width = 8
	default:
		return nil, xerrors.Errorf("bit store %q: %w", store.Primitive, ErrUnsupportedType)
	}

	bits, err := d.reader.readCompact()
	if err != nil {
		return nil, err
	}
	if !bits.IsUint64() {
		return nil, xerrors.Errorf("bit length %v: %w", bits, ErrInvalidValue)
	}

	storeBits := uint64(width * 8)
	words := (bits.Uint64() + storeBits - 1) / storeBits
	if words > uint64(d.reader.remaining()) {
		return nil, xerrors.Errorf("bit sequence of %v bits: %w", bits, ErrUnexpectedEOF)
	}
	raw, err := d.reader.take(int(words) * width)
	if err != nil {
		return nil, err
	}
	return value.NewBytes(raw), nil
}

func compactPrimitive(name string, n *uint256.Int) (*value.Value, error) {
	bits := map[string]int{"u8": 8, "u16": 16, "u32": 32, "u64": 64, "u128": 128}[name]
	if bits == 0 {
		return nil, xerrors.Errorf("compact %v: %w", name, ErrUnsupportedType)
	}
	if n.BitLen() > bits {
		return nil, xerrors.Errorf("compact value %v overflows %v: %w", n, name, ErrInvalidValue)
	}

	switch name {
	case "u8":
		return value.NewU8(uint8(n.Uint64())), nil
	case "u16":
		return value.NewU16(uint16(n.Uint64())), nil
	case "u32":
		return value.NewU32(uint32(n.Uint64())), nil
	case "u64":
		return value.NewU64(n.Uint64()), nil
	default:
		return value.NewU128(n), nil
	}
}

func wrap(v *value.Value, err error) (*value.Value, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
