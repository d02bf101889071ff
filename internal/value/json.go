package value

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"golang.org/x/xerrors"
)

const (
	variantNameKey   = "name"
	variantValuesKey = "values"
)

var (
	ErrInvalidJSON = xerrors.New("invalid json value")

	_ json.Marshaler = (*Value)(nil)
)

// FromJSON parses the JSON rendering used by the archive:
//   - objects become named composites, preserving key order;
//   - an object with exactly the keys "name" and "values" becomes a variant;
//   - arrays become unnamed composites;
//   - non-negative integers become u64, or u128 when they overflow 64 bits, negative ones i64;
//   - null becomes the empty unnamed composite.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, xerrors.Errorf("unexpected trailing data: %w", ErrInvalidJSON)
	}

	return v, nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, xerrors.Errorf("failed to read token: %v: %w", err, ErrInvalidJSON)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, xerrors.Errorf("unexpected delimiter %v: %w", t, ErrInvalidJSON)
		}
	case json.Number:
		return fromNumber(t)
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return NewUnnamed(), nil
	default:
		return nil, xerrors.Errorf("unexpected token %v: %w", tok, ErrInvalidJSON)
	}
}

func decodeObject(dec *json.Decoder) (*Value, error) {
	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, xerrors.Errorf("failed to read key: %v: %w", err, ErrInvalidJSON)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, xerrors.Errorf("unexpected key %v: %w", tok, ErrInvalidJSON)
		}

		child, err := decodeValue(dec)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode field %q: %w", key, err)
		}

		fields = append(fields, Field{Name: key, Value: child})
	}

	if _, err := dec.Token(); err != nil {
		return nil, xerrors.Errorf("failed to close object: %v: %w", err, ErrInvalidJSON)
	}

	if variant := asVariant(fields); variant != nil {
		return variant, nil
	}

	v, err := NewNamed(fields...)
	if err != nil {
		return nil, xerrors.Errorf("%v: %w", err, ErrInvalidJSON)
	}
	return v, nil
}

func asVariant(fields []Field) *Value {
	if len(fields) != 2 {
		return nil
	}

	var tag *Value
	var payload *Value
	for _, f := range fields {
		switch f.Name {
		case variantNameKey:
			tag = f.Value
		case variantValuesKey:
			payload = f.Value
		}
	}
	if tag == nil || payload == nil {
		return nil
	}

	name, err := AsString(tag)
	if err != nil {
		return nil
	}
	return NewVariant(name, payload)
}

func decodeArray(dec *json.Decoder) (*Value, error) {
	var items []*Value
	for dec.More() {
		child, err := decodeValue(dec)
		if err != nil {
			return nil, xerrors.Errorf("failed to decode element %d: %w", len(items), err)
		}
		items = append(items, child)
	}

	if _, err := dec.Token(); err != nil {
		return nil, xerrors.Errorf("failed to close array: %v: %w", err, ErrInvalidJSON)
	}

	return &Value{kind: KindUnnamed, items: items}, nil
}

func fromNumber(n json.Number) (*Value, error) {
	s := n.String()
	if strings.ContainsAny(s, ".eE") {
		return nil, xerrors.Errorf("non-integer number %v: %w", s, ErrInvalidJSON)
	}

	if strings.HasPrefix(s, "-") {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, xerrors.Errorf("invalid signed number %v: %w", s, ErrInvalidJSON)
		}
		return NewI64(i), nil
	}

	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NewU64(u), nil
	}

	big, err := uint256.FromDecimal(s)
	if err != nil || big.BitLen() > 128 {
		return nil, xerrors.Errorf("number %v does not fit in 128 bits: %w", s, ErrInvalidJSON)
	}
	return NewU128(big), nil
}

// MarshalJSON renders the value in the same shape FromJSON accepts.
// Byte sequences are rendered as 0x-prefixed hex strings.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}

	switch v.kind {
	case KindPrimitive:
		return v.primitive.writeJSON(buf)

	case KindNamed:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, f.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

	case KindUnnamed:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

	case KindVariant:
		buf.WriteString(`{"name":`)
		if err := writeString(buf, v.tag); err != nil {
			return err
		}
		buf.WriteString(`,"values":`)
		if err := v.payload.writeJSON(buf); err != nil {
			return err
		}
		buf.WriteByte('}')

	default:
		return xerrors.Errorf("unknown kind %v", v.kind)
	}

	return nil
}

func (p Primitive) writeJSON(buf *bytes.Buffer) error {
	switch {
	case p.IsUnsigned():
		buf.WriteString(p.u.Dec())
	case p.IsSigned():
		buf.WriteString(strconv.FormatInt(p.i, 10))
	case p.kind == Bool:
		buf.WriteString(strconv.FormatBool(p.b))
	case p.kind == Str:
		return writeString(buf, p.s)
	case p.kind == Bytes:
		return writeString(buf, hexutil.Encode(p.raw))
	default:
		return xerrors.Errorf("unknown primitive %v", p.kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	data, err := json.Marshal(s)
	if err != nil {
		return xerrors.Errorf("failed to marshal string: %w", err)
	}
	buf.Write(data)
	return nil
}
