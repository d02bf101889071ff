package chain

import (
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/value"
)

// ErrIdentityLength is returned when a decoded identity is not exactly 32 bytes.
var ErrIdentityLength = xerrors.New("account identity must be 32 bytes")

// DecodeAccountID builds an identity from a sequence of integer primitives, keeping the low 8 bits of each.
// Elements that are not integer primitives are skipped.
func DecodeAccountID(values []*value.Value) (AccountID, error) {
	buf := make([]byte, 0, AccountIDLength)
	for _, v := range values {
		p, ok := v.Primitive()
		if !ok {
			continue
		}

		b, ok := p.LowByte()
		if !ok {
			continue
		}
		buf = append(buf, b)
	}

	if len(buf) != AccountIDLength {
		return AccountID{}, xerrors.Errorf("got %d bytes: %w", len(buf), ErrIdentityLength)
	}

	var account AccountID
	copy(account[:], buf)
	return account, nil
}

// AccountIDFromValue decodes an identity nested under any number of single-element wrappers,
// e.g. `[[b0, ..., b31]]`. A 32-byte bytes primitive is accepted as well.
func AccountIDFromValue(v *value.Value) (AccountID, error) {
	for {
		if v == nil {
			return AccountID{}, xerrors.Errorf("nil identity: %w", value.ErrShapeMismatch)
		}

		if p, ok := v.Primitive(); ok {
			if raw, ok := p.Bytes(); ok {
				return AccountIDFromBytes(raw)
			}
			return AccountID{}, xerrors.Errorf("identity is a %v primitive: %w", p.Kind(), value.ErrShapeMismatch)
		}

		if v.Kind() == value.KindVariant {
			v = v.Payload()
			continue
		}

		children := v.Children()
		if len(children) != 1 {
			return DecodeAccountID(children)
		}

		if p, ok := children[0].Primitive(); ok && p.Kind() != value.Bytes {
			return DecodeAccountID(children)
		}

		v = children[0]
	}
}
