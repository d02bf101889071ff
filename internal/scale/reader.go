package scale

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"golang.org/x/xerrors"
)

type reader struct {
	data []byte
	pos  int
}

const (
	// Compact big-integer mode carries at most 4+63 bytes; only values up to 128 bits are accepted.
	maxCompactBytes = 16
)

var (
	ErrUnexpectedEOF  = xerrors.New("unexpected end of input")
	ErrTrailingBytes  = xerrors.New("trailing bytes after value")
	ErrInvalidCompact = xerrors.New("invalid compact encoding")
)

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, xerrors.Errorf("need %v bytes at offset %v, have %v: %w", n, r.pos, r.remaining(), ErrUnexpectedEOF)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) readByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// uint reads a little-endian unsigned integer of the given width.
func (r *reader) readUint(width int) (*uint256.Int, error) {
	b, err := r.take(width)
	if err != nil {
		return nil, err
	}
	return leToUint(b), nil
}

func (r *reader) readUint64(width int) (uint64, error) {
	b, err := r.take(width)
	if err != nil {
		return 0, err
	}

	var buf [8]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (r *reader) readCompact() (*uint256.Int, error) {
	first, err := r.readByte()
	if err != nil {
		return nil, err
	}

	switch first & 0b11 {
	case 0b00:
		return uint256.NewInt(uint64(first >> 2)), nil
	case 0b01:
		next, err := r.readByte()
		if err != nil {
			return nil, err
		}
		return uint256.NewInt(uint64(binary.LittleEndian.Uint16([]byte{first, next}) >> 2)), nil
	case 0b10:
		rest, err := r.take(3)
		if err != nil {
			return nil, err
		}
		return uint256.NewInt(uint64(binary.LittleEndian.Uint32([]byte{first, rest[0], rest[1], rest[2]}) >> 2)), nil
	default:
		n := int(first>>2) + 4
		if n > maxCompactBytes {
			return nil, xerrors.Errorf("compact integer of %v bytes: %w", n, ErrInvalidCompact)
		}
		b, err := r.take(n)
		if err != nil {
			return nil, err
		}
		return leToUint(b), nil
	}
}

// length reads a compact length prefix bounded by the remaining input.
func (r *reader) readLength() (int, error) {
	n, err := r.readCompact()
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() || n.Uint64() > uint64(r.remaining()) {
		return 0, xerrors.Errorf("length %v exceeds remaining %v bytes: %w", n, r.remaining(), ErrUnexpectedEOF)
	}
	return int(n.Uint64()), nil
}

func leToUint(b []byte) *uint256.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(uint256.Int).SetBytes(be)
}
