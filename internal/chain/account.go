package chain

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/xerrors"
)

type (
	// AccountID is the raw 32-byte account identity.
	AccountID [AccountIDLength]byte
)

const (
	AccountIDLength = 32

	// DefaultSS58Prefix is the generic substrate address format.
	DefaultSS58Prefix uint16 = 42

	maxSimplePrefix = 63
	maxFullPrefix   = 16383
	checksumLength  = 2
)

var (
	ErrInvalidAddress = xerrors.New("invalid ss58 address")

	ss58Preimage = []byte("SS58PRE")
)

// String renders the account as an SS58 address using the default prefix.
func (a AccountID) String() string {
	return a.SS58(DefaultSS58Prefix)
}

func (a AccountID) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// SS58 renders the account as a checksummed base58 address for the given network prefix.
func (a AccountID) SS58(prefix uint16) string {
	if prefix > maxFullPrefix {
		prefix = DefaultSS58Prefix
	}

	payload := append(encodePrefix(prefix), a[:]...)
	checksum := ss58Checksum(payload)
	return base58.Encode(append(payload, checksum[:checksumLength]...))
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) error {
	parsed, _, err := ParseAddress(string(text))
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}

// ParseAddress decodes an SS58 address and returns the account with its network prefix.
func ParseAddress(address string) (AccountID, uint16, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return AccountID{}, 0, xerrors.Errorf("failed to decode %q: %v: %w", address, err, ErrInvalidAddress)
	}

	if len(raw) == 0 {
		return AccountID{}, 0, xerrors.Errorf("empty address: %w", ErrInvalidAddress)
	}

	prefixLength := 1
	if raw[0] > maxSimplePrefix {
		prefixLength = 2
	}

	if len(raw) != prefixLength+AccountIDLength+checksumLength {
		return AccountID{}, 0, xerrors.Errorf("unexpected length %d of %q: %w", len(raw), address, ErrInvalidAddress)
	}

	payload := raw[:prefixLength+AccountIDLength]
	checksum := ss58Checksum(payload)
	if !bytes.Equal(checksum[:checksumLength], raw[prefixLength+AccountIDLength:]) {
		return AccountID{}, 0, xerrors.Errorf("bad checksum of %q: %w", address, ErrInvalidAddress)
	}

	var account AccountID
	copy(account[:], payload[prefixLength:])
	return account, decodePrefix(raw[:prefixLength]), nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(address string) AccountID {
	account, _, err := ParseAddress(address)
	if err != nil {
		panic(err)
	}
	return account
}

// AccountIDFromHex parses a 0x-prefixed or bare hex string of exactly 32 bytes.
func AccountIDFromHex(s string) (AccountID, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return AccountID{}, xerrors.Errorf("failed to decode hex %q: %w", s, err)
	}

	return AccountIDFromBytes(raw)
}

func AccountIDFromBytes(raw []byte) (AccountID, error) {
	if len(raw) != AccountIDLength {
		return AccountID{}, xerrors.Errorf("got %d bytes: %w", len(raw), ErrIdentityLength)
	}

	var account AccountID
	copy(account[:], raw)
	return account, nil
}

func encodePrefix(prefix uint16) []byte {
	if prefix <= maxSimplePrefix {
		return []byte{byte(prefix)}
	}

	first := byte((prefix&0x00fc)>>2) | 0x40
	second := byte(prefix>>8) | byte((prefix&0x0003)<<6)
	return []byte{first, second}
}

func decodePrefix(raw []byte) uint16 {
	if len(raw) == 1 {
		return uint16(raw[0])
	}

	first := uint16(raw[0] & 0x3f)
	second := uint16(raw[1])
	lower := (first << 2) | (second >> 6)
	upper := second & 0x3f
	return (lower & 0x00ff) | (upper << 8)
}

func ss58Checksum(payload []byte) [blake2b.Size]byte {
	preimage := make([]byte, 0, len(ss58Preimage)+len(payload))
	preimage = append(preimage, ss58Preimage...)
	preimage = append(preimage, payload...)
	return blake2b.Sum512(preimage)
}
