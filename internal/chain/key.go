package chain

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

const (
	HashLength = 16

	PalletSystem    = "System"
	PalletBalances  = "Balances"
	PalletCredit    = "Credit"
	PalletStaking   = "Staking"
	PalletTimestamp = "Timestamp"

	ItemAccount    = "Account"
	ItemEvents     = "Events"
	ItemUserCredit = "UserCredit"
	ItemDelegators = "Delegators"
	ItemNow        = "Now"
)

// Twox128 is the two-round seeded xxhash64 used by storage prefixes.
func Twox128(data []byte) []byte {
	out := make([]byte, HashLength)
	for seed := uint64(0); seed < 2; seed++ {
		h := xxhash.NewWithSeed(seed)
		_, _ = h.Write(data)
		binary.LittleEndian.PutUint64(out[seed*8:], h.Sum64())
	}
	return out
}

// Blake2_128 is the 16-byte blake2b digest used by map hashers.
func Blake2_128(data []byte) []byte {
	h, err := blake2b.New(HashLength, nil)
	if err != nil {
		// Only fails for an invalid size or key.
		panic(err)
	}
	_, _ = h.Write(data)
	return h.Sum(nil)
}

// DeriveKey returns the storage prefix twox128(namespace) ++ twox128(item).
func DeriveKey(namespace string, item string) []byte {
	key := make([]byte, 0, 2*HashLength)
	key = append(key, Twox128([]byte(namespace))...)
	key = append(key, Twox128([]byte(item))...)
	return key
}

// DeriveMapKey appends a blake2_128_concat map key to prefix.
func DeriveMapKey(prefix []byte, raw []byte) []byte {
	key := make([]byte, 0, len(prefix)+HashLength+len(raw))
	key = append(key, prefix...)
	key = append(key, Blake2_128(raw)...)
	key = append(key, raw...)
	return key
}

// SplitMapKey recovers the raw map key from a full key derived by DeriveMapKey.
func SplitMapKey(prefix []byte, key []byte) ([]byte, bool) {
	if len(key) < len(prefix)+HashLength || !bytes.HasPrefix(key, prefix) {
		return nil, false
	}

	hashed := key[len(prefix) : len(prefix)+HashLength]
	raw := key[len(prefix)+HashLength:]
	if !bytes.Equal(hashed, Blake2_128(raw)) {
		return nil, false
	}

	return raw, true
}

func SystemAccountKey(account AccountID) []byte {
	return DeriveMapKey(DeriveKey(PalletSystem, ItemAccount), account[:])
}

func UserCreditKey(account AccountID) []byte {
	return DeriveMapKey(DeriveKey(PalletCredit, ItemUserCredit), account[:])
}

func DelegatorKey(account AccountID) []byte {
	return DeriveMapKey(DeriveKey(PalletStaking, ItemDelegators), account[:])
}

func EventsKey() []byte {
	return DeriveKey(PalletSystem, ItemEvents)
}

func TimestampKey() []byte {
	return DeriveKey(PalletTimestamp, ItemNow)
}
