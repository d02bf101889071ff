package chain

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	addressFerdie = "5FshJD1E8MuZw4U2sUWLQHeKuDmkQ85MZacBA36PEJj77xAZ"
)

func TestTwox128(t *testing.T) {
	require := require.New(t)

	require.Equal("99e9d85137db46ef4bbea33613baafd5", hex.EncodeToString(Twox128(nil)))
	require.Equal("990977adf52cbc440889329981caa9be", hex.EncodeToString(Twox128([]byte("abc"))))
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		namespace string
		item      string
		expected  string
	}{
		{PalletSystem, ItemAccount, "26aa394eea5630e07c48ae0c9558cef7b99d880ec681799c0cf30e8886371da9"},
		{PalletSystem, ItemEvents, "26aa394eea5630e07c48ae0c9558cef780d41e5e16056765bc8461851072c9d7"},
		{PalletCredit, ItemUserCredit, "83e0731810368fb22559f084ed61d427f7eb0b356c4455f32f2dab8a7aa408d8"},
		{PalletStaking, ItemDelegators, "5f3e4907f716ac89b6347d15ececedcae1c5df6d2773f08c7b6b1b6d0139c22a"},
		{PalletTimestamp, ItemNow, "f0c365c3cf59d671eb72da0e7a4113c49f1f0515f462cdcf84e0f1d6045dfcbb"},
	}

	for _, test := range tests {
		t.Run(test.namespace+"."+test.item, func(t *testing.T) {
			require := require.New(t)
			require.Equal(test.expected, hex.EncodeToString(DeriveKey(test.namespace, test.item)))
		})
	}
}

func TestSystemAccountKey(t *testing.T) {
	require := require.New(t)

	account := MustParseAddress(addressFerdie)
	require.Equal(
		"26aa394eea5630e07c48ae0c9558cef7b99d880ec681799c0cf30e8886371da9"+
			"3594ef778a4003043f6d977057644d65"+
			"a88b59afe73f0e769e4f9d85cd40fd13f0874446f22d2ab6780f9cb89059307e",
		hex.EncodeToString(SystemAccountKey(account)),
	)
}

func TestUserCreditKey(t *testing.T) {
	require := require.New(t)

	account := MustParseAddress(addressFerdie)
	require.Equal(
		"83e0731810368fb22559f084ed61d427f7eb0b356c4455f32f2dab8a7aa408d8"+
			"3594ef778a4003043f6d977057644d65"+
			"a88b59afe73f0e769e4f9d85cd40fd13f0874446f22d2ab6780f9cb89059307e",
		hex.EncodeToString(UserCreditKey(account)),
	)
}

func TestDeriveMapKey_Injective(t *testing.T) {
	require := require.New(t)

	seen := make(map[string]struct{})
	for _, namespace := range []string{PalletSystem, PalletCredit, PalletStaking} {
		for _, item := range []string{ItemAccount, ItemUserCredit, ItemDelegators} {
			for i := 0; i < 8; i++ {
				var account AccountID
				account[0] = byte(i)
				key := hex.EncodeToString(DeriveMapKey(DeriveKey(namespace, item), account[:]))
				_, ok := seen[key]
				require.False(ok, key)
				seen[key] = struct{}{}

				again := hex.EncodeToString(DeriveMapKey(DeriveKey(namespace, item), account[:]))
				require.Equal(key, again)
			}
		}
	}
}

func TestSplitMapKey(t *testing.T) {
	require := require.New(t)

	account := MustParseAddress(addressFerdie)
	prefix := DeriveKey(PalletSystem, ItemAccount)
	raw, ok := SplitMapKey(prefix, SystemAccountKey(account))
	require.True(ok)
	require.Equal(account[:], raw)

	_, ok = SplitMapKey(DeriveKey(PalletCredit, ItemUserCredit), SystemAccountKey(account))
	require.False(ok)

	corrupted := SystemAccountKey(account)
	corrupted[len(corrupted)-1] ^= 0xff
	_, ok = SplitMapKey(prefix, corrupted)
	require.False(ok)

	_, ok = SplitMapKey(prefix, prefix[:10])
	require.False(ok)
}
