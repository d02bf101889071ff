package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/scale"
	"github.com/deeper-chain/deeper-archive/internal/schema"
	"github.com/deeper-chain/deeper-archive/internal/utils/fixtures"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

var (
	alice = chain.MustParseAddress("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")
	bob   = chain.MustParseAddress("5FshJD1E8MuZw4U2sUWLQHeKuDmkQ85MZacBA36PEJj77xAZ")
	carol = chain.MustParseAddress("5GNJqTPyNqANBkUVMN1LPPrxXnFouWXoe2wNSmmEoLctxiZY")
)

func mustParse(t *testing.T, fixture string) []*extrinsic.Operation {
	result, err := extrinsic.Parse(fixtures.MustReadFile(fixture))
	require.NoError(t, err)
	return result.Operations
}

func mustDecode(t *testing.T, key []byte, fixture string) *value.Value {
	s := &schema.Schema{
		SpecVersion: 1,
		Blob:        fixtures.MustReadFile("schema/deeper_v1.json"),
	}
	v, err := scale.NewDecoder().DecodeStorage(s, key, fixtures.MustReadHex(fixture))
	require.NoError(t, err)
	return v
}

func bytesOf(account chain.AccountID) []*value.Value {
	items := make([]*value.Value, len(account))
	for i, b := range account {
		items[i] = value.NewU8(b)
	}
	return items
}

// accountValue renders an identity the way operations carry it: `[[b0, ..., b31]]`.
func accountValue(account chain.AccountID) *value.Value {
	return value.NewUnnamed(value.NewUnnamed(bytesOf(account)...))
}

func signedOp(pallet string, call string, signer chain.AccountID, args ...*value.Value) *extrinsic.Operation {
	return &extrinsic.Operation{
		Pallet:    pallet,
		Call:      call,
		Args:      args,
		Signature: &extrinsic.Signature{Address: &signer},
	}
}
