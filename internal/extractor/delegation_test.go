package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

func TestDelegationAccounts(t *testing.T) {
	require := require.New(t)

	accounts := DelegationAccounts(mustParse(t, "extrinsic/staking_delegate.json"))
	require.Equal([]chain.AccountID{bob}, accounts.Accounts())

	ops := []*extrinsic.Operation{
		signedOp(chain.PalletStaking, "undelegate", carol),
		signedOp(chain.PalletStaking, "bond", alice),
		{Pallet: chain.PalletStaking, Call: "delegate"},
		signedOp(chain.PalletStaking, "delegate", carol, accountValue(alice)),
	}
	accounts = DelegationAccounts(ops)
	require.Equal([]chain.AccountID{carol}, accounts.Accounts())
}

func TestValidatorSet(t *testing.T) {
	require := require.New(t)

	validators := ValidatorSet(mustDecode(t, chain.DelegatorKey(bob), "storage/staking_delegator.hex"))
	require.Equal([]chain.AccountID{carol}, validators)
}

func TestValidatorSet_Shapes(t *testing.T) {
	require := require.New(t)

	record := func(list *value.Value) *value.Value {
		return value.MustNamed(
			value.Field{Name: "delegator", Value: accountValue(bob)},
			value.Field{Name: "delegated_validators", Value: list},
		)
	}

	// Every validator is decoded.
	validators := ValidatorSet(record(value.NewUnnamed(accountValue(alice), accountValue(carol))))
	require.Equal([]chain.AccountID{alice, carol}, validators)

	// Bounded vector wrapper.
	validators = ValidatorSet(record(value.NewUnnamed(value.NewUnnamed(accountValue(alice), accountValue(carol)))))
	require.Equal([]chain.AccountID{alice, carol}, validators)

	// Undecodable entries are skipped.
	validators = ValidatorSet(record(value.NewUnnamed(accountValue(alice), value.NewUnnamed(value.NewU8(1)), accountValue(carol))))
	require.Equal([]chain.AccountID{alice, carol}, validators)

	validators = ValidatorSet(record(value.NewUnnamed()))
	require.Empty(validators)

	validators = ValidatorSet(record(value.NewVariant("None", nil)))
	require.Empty(validators)

	validators = ValidatorSet(value.MustNamed(value.Field{Name: "delegator", Value: accountValue(bob)}))
	require.NotNil(validators)
	require.Empty(validators)

	require.Empty(ValidatorSet(nil))
}
