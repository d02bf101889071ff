package extractor

import (
	"github.com/holiman/uint256"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

const (
	addressIDTag = "Id"
)

var (
	balanceCalls = []string{"transfer", "transfer_keep_alive", "transfer_all"}

	// The destination is the Id case of the address enum wrapping the raw identity bytes.
	// Releases differ in how many tuple layers sit in between.
	// Other cases (Index, Raw, Address32, Address20) do not carry an account and are ignored.
	destinationPaths = []value.Path{
		{value.Tag(addressIDTag), value.Index(0), value.Index(0)},
		{value.Tag(addressIDTag), value.Index(0), value.Index(0), value.Index(0)},
		{value.Tag(addressIDTag), value.Index(0)},
		{value.Tag(addressIDTag)},
	}

	balanceDataPaths = []value.Path{
		{value.Key("data")},
		{value.Index(4)},
	}
)

// BalanceAccounts returns the accounts whose balance may have changed:
// the destinations of balance transfers and the signer of every signed operation.
func BalanceAccounts(ops []*extrinsic.Operation) *AccountSet {
	accounts := NewAccountSet()
	for _, op := range ops {
		if op.Is(chain.PalletBalances, balanceCalls...) {
			for _, arg := range op.Args {
				if dest, ok := destination(arg); ok {
					accounts.Add(dest)
				}
			}
		}

		if signer, ok := op.Signer(); ok {
			accounts.Add(signer)
		}
	}
	return accounts
}

func destination(arg *value.Value) (chain.AccountID, bool) {
	for _, path := range destinationPaths {
		leaf, err := value.Resolve(arg, path...)
		if err != nil {
			continue
		}

		account, err := chain.DecodeAccountID(leaf.Children())
		if err != nil {
			continue
		}
		return account, true
	}
	return chain.AccountID{}, false
}

// BalanceState decodes an account info record: the nonce first, then the balance data composite.
// On a shape mismatch it returns the all-zero state together with the error,
// so the caller decides whether a zero row is written.
func BalanceState(v *value.Value) (api.BalanceState, error) {
	state, err := decodeBalanceState(v)
	if err != nil {
		return api.ZeroBalanceState(), err
	}
	return state, nil
}

func decodeBalanceState(v *value.Value) (api.BalanceState, error) {
	if v == nil || v.Kind() != value.KindNamed {
		return api.BalanceState{}, xerrors.Errorf("account info is %v: %w", v, value.ErrShapeMismatch)
	}

	nonceValue, err := value.Resolve(v, value.Index(0))
	if err != nil {
		return api.BalanceState{}, xerrors.Errorf("failed to resolve nonce: %w", err)
	}
	nonce, err := value.AsUint32(nonceValue)
	if err != nil {
		return api.BalanceState{}, xerrors.Errorf("failed to read nonce: %w", err)
	}

	data, err := value.FirstOf(v, balanceDataPaths...)
	if err != nil {
		return api.BalanceState{}, xerrors.Errorf("failed to resolve balance data: %w", err)
	}
	if data.Kind() != value.KindNamed || data.Len() < 4 {
		return api.BalanceState{}, xerrors.Errorf("balance data is %v(%d): %w", data.Kind(), data.Len(), value.ErrShapeMismatch)
	}

	amounts := make([]*uint256.Int, 4)
	for i := range amounts {
		amount, err := value.AsUint128(data.Fields()[i].Value)
		if err != nil {
			return api.BalanceState{}, xerrors.Errorf("failed to read balance field %v: %w", data.Fields()[i].Name, err)
		}
		amounts[i] = amount
	}

	return api.BalanceState{
		Nonce:      nonce,
		Free:       amounts[0],
		Reserved:   amounts[1],
		MiscFrozen: amounts[2],
		FeeFrozen:  amounts[3],
	}, nil
}
