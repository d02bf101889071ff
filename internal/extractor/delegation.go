package extractor

import (
	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

const (
	delegatedValidatorsField = "delegated_validators"
)

var (
	delegationCalls = []string{"delegate", "undelegate"}
)

// DelegationAccounts returns the signers of delegate and undelegate calls.
// Targets are read from the delegator record in storage.
func DelegationAccounts(ops []*extrinsic.Operation) *AccountSet {
	accounts := NewAccountSet()
	for _, op := range ops {
		if !op.Is(chain.PalletStaking, delegationCalls...) {
			continue
		}

		if signer, ok := op.Signer(); ok {
			accounts.Add(signer)
		}
	}
	return accounts
}

// ValidatorSet returns the delegated validators of a delegator record.
// A missing or empty list yields no validators; undecodable entries are skipped.
func ValidatorSet(v *value.Value) []chain.AccountID {
	list, err := value.Resolve(value.UnwrapOption(v), value.Key(delegatedValidatorsField))
	if err != nil {
		return []chain.AccountID{}
	}

	list = value.UnwrapOption(list)
	if list == nil {
		return []chain.AccountID{}
	}

	// Peel wrappers such as bounded vectors until the list of identities is reached.
	for list.Len() == 1 {
		child := list.Children()[0]
		if child == nil || child.Kind() == value.KindPrimitive {
			break
		}

		if account, err := chain.AccountIDFromValue(list); err == nil {
			return []chain.AccountID{account}
		}
		list = child
	}

	validators := make([]chain.AccountID, 0, list.Len())
	for _, item := range list.Children() {
		account, err := chain.AccountIDFromValue(item)
		if err != nil {
			continue
		}
		validators = append(validators, account)
	}
	return validators
}
