package api

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/deeper-chain/deeper-archive/internal/chain"
)

type (
	BalanceState struct {
		Nonce      uint32
		Free       *uint256.Int
		Reserved   *uint256.Int
		MiscFrozen *uint256.Int
		FeeFrozen  *uint256.Int
	}

	BalanceFact struct {
		BlockNumber uint64
		Account     chain.AccountID
		BalanceState
	}

	CreditFact struct {
		BlockNumber uint64
		Account     chain.AccountID
		Credit      uint64
	}

	DelegationFact struct {
		BlockNumber uint64
		Delegator   chain.AccountID
		Validators  []chain.AccountID
	}

	// EventRecord is a recognized event decoded from the block's event list.
	// Index is the position of the event within the block.
	EventRecord struct {
		Index   uint32
		Pallet  string
		Event   string
		Account chain.AccountID
		Credit  uint64
	}

	EventFact struct {
		BlockNumber uint64
		EventRecord
	}

	// ProgressFact is written for every block of a batch once all other facts are persisted.
	ProgressFact struct {
		BlockNumber uint64
		BlockTime   *time.Time
	}
)

func ZeroBalanceState() BalanceState {
	return BalanceState{
		Free:       uint256.NewInt(0),
		Reserved:   uint256.NewInt(0),
		MiscFrozen: uint256.NewInt(0),
		FeeFrozen:  uint256.NewInt(0),
	}
}
