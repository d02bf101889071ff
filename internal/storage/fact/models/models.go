// Package models maps fact rows to the columns of the sink tables.
package models

import (
	"encoding/json"

	"github.com/holiman/uint256"
	"github.com/jackc/pgx/v5/pgtype"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/api"
	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/utils/jsonutil"
)

var (
	BalanceColumns         = []string{"block_num", "address", "nonce", "free", "reserved", "misc_frozen", "fee_frozen"}
	BalanceConflictColumns = []string{"block_num", "address"}

	CreditColumns         = []string{"block_num", "address", "credit"}
	CreditConflictColumns = []string{"block_num", "address"}

	DelegationColumns         = []string{"block_num", "delegator", "validators"}
	DelegationConflictColumns = []string{"block_num", "delegator"}

	EventColumns         = []string{"block_num", "event_index", "pallet", "event", "payload"}
	EventConflictColumns = []string{"block_num", "event_index"}
)

func MakeBalanceRow(fact *api.BalanceFact, prefix uint16) []any {
	return []any{
		int64(fact.BlockNumber),
		fact.Account.SS58(prefix),
		int64(fact.Nonce),
		Numeric(fact.Free),
		Numeric(fact.Reserved),
		Numeric(fact.MiscFrozen),
		Numeric(fact.FeeFrozen),
	}
}

func MakeCreditRow(fact *api.CreditFact, prefix uint16) []any {
	return []any{
		int64(fact.BlockNumber),
		fact.Account.SS58(prefix),
		int64(fact.Credit),
	}
}

func MakeDelegationRow(fact *api.DelegationFact, prefix uint16) ([]any, error) {
	validators, err := ValidatorsJSON(fact.Validators, prefix)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode validators of %v: %w", fact.Delegator, err)
	}

	return []any{
		int64(fact.BlockNumber),
		fact.Delegator.SS58(prefix),
		validators,
	}, nil
}

func MakeEventRow(fact *api.EventFact, prefix uint16) ([]any, error) {
	payload, err := EventPayloadJSON(&fact.EventRecord, prefix)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode payload of event %d: %w", fact.Index, err)
	}

	return []any{
		int64(fact.BlockNumber),
		int64(fact.Index),
		fact.Pallet,
		fact.Event,
		payload,
	}, nil
}

// ValidatorsJSON renders the validator list as a JSON array of addresses. An empty list renders as [].
func ValidatorsJSON(validators []chain.AccountID, prefix uint16) (string, error) {
	addresses := make([]string, len(validators))
	for i, validator := range validators {
		addresses[i] = validator.SS58(prefix)
	}

	data, err := json.Marshal(addresses)
	if err != nil {
		return "", xerrors.Errorf("failed to marshal validators: %w", err)
	}
	return string(data), nil
}

// EventPayloadJSON renders the typed payload of a recognized event, e.g. {"account":"5F...","credit":100}.
func EventPayloadJSON(record *api.EventRecord, prefix uint16) (string, error) {
	payload := map[string]interface{}{
		"account": nil,
		"credit":  record.Credit,
	}
	if !record.Account.IsZero() {
		payload["account"] = record.Account.SS58(prefix)
	}

	data, err := jsonutil.MarshalWithoutNulls(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Numeric converts an unsigned amount to a NUMERIC column value. A nil amount is stored as zero.
func Numeric(v *uint256.Int) pgtype.Numeric {
	if v == nil {
		v = uint256.NewInt(0)
	}
	return pgtype.Numeric{Int: v.ToBig(), Exp: 0, Valid: true}
}
