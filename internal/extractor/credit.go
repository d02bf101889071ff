package extractor

import (
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/extrinsic"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

const (
	CreditCall = "add_or_update_credit_data"

	accountIDField = "account_id"

	// Privileged envelopes nest the credit call a few variants deep; batches add a list layer.
	maxCallDepth = 8
)

// CreditAccounts returns the accounts whose credit data is set by the operations.
// The pallet is not filtered because the call usually arrives inside a privileged envelope.
func CreditAccounts(ops []*extrinsic.Operation) *AccountSet {
	accounts := NewAccountSet()
	for _, op := range ops {
		if op.Is(chain.PalletCredit, CreditCall) && len(op.Args) > 0 {
			if account, err := chain.AccountIDFromValue(op.Args[0]); err == nil {
				accounts.Add(account)
			}
			continue
		}

		for _, arg := range op.Args {
			for _, payload := range findVariants(arg, CreditCall, maxCallDepth) {
				target, err := value.Resolve(payload, value.Key(accountIDField))
				if err != nil {
					continue
				}

				account, err := chain.AccountIDFromValue(target)
				if err != nil {
					continue
				}
				accounts.Add(account)
			}
		}
	}
	return accounts
}

// findVariants collects the payloads of every variant with the tag, searching composites and variant payloads.
func findVariants(v *value.Value, tag string, depth int) []*value.Value {
	if v == nil || depth == 0 {
		return nil
	}

	switch v.Kind() {
	case value.KindVariant:
		if v.Tag() == tag {
			return []*value.Value{v.Payload()}
		}
		return findVariants(v.Payload(), tag, depth-1)
	case value.KindNamed, value.KindUnnamed:
		var found []*value.Value
		for _, child := range v.Children() {
			found = append(found, findVariants(child, tag, depth-1)...)
		}
		return found
	default:
		return nil
	}
}

// CreditState reads the credit score, the second field of the credit data record.
func CreditState(v *value.Value) (uint64, error) {
	v = value.UnwrapOption(v)
	if v == nil {
		return 0, xerrors.Errorf("credit data is none: %w", value.ErrShapeMismatch)
	}

	if v.Kind() != value.KindNamed {
		return 0, xerrors.Errorf("credit data is %v: %w", v.Kind(), value.ErrShapeMismatch)
	}

	credit, err := value.Resolve(v, value.Index(1))
	if err != nil {
		return 0, xerrors.Errorf("failed to resolve credit: %w", err)
	}
	return value.AsUint64(credit)
}
