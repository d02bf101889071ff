package extrinsic

import (
	"github.com/deeper-chain/deeper-archive/internal/chain"
	"github.com/deeper-chain/deeper-archive/internal/value"
)

type (
	// Operation is one submitted call recorded in a block.
	Operation struct {
		Pallet    string
		Call      string
		Args      []*value.Value
		Signature *Signature
	}

	// Signature is present on signed operations only.
	// Address is nil when the signer is not addressed by its raw account identity.
	Signature struct {
		Address    *chain.AccountID
		Extensions []Extension
	}

	Extension struct {
		Name  string
		Value *value.Value
	}
)

// Signer returns the identity of the signing account, if any.
func (o *Operation) Signer() (chain.AccountID, bool) {
	if o == nil || o.Signature == nil || o.Signature.Address == nil {
		return chain.AccountID{}, false
	}
	return *o.Signature.Address, true
}

func (o *Operation) Is(pallet string, calls ...string) bool {
	if o == nil || o.Pallet != pallet {
		return false
	}

	if len(calls) == 0 {
		return true
	}

	for _, call := range calls {
		if o.Call == call {
			return true
		}
	}
	return false
}

// Extension returns the extension with the given name, e.g. CheckNonce.
func (s *Signature) Extension(name string) (*value.Value, bool) {
	if s == nil {
		return nil, false
	}

	for _, ext := range s.Extensions {
		if ext.Name == name {
			return ext.Value, true
		}
	}
	return nil, false
}
