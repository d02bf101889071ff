package extractor

import (
	"github.com/deeper-chain/deeper-archive/internal/chain"
)

// AccountSet keeps accounts unique in insertion order.
type AccountSet struct {
	accounts []chain.AccountID
	seen     map[chain.AccountID]struct{}
}

func NewAccountSet() *AccountSet {
	return &AccountSet{
		seen: make(map[chain.AccountID]struct{}),
	}
}

func (s *AccountSet) Add(account chain.AccountID) {
	if _, ok := s.seen[account]; ok {
		return
	}
	s.seen[account] = struct{}{}
	s.accounts = append(s.accounts, account)
}

func (s *AccountSet) Contains(account chain.AccountID) bool {
	_, ok := s.seen[account]
	return ok
}

func (s *AccountSet) Len() int {
	return len(s.accounts)
}

func (s *AccountSet) Accounts() []chain.AccountID {
	return s.accounts
}
