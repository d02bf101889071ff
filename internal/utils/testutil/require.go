package testutil

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

type Assertions struct {
	*require.Assertions
	t testing.TB
}

func Require(t testing.TB) *Assertions {
	return &Assertions{
		Assertions: require.New(t),
		t:          t,
	}
}

// EqualUint256 compares a 128-bit amount with an expected decimal string.
func (a *Assertions) EqualUint256(expected string, actual *uint256.Int, msgAndArgs ...interface{}) {
	a.t.Helper()
	a.NotNil(actual, msgAndArgs...)
	a.Equal(expected, actual.Dec(), msgAndArgs...)
}
