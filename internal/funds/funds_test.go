package funds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Deposit(t *testing.T) {
	ledger := NewLedger()

	require.NoError(t, ledger.Deposit("alice", 100))
	require.NoError(t, ledger.Deposit("alice", 50))

	assert.Equal(t, uint64(150), ledger.Balance("alice"))
}

func TestLedger_Deposit_Overflow(t *testing.T) {
	ledger := NewLedger()

	require.NoError(t, ledger.Deposit("alice", math.MaxUint64))
	assert.ErrorIs(t, ledger.Deposit("alice", 1), ErrBalanceOverflow)
	assert.Equal(t, uint64(math.MaxUint64), ledger.Balance("alice"))
}

func TestLedger_Transfer(t *testing.T) {
	ledger := NewLedger()

	require.NoError(t, ledger.Deposit("alice", 100))
	require.NoError(t, ledger.Transfer("alice", "bob", 60))

	assert.Equal(t, uint64(40), ledger.Balance("alice"))
	assert.Equal(t, uint64(60), ledger.Balance("bob"))
}

func TestLedger_Transfer_InsufficientFunds(t *testing.T) {
	ledger := NewLedger()

	require.NoError(t, ledger.Deposit("alice", 10))
	assert.ErrorIs(t, ledger.Transfer("alice", "bob", 11), ErrInsufficientFunds)

	assert.Equal(t, uint64(10), ledger.Balance("alice"))
	assert.Equal(t, uint64(0), ledger.Balance("bob"))
}

func TestLedger_Transfer_Overflow(t *testing.T) {
	ledger := NewLedger()

	require.NoError(t, ledger.Deposit("alice", 100))
	require.NoError(t, ledger.Deposit("bob", math.MaxUint64))

	assert.ErrorIs(t, ledger.Transfer("alice", "bob", 1), ErrBalanceOverflow)
	assert.Equal(t, uint64(100), ledger.Balance("alice"))
}

func TestLedger_Balance_UnknownAccount(t *testing.T) {
	ledger := NewLedger()

	assert.Equal(t, uint64(0), ledger.Balance("nobody"))
}
