package funds

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBalanceOverflow   = errors.New("balance overflow")
)

// Service is the payment-transfer primitive the ledger settles against.
type Service interface {
	Deposit(account string, amount uint64) error
	Transfer(from, to string, amount uint64) error
	Balance(account string) uint64
}

type ledger struct {
	mu       sync.RWMutex
	balances map[string]uint64
}

func NewLedger() Service {
	return &ledger{balances: make(map[string]uint64)}
}

func (l *ledger) Deposit(account string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.balances[account]
	if balance+amount < balance {
		return ErrBalanceOverflow
	}
	l.balances[account] = balance + amount

	return nil
}

func (l *ledger) Transfer(from, to string, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		zap.L().With(
			zap.String("from", from),
			zap.String("to", to),
			zap.Uint64("amount", amount),
			zap.Uint64("balance", l.balances[from]),
		).Warn("Funds: Transfer rejected")
		return ErrInsufficientFunds
	}

	if l.balances[to]+amount < l.balances[to] {
		return ErrBalanceOverflow
	}

	l.balances[from] -= amount
	l.balances[to] += amount

	return nil
}

func (l *ledger) Balance(account string) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[account]
}
