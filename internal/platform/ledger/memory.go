package ledger

import (
	"context"
	"math"
	"strings"
	"sync"
)

// Memory is the in-process ledger used by tests and in-memory module wiring.
type Memory struct {
	mu       sync.Mutex
	balances map[string]uint64
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[string]uint64)}
}

// Deposit credits an account from outside the system. Used to fund creators
// in tests and local runs.
func (m *Memory) Deposit(_ context.Context, account string, amount uint64) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return ErrInvalidAccount
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.balances[account]
	if current > math.MaxUint64-amount {
		return ErrAmountOverflow
	}
	m.balances[account] = current + amount
	return nil
}

func (m *Memory) Balance(_ context.Context, account string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[strings.TrimSpace(account)], nil
}

func (m *Memory) Transfer(_ context.Context, from string, to string, amount uint64) error {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" || from == to {
		return ErrInvalidAccount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	source := m.balances[from]
	if source < amount {
		return ErrInsufficientFunds
	}
	target := m.balances[to]
	if target > math.MaxUint64-amount {
		return ErrAmountOverflow
	}
	m.balances[from] = source - amount
	m.balances[to] = target + amount
	return nil
}

func (m *Memory) MinimumReserve(sizeBytes int) uint64 {
	return ComputeMinimumReserve(sizeBytes)
}
