package registry

import (
	"sync"

	"go.uber.org/zap"
)

// MemoryRegistry mirrors the shape of an on-chain token contract: tokens are
// minted with dense sequential ids per collection and a holder can grant an
// operator blanket transfer approval.
type MemoryRegistry struct {
	mu          sync.RWMutex
	collections map[string]*collection
	approvals   map[string]map[string]bool
}

type collection struct {
	name       string
	symbol     string
	tokenCount uint64
	holders    map[uint64]string
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		collections: make(map[string]*collection),
		approvals:   make(map[string]map[string]bool),
	}
}

func (r *MemoryRegistry) CreateCollection(contract, name, symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.collections[contract]; exists {
		return
	}

	r.collections[contract] = &collection{
		name:    name,
		symbol:  symbol,
		holders: make(map[uint64]string),
	}
}

func (r *MemoryRegistry) CollectionName(contract string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.collections[contract]
	if !exists {
		return "", ErrContractNotFound
	}

	return c.name, nil
}

func (r *MemoryRegistry) CollectionSymbol(contract string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.collections[contract]
	if !exists {
		return "", ErrContractNotFound
	}

	return c.symbol, nil
}

// Mint assigns the next sequential token id of the collection to the caller.
func (r *MemoryRegistry) Mint(contract, to string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.collections[contract]
	if !exists {
		return 0, ErrContractNotFound
	}

	c.tokenCount++
	c.holders[c.tokenCount] = to

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", c.tokenCount),
		zap.String("to", to),
	).Debug("Registry: Mint")

	return c.tokenCount, nil
}

func (r *MemoryRegistry) TokenCount(contract string) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.collections[contract]
	if !exists {
		return 0, ErrContractNotFound
	}

	return c.tokenCount, nil
}

func (r *MemoryRegistry) SetApprovalForAll(holder, operator string, approved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.approvals[holder]; !exists {
		r.approvals[holder] = make(map[string]bool)
	}
	r.approvals[holder][operator] = approved
}

func (r *MemoryRegistry) HolderOf(contract string, tokenId uint64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.collections[contract]
	if !exists {
		return "", ErrContractNotFound
	}

	holder, exists := c.holders[tokenId]
	if !exists {
		return "", ErrTokenNotFound
	}

	return holder, nil
}

func (r *MemoryRegistry) IsApprovedForAll(holder, operator string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.approvals[holder][operator], nil
}

func (r *MemoryRegistry) Transfer(contract string, tokenId uint64, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.collections[contract]
	if !exists {
		return ErrContractNotFound
	}

	holder, exists := c.holders[tokenId]
	if !exists {
		return ErrTokenNotFound
	}

	if holder != from {
		return ErrNotTokenHolder
	}

	c.holders[tokenId] = to

	zap.L().With(
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.String("from", from),
		zap.String("to", to),
	).Debug("Registry: Transfer")

	return nil
}
