package marketplace

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"github.com/dappmarket/marketplace-ledger/internal/event"
	"github.com/dappmarket/marketplace-ledger/internal/funds"
	"github.com/dappmarket/marketplace-ledger/internal/registry"
	"go.uber.org/zap"
)

var (
	ErrInvalidPrice        = errors.New("price must be greater than 0")
	ErrNotAuthorized       = errors.New("caller is not holder or marketplace not approved")
	ErrItemNotFound        = errors.New("item does not exist")
	ErrInsufficientPayment = errors.New("not enough funds to cover the price and market fee")
	ErrAlreadySold         = errors.New("item is already sold")
	ErrTransferFailed      = errors.New("external transfer failed")
	ErrAmountOverflow      = errors.New("amount overflow")
)

// Ledger tracks fixed-price listings and settles purchases atomically:
// custody to the buyer, price to the seller, the remainder of the payment to
// the fee account. Mutating operations are serialized behind a single writer
// lock; reads see committed state only.
type Ledger interface {
	List(seller, contract string, tokenId, price uint64) (uint64, error)
	GetTotalPrice(itemId uint64) (uint64, error)
	PurchaseItem(buyer string, itemId, payment uint64) error

	Item(itemId uint64) (entity.Listing, error)
	Items(size, page int) ([]entity.Listing, uint64)
	ItemCount() uint64
	FeeAccount() string
	FeePercent() uint64
	Address() string
}

type ledger struct {
	mu         sync.RWMutex
	address    string
	feeAccount string
	feePercent uint64
	registry   registry.Registry
	funds      funds.Service
	listings   []*entity.Listing
}

// NewLedger records the constructing caller as the fee account. Both the fee
// account and the fee percent are immutable afterwards.
func NewLedger(address, caller string, feePercent uint64, reg registry.Registry, fundsService funds.Service) Ledger {
	return &ledger{
		address:    address,
		feeAccount: caller,
		feePercent: feePercent,
		registry:   reg,
		funds:      fundsService,
		listings:   make([]*entity.Listing, 0),
	}
}

func (l *ledger) List(seller, contract string, tokenId, price uint64) (uint64, error) {
	if price == 0 {
		return 0, ErrInvalidPrice
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	holder, err := l.registry.HolderOf(contract, tokenId)
	if err != nil || holder != seller {
		zap.L().With(
			zap.String("contract", contract),
			zap.Uint64("tokenId", tokenId),
			zap.String("seller", seller),
			zap.Error(err),
		).Warn("Marketplace: Listing rejected, seller is not the holder")
		return 0, ErrNotAuthorized
	}

	approved, err := l.registry.IsApprovedForAll(seller, l.address)
	if err != nil || !approved {
		zap.L().With(
			zap.String("seller", seller),
			zap.Error(err),
		).Warn("Marketplace: Listing rejected, marketplace is not approved")
		return 0, ErrNotAuthorized
	}

	if err := l.registry.Transfer(contract, tokenId, seller, l.address); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	itemId := uint64(len(l.listings)) + 1
	listing := &entity.Listing{
		ItemId:   itemId,
		Contract: contract,
		TokenId:  tokenId,
		Price:    price,
		Seller:   seller,
		Sold:     false,
	}
	l.listings = append(l.listings, listing)

	zap.L().With(
		zap.Uint64("itemId", itemId),
		zap.String("contract", contract),
		zap.Uint64("tokenId", tokenId),
		zap.Uint64("price", price),
		zap.String("seller", seller),
	).Info("Marketplace: Item offered")

	event.EmitEvent(event.ItemOfferedEvent, entity.ItemOffered{
		ItemId:   itemId,
		Contract: contract,
		TokenId:  tokenId,
		Price:    price,
		Seller:   seller,
	})

	return itemId, nil
}

// GetTotalPrice is a pure computation. An item id outside the catalog
// computes on a zero listing and yields 0, matching the reference behaviour.
func (l *ledger) GetTotalPrice(itemId uint64) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.totalPrice(itemId)
}

func (l *ledger) totalPrice(itemId uint64) (uint64, error) {
	var price uint64
	if itemId >= 1 && itemId <= uint64(len(l.listings)) {
		price = l.listings[itemId-1].Price
	}

	fee, err := mulDiv(price, l.feePercent, 100)
	if err != nil {
		return 0, err
	}

	return add(price, fee)
}

func (l *ledger) PurchaseItem(buyer string, itemId, payment uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if itemId < 1 || itemId > uint64(len(l.listings)) {
		return ErrItemNotFound
	}

	total, err := l.totalPrice(itemId)
	if err != nil {
		return err
	}

	if payment < total {
		return ErrInsufficientPayment
	}

	listing := l.listings[itemId-1]
	if listing.Sold {
		return ErrAlreadySold
	}

	// Commit before touching external capabilities so a re-entrant purchase
	// of the same item is rejected by the AlreadySold check. Any external
	// failure rolls the flag back along with completed transfers.
	listing.Sold = true

	if err := l.settle(buyer, listing, payment); err != nil {
		listing.Sold = false
		return err
	}

	zap.L().With(
		zap.Uint64("itemId", itemId),
		zap.String("contract", listing.Contract),
		zap.Uint64("tokenId", listing.TokenId),
		zap.Uint64("price", listing.Price),
		zap.Uint64("payment", payment),
		zap.String("seller", listing.Seller),
		zap.String("buyer", buyer),
	).Info("Marketplace: Item bought")

	event.EmitEvent(event.ItemBoughtEvent, entity.ItemBought{
		ItemId:   itemId,
		Contract: listing.Contract,
		TokenId:  listing.TokenId,
		Price:    listing.Price,
		Seller:   listing.Seller,
		Buyer:    buyer,
	})

	return nil
}

// settle performs the three-way transfer. On failure every completed step is
// reversed so the caller observes no partial effect.
func (l *ledger) settle(buyer string, listing *entity.Listing, payment uint64) error {
	if err := l.funds.Transfer(buyer, listing.Seller, listing.Price); err != nil {
		return fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	// Overpayment is absorbed into the fee.
	fee := payment - listing.Price
	if err := l.funds.Transfer(buyer, l.feeAccount, fee); err != nil {
		l.reverse(listing.Seller, buyer, listing.Price)
		return fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	if err := l.registry.Transfer(listing.Contract, listing.TokenId, l.address, buyer); err != nil {
		l.reverse(l.feeAccount, buyer, fee)
		l.reverse(listing.Seller, buyer, listing.Price)
		return fmt.Errorf("%w: %s", ErrTransferFailed, err)
	}

	return nil
}

func (l *ledger) reverse(from, to string, amount uint64) {
	if err := l.funds.Transfer(from, to, amount); err != nil {
		zap.L().With(
			zap.String("from", from),
			zap.String("to", to),
			zap.Uint64("amount", amount),
			zap.Error(err),
		).Error("Marketplace: Failed to reverse transfer during rollback")
	}
}

func (l *ledger) Item(itemId uint64) (entity.Listing, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if itemId < 1 || itemId > uint64(len(l.listings)) {
		return entity.Listing{}, ErrItemNotFound
	}

	return *l.listings[itemId-1], nil
}

func (l *ledger) Items(size, page int) ([]entity.Listing, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	items := make([]entity.Listing, 0)

	if size < 1 || page < 1 {
		return items, uint64(len(l.listings))
	}

	from := (page - 1) * size
	for idx := from; idx < from+size && idx < len(l.listings); idx++ {
		items = append(items, *l.listings[idx])
	}

	return items, uint64(len(l.listings))
}

func (l *ledger) ItemCount() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return uint64(len(l.listings))
}

func (l *ledger) FeeAccount() string {
	return l.feeAccount
}

func (l *ledger) FeePercent() uint64 {
	return l.feePercent
}

func (l *ledger) Address() string {
	return l.address
}
