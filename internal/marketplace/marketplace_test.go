package marketplace

import (
	"errors"
	"testing"
	"time"

	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"github.com/dappmarket/marketplace-ledger/internal/event"
	"github.com/dappmarket/marketplace-ledger/internal/funds"
	"github.com/dappmarket/marketplace-ledger/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	marketAddress = "0x00000000000000000000000000000000004d4b54"
	feeAccount    = "0xfee0000000000000000000000000000000000001"
	seller        = "0x5e11e50000000000000000000000000000000001"
	buyer         = "0xb00e50000000000000000000000000000000001"
	contractAddr  = "0xc011ec7100000000000000000000000000000001"
)

func newTestLedger(t *testing.T, feePercent uint64) (Ledger, *registry.MemoryRegistry, funds.Service) {
	t.Helper()

	reg := registry.NewMemoryRegistry()
	reg.CreateCollection(contractAddr, "Dapp Collection", "DAPP")

	fundsLedger := funds.NewLedger()

	return NewLedger(marketAddress, feeAccount, feePercent, reg, fundsLedger), reg, fundsLedger
}

func listToken(t *testing.T, ledger Ledger, reg *registry.MemoryRegistry, price uint64) uint64 {
	t.Helper()

	tokenId, err := reg.Mint(contractAddr, seller)
	require.NoError(t, err)
	reg.SetApprovalForAll(seller, marketAddress, true)

	itemId, err := ledger.List(seller, contractAddr, tokenId, price)
	require.NoError(t, err)

	return itemId
}

func TestLedger_List(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	itemId := listToken(t, ledger, reg, 2_000_000)
	assert.Equal(t, uint64(1), itemId)

	item, err := ledger.Item(itemId)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), item.ItemId)
	assert.Equal(t, contractAddr, item.Contract)
	assert.Equal(t, uint64(1), item.TokenId)
	assert.Equal(t, uint64(2_000_000), item.Price)
	assert.Equal(t, seller, item.Seller)
	assert.False(t, item.Sold)

	holder, err := reg.HolderOf(contractAddr, item.TokenId)
	require.NoError(t, err)
	assert.Equal(t, marketAddress, holder)
}

func TestLedger_List_SequentialItemIds(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	otherSeller := "0x5e11e50000000000000000000000000000000002"

	first := listToken(t, ledger, reg, 100)

	tokenId, err := reg.Mint(contractAddr, otherSeller)
	require.NoError(t, err)
	reg.SetApprovalForAll(otherSeller, marketAddress, true)
	second, err := ledger.List(otherSeller, contractAddr, tokenId, 200)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Equal(t, uint64(2), ledger.ItemCount())
}

func TestLedger_List_RejectsZeroPrice(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	tokenId, err := reg.Mint(contractAddr, seller)
	require.NoError(t, err)
	reg.SetApprovalForAll(seller, marketAddress, true)

	_, err = ledger.List(seller, contractAddr, tokenId, 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Equal(t, uint64(0), ledger.ItemCount())
}

func TestLedger_List_RejectsNonHolder(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	tokenId, err := reg.Mint(contractAddr, seller)
	require.NoError(t, err)

	_, err = ledger.List("0xdeadbeef", contractAddr, tokenId, 100)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestLedger_List_RejectsWithoutApproval(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	tokenId, err := reg.Mint(contractAddr, seller)
	require.NoError(t, err)

	_, err = ledger.List(seller, contractAddr, tokenId, 100)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestLedger_GetTotalPrice(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	itemId := listToken(t, ledger, reg, 2_000_000)

	total, err := ledger.GetTotalPrice(itemId)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_020_000), total)
}

func TestLedger_GetTotalPrice_TruncatesFee(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 3)

	itemId := listToken(t, ledger, reg, 101)

	total, err := ledger.GetTotalPrice(itemId)
	require.NoError(t, err)

	// fee = floor(101 * 3 / 100) = 3
	assert.Equal(t, uint64(104), total)
}

func TestLedger_GetTotalPrice_UnknownItemComputesOnZero(t *testing.T) {
	ledger, _, _ := newTestLedger(t, 1)

	total, err := ledger.GetTotalPrice(999)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
}

func TestLedger_GetTotalPrice_Overflow(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 100)

	itemId := listToken(t, ledger, reg, ^uint64(0)/2)

	_, err := ledger.GetTotalPrice(itemId)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestLedger_PurchaseItem(t *testing.T) {
	ledger, reg, fundsLedger := newTestLedger(t, 1)

	itemId := listToken(t, ledger, reg, 2_000_000)
	require.NoError(t, fundsLedger.Deposit(buyer, 2_020_000))

	require.NoError(t, ledger.PurchaseItem(buyer, itemId, 2_020_000))

	item, err := ledger.Item(itemId)
	require.NoError(t, err)
	assert.True(t, item.Sold)

	holder, err := reg.HolderOf(contractAddr, item.TokenId)
	require.NoError(t, err)
	assert.Equal(t, buyer, holder)

	assert.Equal(t, uint64(2_000_000), fundsLedger.Balance(seller))
	assert.Equal(t, uint64(20_000), fundsLedger.Balance(feeAccount))
	assert.Equal(t, uint64(0), fundsLedger.Balance(buyer))
}

func TestLedger_PurchaseItem_OverpaymentGoesToFeeAccount(t *testing.T) {
	ledger, reg, fundsLedger := newTestLedger(t, 1)

	itemId := listToken(t, ledger, reg, 1_000)
	require.NoError(t, fundsLedger.Deposit(buyer, 5_000))

	require.NoError(t, ledger.PurchaseItem(buyer, itemId, 5_000))

	assert.Equal(t, uint64(1_000), fundsLedger.Balance(seller))
	assert.Equal(t, uint64(4_000), fundsLedger.Balance(feeAccount))
	assert.Equal(t, uint64(0), fundsLedger.Balance(buyer))
}

func TestLedger_PurchaseItem_UnknownItem(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	listToken(t, ledger, reg, 100)

	assert.ErrorIs(t, ledger.PurchaseItem(buyer, 0, 1_000), ErrItemNotFound)
	assert.ErrorIs(t, ledger.PurchaseItem(buyer, 2, 1_000), ErrItemNotFound)
}

func TestLedger_PurchaseItem_InsufficientPayment(t *testing.T) {
	ledger, reg, fundsLedger := newTestLedger(t, 1)

	itemId := listToken(t, ledger, reg, 2_000_000)
	require.NoError(t, fundsLedger.Deposit(buyer, 2_019_999))

	err := ledger.PurchaseItem(buyer, itemId, 2_019_999)
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	item, err := ledger.Item(itemId)
	require.NoError(t, err)
	assert.False(t, item.Sold)
	assert.Equal(t, uint64(2_019_999), fundsLedger.Balance(buyer))
}

func TestLedger_PurchaseItem_AlreadySold(t *testing.T) {
	ledger, reg, fundsLedger := newTestLedger(t, 1)

	itemId := listToken(t, ledger, reg, 1_000)
	require.NoError(t, fundsLedger.Deposit(buyer, 2_020))

	require.NoError(t, ledger.PurchaseItem(buyer, itemId, 1_010))
	assert.ErrorIs(t, ledger.PurchaseItem(buyer, itemId, 1_010), ErrAlreadySold)

	assert.Equal(t, uint64(1_000), fundsLedger.Balance(seller))
	assert.Equal(t, uint64(10), fundsLedger.Balance(feeAccount))
}

func TestLedger_PurchaseItem_BuyerCannotAffordSettlement(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	itemId := listToken(t, ledger, reg, 2_000_000)

	err := ledger.PurchaseItem(buyer, itemId, 2_020_000)
	assert.ErrorIs(t, err, ErrTransferFailed)

	item, err := ledger.Item(itemId)
	require.NoError(t, err)
	assert.False(t, item.Sold)
}

type failingRegistry struct {
	*registry.MemoryRegistry
	failTransferTo string
}

func (r *failingRegistry) Transfer(contract string, tokenId uint64, from, to string) error {
	if to == r.failTransferTo {
		return errors.New("registry unavailable")
	}

	return r.MemoryRegistry.Transfer(contract, tokenId, from, to)
}

func TestLedger_PurchaseItem_RollbackOnCustodyFailure(t *testing.T) {
	reg := &failingRegistry{MemoryRegistry: registry.NewMemoryRegistry(), failTransferTo: buyer}
	reg.CreateCollection(contractAddr, "Dapp Collection", "DAPP")
	fundsLedger := funds.NewLedger()
	ledger := NewLedger(marketAddress, feeAccount, 1, reg, fundsLedger)

	tokenId, err := reg.Mint(contractAddr, seller)
	require.NoError(t, err)
	reg.SetApprovalForAll(seller, marketAddress, true)

	itemId, err := ledger.List(seller, contractAddr, tokenId, 1_000)
	require.NoError(t, err)
	require.NoError(t, fundsLedger.Deposit(buyer, 1_010))

	err = ledger.PurchaseItem(buyer, itemId, 1_010)
	assert.ErrorIs(t, err, ErrTransferFailed)

	item, err := ledger.Item(itemId)
	require.NoError(t, err)
	assert.False(t, item.Sold)

	assert.Equal(t, uint64(1_010), fundsLedger.Balance(buyer))
	assert.Equal(t, uint64(0), fundsLedger.Balance(seller))
	assert.Equal(t, uint64(0), fundsLedger.Balance(feeAccount))

	holder, err := reg.HolderOf(contractAddr, tokenId)
	require.NoError(t, err)
	assert.Equal(t, marketAddress, holder)
}

func TestLedger_Items_Pagination(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	for i := 0; i < 5; i++ {
		listToken(t, ledger, reg, uint64(100*(i+1)))
	}

	items, total := ledger.Items(2, 2)
	assert.Equal(t, uint64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, uint64(3), items[0].ItemId)
	assert.Equal(t, uint64(4), items[1].ItemId)

	items, total = ledger.Items(2, 3)
	assert.Equal(t, uint64(5), total)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(5), items[0].ItemId)

	items, _ = ledger.Items(0, 1)
	assert.Empty(t, items)
}

func TestLedger_Items_ReturnsCopies(t *testing.T) {
	ledger, reg, _ := newTestLedger(t, 1)

	listToken(t, ledger, reg, 100)

	items, _ := ledger.Items(10, 1)
	require.Len(t, items, 1)
	items[0].Sold = true

	item, err := ledger.Item(1)
	require.NoError(t, err)
	assert.False(t, item.Sold)
}

func TestLedger_Item_UnknownItem(t *testing.T) {
	ledger, _, _ := newTestLedger(t, 1)

	item, err := ledger.Item(1)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Equal(t, entity.Listing{}, item)
}

func TestLedger_Notifications(t *testing.T) {
	offered := make(chan entity.ItemOffered, 64)
	bought := make(chan entity.ItemBought, 64)

	event.AddEventListener(event.ItemOfferedEvent, func(msg interface{}) {
		select {
		case offered <- msg.(entity.ItemOffered):
		default:
		}
	})
	event.AddEventListener(event.ItemBoughtEvent, func(msg interface{}) {
		select {
		case bought <- msg.(entity.ItemBought):
		default:
		}
	})

	ledger, reg, fundsLedger := newTestLedger(t, 1)
	itemId := listToken(t, ledger, reg, 1_000)

	select {
	case o := <-offered:
		assert.Equal(t, itemId, o.ItemId)
		assert.Equal(t, contractAddr, o.Contract)
		assert.Equal(t, uint64(1_000), o.Price)
		assert.Equal(t, seller, o.Seller)

		// Custody has already moved to the marketplace when the
		// notification goes out.
		holder, err := reg.HolderOf(contractAddr, o.TokenId)
		require.NoError(t, err)
		assert.Equal(t, marketAddress, holder)
	case <-time.After(time.Second):
		t.Fatal("no offered notification")
	}

	// A purchase that fails settlement must not notify.
	err := ledger.PurchaseItem(buyer, itemId, 5_000)
	assert.ErrorIs(t, err, ErrTransferFailed)

	select {
	case <-bought:
		t.Fatal("bought notification for a rolled back purchase")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, fundsLedger.Deposit(buyer, 5_000))
	require.NoError(t, ledger.PurchaseItem(buyer, itemId, 5_000))

	select {
	case b := <-bought:
		assert.Equal(t, itemId, b.ItemId)
		assert.Equal(t, buyer, b.Buyer)
		assert.Equal(t, seller, b.Seller)

		// The nominal listing price, not the overpaid amount.
		assert.Equal(t, uint64(1_000), b.Price)
	case <-time.After(time.Second):
		t.Fatal("no bought notification")
	}
}

func TestLedger_Accessors(t *testing.T) {
	ledger, _, _ := newTestLedger(t, 1)

	assert.Equal(t, marketAddress, ledger.Address())
	assert.Equal(t, feeAccount, ledger.FeeAccount())
	assert.Equal(t, uint64(1), ledger.FeePercent())
}
