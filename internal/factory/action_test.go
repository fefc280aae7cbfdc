package factory

import (
	"testing"
	"time"

	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestCreateListingAction(t *testing.T) {
	now := time.Now()
	offered := entity.ItemOffered{
		ItemId:   1,
		Contract: "0xc011ec71",
		TokenId:  7,
		Price:    2_000_000,
		Seller:   "0x5e11e5",
	}

	action := CreateListingAction(offered, 20_000, now)

	assert.Equal(t, entity.ListingAction, action.Action)
	assert.Equal(t, uint64(1), action.ItemId)
	assert.Equal(t, uint64(2_000_000), action.Price)
	assert.Equal(t, uint64(20_000), action.Fee)
	assert.Equal(t, "0x5e11e5", action.Seller)
	assert.Empty(t, action.Buyer)
	assert.Equal(t, now, action.Time)
}

func TestCreateSaleAction(t *testing.T) {
	now := time.Now()
	bought := entity.ItemBought{
		ItemId:   1,
		Contract: "0xc011ec71",
		TokenId:  7,
		Price:    2_000_000,
		Seller:   "0x5e11e5",
		Buyer:    "0xb00e5",
	}

	action := CreateSaleAction(bought, 20_000, now)

	assert.Equal(t, entity.SaleAction, action.Action)
	assert.Equal(t, "0xb00e5", action.Buyer)
	assert.Equal(t, uint64(20_000), action.Fee)
}

func TestCreateListings(t *testing.T) {
	offered := entity.ItemOffered{ItemId: 1, Contract: "0xc011ec71", TokenId: 7, Price: 100, Seller: "0x5e11e5"}
	bought := entity.ItemBought{ItemId: 1, Contract: "0xc011ec71", TokenId: 7, Price: 100, Seller: "0x5e11e5", Buyer: "0xb00e5"}

	assert.False(t, CreateListing(offered).Sold)
	assert.True(t, CreateSoldListing(bought).Sold)

	assert.Equal(t, CreateListing(offered).Slug(), CreateSoldListing(bought).Slug())
}
