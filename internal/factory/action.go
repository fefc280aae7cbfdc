package factory

import (
	"time"

	"github.com/dappmarket/marketplace-ledger/internal/entity"
)

func CreateListingAction(offered entity.ItemOffered, fee uint64, at time.Time) entity.MarketAction {
	return entity.MarketAction{
		ItemId:   offered.ItemId,
		Contract: offered.Contract,
		TokenId:  offered.TokenId,
		Action:   entity.ListingAction,
		Price:    offered.Price,
		Fee:      fee,
		Seller:   offered.Seller,
		Time:     at,
	}
}

func CreateSaleAction(bought entity.ItemBought, fee uint64, at time.Time) entity.MarketAction {
	return entity.MarketAction{
		ItemId:   bought.ItemId,
		Contract: bought.Contract,
		TokenId:  bought.TokenId,
		Action:   entity.SaleAction,
		Price:    bought.Price,
		Fee:      fee,
		Seller:   bought.Seller,
		Buyer:    bought.Buyer,
		Time:     at,
	}
}

func CreateListing(offered entity.ItemOffered) entity.Listing {
	return entity.Listing{
		ItemId:   offered.ItemId,
		Contract: offered.Contract,
		TokenId:  offered.TokenId,
		Price:    offered.Price,
		Seller:   offered.Seller,
		Sold:     false,
	}
}

func CreateSoldListing(bought entity.ItemBought) entity.Listing {
	return entity.Listing{
		ItemId:   bought.ItemId,
		Contract: bought.Contract,
		TokenId:  bought.TokenId,
		Price:    bought.Price,
		Seller:   bought.Seller,
		Sold:     true,
	}
}
