package indexer

import (
	"time"

	"github.com/dappmarket/marketplace-ledger/internal/elastic_search"
	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"github.com/dappmarket/marketplace-ledger/internal/event"
	"github.com/dappmarket/marketplace-ledger/internal/factory"
	"go.uber.org/zap"
)

// MarketIndexer projects Offered/Bought notifications into Elasticsearch:
// one listing document kept current plus an append-only action history.
type MarketIndexer interface {
	IndexOffered(el interface{})
	IndexBought(el interface{})

	IndexListings(listings []entity.Listing) error
}

type marketIndexer struct {
	elastic    elastic_search.Index
	feePercent uint64
}

func NewMarketIndexer(elastic elastic_search.Index, feePercent uint64) MarketIndexer {
	i := marketIndexer{elastic, feePercent}

	event.AddEventListener(event.ItemOfferedEvent, i.IndexOffered)
	event.AddEventListener(event.ItemBoughtEvent, i.IndexBought)

	return i
}

func (i marketIndexer) IndexOffered(el interface{}) {
	offered := el.(entity.ItemOffered)

	zap.L().With(
		zap.Uint64("itemId", offered.ItemId),
		zap.String("contract", offered.Contract),
		zap.Uint64("tokenId", offered.TokenId),
	).Info("MarketIndexer: Index listing")

	i.elastic.AddIndexRequest(elastic_search.ListingIndex.Get(), factory.CreateListing(offered), elastic_search.ListingCreate)
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(), factory.CreateListingAction(offered, i.nominalFee(offered.Price), time.Now()), elastic_search.MarketAction)
	i.elastic.Persist()
}

func (i marketIndexer) IndexBought(el interface{}) {
	bought := el.(entity.ItemBought)

	zap.L().With(
		zap.Uint64("itemId", bought.ItemId),
		zap.String("contract", bought.Contract),
		zap.Uint64("tokenId", bought.TokenId),
		zap.String("buyer", bought.Buyer),
	).Info("MarketIndexer: Index sale")

	i.elastic.AddUpdateRequest(elastic_search.ListingIndex.Get(), factory.CreateSoldListing(bought), elastic_search.ListingSold)
	i.elastic.AddIndexRequest(elastic_search.MarketActionIndex.Get(), factory.CreateSaleAction(bought, i.nominalFee(bought.Price), time.Now()), elastic_search.MarketAction)
	i.elastic.Persist()
}

// IndexListings replays ledger state into the listing index. Used by the CLI
// to rebuild the index from the ledger's own catalog.
func (i marketIndexer) IndexListings(listings []entity.Listing) error {
	for _, listing := range listings {
		i.elastic.AddIndexRequest(elastic_search.ListingIndex.Get(), listing, elastic_search.ListingCreate)
		i.elastic.BatchPersist()
	}
	i.elastic.Persist()

	return nil
}

func (i marketIndexer) nominalFee(price uint64) uint64 {
	return price * i.feePercent / 100
}
