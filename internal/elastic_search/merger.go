package elastic_search

import (
	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"go.uber.org/zap"
)

func mergeRequests(index string, cached Request, action RequestAction, e entity.Entity) entity.Entity {
	switch {
	case index == ListingIndex.Get():
		result := cached.Entity.(entity.Listing)
		if action == ListingSold {
			result.Sold = e.(entity.Listing).Sold
		} else {
			result = e.(entity.Listing)
		}
		return result

	case index == MarketActionIndex.Get():
		return cached.Entity.(entity.MarketAction)
	}

	zap.L().Fatal("Failed to merge request")
	return nil
}
