package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dappmarket/marketplace-ledger/internal/elastic_search"
	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"github.com/olivere/elastic/v7"
	"github.com/patrickmn/go-cache"
)

var (
	ErrListingNotFound = errors.New("listing not found")
)

type ListingRepository interface {
	GetListing(itemId uint64) (*entity.Listing, error)
	GetListings(size, page int) ([]entity.Listing, int64, error)
	GetUnsoldListings(size, page int) ([]entity.Listing, int64, error)
	GetListingsBySeller(seller string, size, page int) ([]entity.Listing, int64, error)
}

type listingRepository struct {
	elastic elastic_search.Index
	cache   *cache.Cache
}

func NewListingRepository(elastic elastic_search.Index, c *cache.Cache) ListingRepository {
	return listingRepository{elastic, c}
}

func (r listingRepository) GetListing(itemId uint64) (*entity.Listing, error) {
	cacheKey := fmt.Sprintf("listing-%d", itemId)
	if cached, found := r.cache.Get(cacheKey); found {
		listing := cached.(entity.Listing)
		return &listing, nil
	}

	result, err := search(r.elastic.GetClient().
		Search(elastic_search.ListingIndex.Get()).
		Query(elastic.NewTermQuery("itemId", itemId)).
		Size(1))

	listing, err := r.findOne(result, err)
	if err != nil {
		return nil, err
	}

	// Sold listings never change again, so they can be cached indefinitely.
	if listing.Sold {
		r.cache.Set(cacheKey, *listing, cache.NoExpiration)
	}

	return listing, nil
}

func (r listingRepository) GetListings(size, page int) ([]entity.Listing, int64, error) {
	result, err := search(r.elastic.GetClient().
		Search(elastic_search.ListingIndex.Get()).
		Sort("itemId", true).
		Size(size).
		From((page - 1) * size).
		TrackTotalHits(true))

	return r.findMany(result, err)
}

func (r listingRepository) GetUnsoldListings(size, page int) ([]entity.Listing, int64, error) {
	result, err := search(r.elastic.GetClient().
		Search(elastic_search.ListingIndex.Get()).
		Query(elastic.NewTermQuery("sold", false)).
		Sort("itemId", true).
		Size(size).
		From((page - 1) * size).
		TrackTotalHits(true))

	return r.findMany(result, err)
}

func (r listingRepository) GetListingsBySeller(seller string, size, page int) ([]entity.Listing, int64, error) {
	result, err := search(r.elastic.GetClient().
		Search(elastic_search.ListingIndex.Get()).
		Query(elastic.NewTermQuery("seller.keyword", seller)).
		Sort("itemId", true).
		Size(size).
		From((page - 1) * size).
		TrackTotalHits(true))

	return r.findMany(result, err)
}

func (r listingRepository) findOne(results *elastic.SearchResult, err error) (*entity.Listing, error) {
	if err != nil {
		return nil, err
	}

	if len(results.Hits.Hits) == 0 {
		return nil, ErrListingNotFound
	}

	var listing entity.Listing
	hit := results.Hits.Hits[0]
	if err = json.Unmarshal(hit.Source, &listing); err != nil {
		return nil, err
	}

	return &listing, nil
}

func (r listingRepository) findMany(results *elastic.SearchResult, err error) ([]entity.Listing, int64, error) {
	listings := make([]entity.Listing, 0)

	if err != nil {
		return listings, 0, err
	}

	for _, hit := range results.Hits.Hits {
		var listing entity.Listing
		if err := json.Unmarshal(hit.Source, &listing); err == nil {
			listings = append(listings, listing)
		}
	}

	return listings, results.TotalHits(), nil
}
