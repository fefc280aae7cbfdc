package entity

import (
	"fmt"

	"github.com/gosimple/slug"
)

// Listing is a seller's fixed-price offer for a single token. Listings are
// never deleted; a sold listing remains queryable as a historical record.
type Listing struct {
	ItemId   uint64 `json:"itemId"`
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Price    uint64 `json:"price"`
	Seller   string `json:"seller"`
	Sold     bool   `json:"sold"`
}

func (l Listing) Slug() string {
	return CreateListingSlug(l.ItemId)
}

func CreateListingSlug(itemId uint64) string {
	return slug.Make(fmt.Sprintf("listing-%d", itemId))
}
