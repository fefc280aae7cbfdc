package entity

// ItemOffered is emitted once per created listing, after custody of the token
// has moved to the marketplace.
type ItemOffered struct {
	ItemId   uint64 `json:"itemId"`
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Price    uint64 `json:"price"`
	Seller   string `json:"seller"`
}

// ItemBought is emitted once per settled purchase. Price is the listing's
// nominal price, not the raw payment amount.
type ItemBought struct {
	ItemId   uint64 `json:"itemId"`
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Price    uint64 `json:"price"`
	Seller   string `json:"seller"`
	Buyer    string `json:"buyer"`
}
