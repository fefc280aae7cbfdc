package registry

import "errors"

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrContractNotFound = errors.New("contract not found")
	ErrNotTokenHolder   = errors.New("not the token holder")
)

// Registry is the external system of record for token ownership. The ledger
// only ever moves a token after the holder has granted it operator approval.
type Registry interface {
	HolderOf(contract string, tokenId uint64) (string, error)
	IsApprovedForAll(holder, operator string) (bool, error)
	Transfer(contract string, tokenId uint64, from, to string) error
}
