package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"github.com/dappmarket/marketplace-ledger/internal/funds"
	"github.com/dappmarket/marketplace-ledger/internal/marketplace"
	"github.com/dappmarket/marketplace-ledger/internal/repository"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// callerHeader carries the caller identity supplied by the authenticated
// execution context in front of this service.
const callerHeader = "X-Caller-Address"

type Server struct {
	ledger      marketplace.Ledger
	funds       funds.Service
	listingRepo repository.ListingRepository
	actionRepo  repository.MarketActionRepository
}

func NewServer(ledger marketplace.Ledger, fundsService funds.Service, listingRepo repository.ListingRepository, actionRepo repository.MarketActionRepository) Server {
	return Server{ledger, fundsService, listingRepo, actionRepo}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHomepage).Methods("GET")
	r.HandleFunc("/items", s.handleCreateItem).Methods("POST")
	r.HandleFunc("/items", s.handleGetItems).Methods("GET")
	r.HandleFunc("/items/{itemId}", s.handleGetItem).Methods("GET")
	r.HandleFunc("/items/{itemId}/total-price", s.handleGetTotalPrice).Methods("GET")
	r.HandleFunc("/items/{itemId}/purchase", s.handlePurchaseItem).Methods("POST")
	r.HandleFunc("/items/{itemId}/actions", s.handleGetItemActions).Methods("GET")
	r.HandleFunc("/listings", s.handleGetListings).Methods("GET")
	r.HandleFunc("/listings/unsold", s.handleGetUnsoldListings).Methods("GET")
	r.HandleFunc("/listings/{itemId}", s.handleGetListing).Methods("GET")
	r.HandleFunc("/actions", s.handleGetActions).Methods("GET")
	r.HandleFunc("/sales", s.handleGetSales).Methods("GET")
	r.HandleFunc("/tokens/{contract}/{tokenId}/actions", s.handleGetTokenActions).Methods("GET")
	r.HandleFunc("/funds/deposits", s.handleDeposit).Methods("POST")
	r.HandleFunc("/funds/balance", s.handleGetBalance).Methods("GET")
	r.NotFoundHandler = notFoundHandler()

	return r
}

func (s Server) handleHomepage(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintf(w, "Marketplace Ledger")
}

type createItemRequest struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Price    uint64 `json:"price"`
}

func (s Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get(callerHeader)
	if caller == "" {
		http.Error(w, "Missing caller identity", http.StatusUnauthorized)
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	itemId, err := s.ledger.List(caller, req.Contract, req.TokenId, req.Price)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJson(w, map[string]uint64{"itemId": itemId})
}

func (s Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	size, page := pagination(r)

	items, total := s.ledger.Items(size, page)
	writeJson(w, map[string]interface{}{"items": items, "total": total})
}

func (s Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	itemId, err := getItemId(r)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	item, err := s.ledger.Item(itemId)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJson(w, item)
}

func (s Server) handleGetTotalPrice(w http.ResponseWriter, r *http.Request) {
	itemId, err := getItemId(r)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	total, err := s.ledger.GetTotalPrice(itemId)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJson(w, map[string]uint64{"totalPrice": total})
}

type purchaseItemRequest struct {
	Payment uint64 `json:"payment"`
}

func (s Server) handlePurchaseItem(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get(callerHeader)
	if caller == "" {
		http.Error(w, "Missing caller identity", http.StatusUnauthorized)
		return
	}

	itemId, err := getItemId(r)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	var req purchaseItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.ledger.PurchaseItem(caller, itemId, req.Payment); err != nil {
		writeLedgerError(w, err)
		return
	}

	writeJson(w, map[string]bool{"purchased": true})
}

func (s Server) handleGetItemActions(w http.ResponseWriter, r *http.Request) {
	itemId, err := getItemId(r)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	size, page := pagination(r)

	actions, total, err := s.actionRepo.GetActionsByItem(itemId, size, page)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Item actions not available")
		http.Error(w, "Item actions not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]interface{}{"actions": actions, "total": total})
}

func (s Server) handleGetListings(w http.ResponseWriter, r *http.Request) {
	size, page := pagination(r)

	var listings []entity.Listing
	var total int64
	var err error

	if seller := r.URL.Query().Get("seller"); seller != "" {
		listings, total, err = s.listingRepo.GetListingsBySeller(seller, size, page)
	} else {
		listings, total, err = s.listingRepo.GetListings(size, page)
	}
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Listings not available")
		http.Error(w, "Listings not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]interface{}{"listings": listings, "total": total})
}

func (s Server) handleGetUnsoldListings(w http.ResponseWriter, r *http.Request) {
	size, page := pagination(r)

	listings, total, err := s.listingRepo.GetUnsoldListings(size, page)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Listings not available")
		http.Error(w, "Listings not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]interface{}{"listings": listings, "total": total})
}

func (s Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	itemId, err := getItemId(r)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	listing, err := s.listingRepo.GetListing(itemId)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		zap.L().With(zap.Error(err)).Warn("Listing not available")
		http.Error(w, "Listing not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, listing)
}

func (s Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	size, page := pagination(r)

	actions, total, err := s.actionRepo.GetActions(size, page)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Actions not available")
		http.Error(w, "Actions not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]interface{}{"actions": actions, "total": total})
}

func (s Server) handleGetSales(w http.ResponseWriter, r *http.Request) {
	size, page := pagination(r)

	sales, total, err := s.actionRepo.GetSales(size, page)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Sales not available")
		http.Error(w, "Sales not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]interface{}{"sales": sales, "total": total})
}

func (s Server) handleGetTokenActions(w http.ResponseWriter, r *http.Request) {
	contract := mux.Vars(r)["contract"]

	tokenId, err := strconv.ParseUint(mux.Vars(r)["tokenId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	size, page := pagination(r)

	actions, total, err := s.actionRepo.GetActionsByToken(contract, tokenId, size, page)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Token actions not available")
		http.Error(w, "Token actions not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, map[string]interface{}{"actions": actions, "total": total})
}

type depositRequest struct {
	Amount uint64 `json:"amount"`
}

func (s Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get(callerHeader)
	if caller == "" {
		http.Error(w, "Missing caller identity", http.StatusUnauthorized)
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.funds.Deposit(caller, req.Amount); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJson(w, map[string]uint64{"balance": s.funds.Balance(caller)})
}

func (s Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get(callerHeader)
	if caller == "" {
		http.Error(w, "Missing caller identity", http.StatusUnauthorized)
		return
	}

	writeJson(w, map[string]uint64{"balance": s.funds.Balance(caller)})
}

func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketplace.ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, marketplace.ErrInvalidPrice):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, marketplace.ErrNotAuthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, marketplace.ErrInsufficientPayment):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, marketplace.ErrAlreadySold):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, marketplace.ErrAmountOverflow):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, marketplace.ErrTransferFailed):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func writeJson(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to encode response")
	}
}

func getItemId(r *http.Request) (uint64, error) {
	itemId, ok := mux.Vars(r)["itemId"]
	if !ok {
		return 0, errors.New("invalid parameters")
	}

	return strconv.ParseUint(itemId, 10, 64)
}

func pagination(r *http.Request) (int, int) {
	size := 10
	if value, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && value > 0 {
		size = value
	}

	page := 1
	if value, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && value > 0 {
		page = value
	}

	return size, page
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
