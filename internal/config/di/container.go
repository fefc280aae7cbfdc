package di

import (
	"github.com/dappmarket/marketplace-ledger/internal/api"
	"github.com/dappmarket/marketplace-ledger/internal/elastic_search"
	"github.com/dappmarket/marketplace-ledger/internal/funds"
	"github.com/dappmarket/marketplace-ledger/internal/indexer"
	"github.com/dappmarket/marketplace-ledger/internal/marketplace"
	"github.com/dappmarket/marketplace-ledger/internal/messenger"
	"github.com/dappmarket/marketplace-ledger/internal/registry"
	"github.com/dappmarket/marketplace-ledger/internal/repository"
	"github.com/dappmarket/marketplace-ledger/internal/storefront"
	"github.com/patrickmn/go-cache"
	"github.com/sarulabs/di/v2"
)

type Container struct {
	ctn di.Container
}

func NewContainer() (*Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(definitions...); err != nil {
		return nil, err
	}

	return &Container{ctn: builder.Build()}, nil
}

func (c *Container) GetElastic() elastic_search.Index {
	return c.ctn.Get("elastic").(elastic_search.Index)
}

func (c *Container) GetCache() *cache.Cache {
	return c.ctn.Get("cache").(*cache.Cache)
}

func (c *Container) GetRegistry() registry.Registry {
	return c.ctn.Get("registry").(registry.Registry)
}

func (c *Container) GetFunds() funds.Service {
	return c.ctn.Get("funds").(funds.Service)
}

func (c *Container) GetLedger() marketplace.Ledger {
	return c.ctn.Get("ledger").(marketplace.Ledger)
}

func (c *Container) GetMarketIndexer() indexer.MarketIndexer {
	return c.ctn.Get("market.indexer").(indexer.MarketIndexer)
}

func (c *Container) GetMessenger() messenger.MessageService {
	return c.ctn.Get("messenger").(messenger.MessageService)
}

func (c *Container) GetNotifier() messenger.Notifier {
	return c.ctn.Get("notifier").(messenger.Notifier)
}

func (c *Container) GetStorefront() storefront.Service {
	return c.ctn.Get("storefront").(storefront.Service)
}

func (c *Container) GetListingRepo() repository.ListingRepository {
	return c.ctn.Get("listing.repo").(repository.ListingRepository)
}

func (c *Container) GetActionRepo() repository.MarketActionRepository {
	return c.ctn.Get("action.repo").(repository.MarketActionRepository)
}

func (c *Container) GetApiServer() api.Server {
	return c.ctn.Get("api.server").(api.Server)
}
