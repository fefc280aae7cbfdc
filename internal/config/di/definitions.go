package di

import (
	"time"

	"github.com/dappmarket/marketplace-ledger/internal/api"
	"github.com/dappmarket/marketplace-ledger/internal/config"
	"github.com/dappmarket/marketplace-ledger/internal/elastic_search"
	"github.com/dappmarket/marketplace-ledger/internal/funds"
	"github.com/dappmarket/marketplace-ledger/internal/indexer"
	"github.com/dappmarket/marketplace-ledger/internal/marketplace"
	"github.com/dappmarket/marketplace-ledger/internal/messenger"
	"github.com/dappmarket/marketplace-ledger/internal/registry"
	"github.com/dappmarket/marketplace-ledger/internal/repository"
	"github.com/dappmarket/marketplace-ledger/internal/storefront"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"
	"github.com/sarulabs/di/v2"
	"go.uber.org/zap"
)

var definitions = []di.Def{
	{
		Name: "elastic",
		Build: func(ctn di.Container) (interface{}, error) {
			elastic, err := elastic_search.New()
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to start ES")
			}

			return elastic, nil
		},
	},
	{
		Name: "cache",
		Build: func(ctn di.Container) (interface{}, error) {
			return cache.New(5*time.Minute, 10*time.Minute), nil
		},
	},
	{
		Name: "registry",
		Build: func(ctn di.Container) (interface{}, error) {
			if url := config.Get().Registry.Url; url != "" {
				return registry.NewRemoteRegistry(url, config.Get().Registry.Timeout, config.Get().Registry.Debug)
			}

			return registry.NewMemoryRegistry(), nil
		},
	},
	{
		Name: "funds",
		Build: func(ctn di.Container) (interface{}, error) {
			return funds.NewLedger(), nil
		},
	},
	{
		Name: "ledger",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get()
			return marketplace.NewLedger(
				cfg.MarketAddress,
				cfg.FeeAccount,
				cfg.FeePercent,
				ctn.Get("registry").(registry.Registry),
				ctn.Get("funds").(funds.Service),
			), nil
		},
	},
	{
		Name: "market.indexer",
		Build: func(ctn di.Container) (interface{}, error) {
			return indexer.NewMarketIndexer(
				ctn.Get("elastic").(elastic_search.Index),
				config.Get().FeePercent,
			), nil
		},
	},
	{
		Name: "messenger",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewMessenger(config.Get().AmqpUri), nil
		},
	},
	{
		Name: "notifier",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewNotifier(ctn.Get("messenger").(messenger.MessageService)), nil
		},
	},
	{
		Name: "storefront",
		Build: func(ctn di.Container) (interface{}, error) {
			client := retryablehttp.NewClient()
			client.Logger = nil
			client.RetryMax = 3

			return storefront.NewService(
				config.Get().Storefront.CdnUrl,
				config.Get().Storefront.AccessKey,
				client,
			), nil
		},
	},
	{
		Name: "listing.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewListingRepository(
				ctn.Get("elastic").(elastic_search.Index),
				ctn.Get("cache").(*cache.Cache),
			), nil
		},
	},
	{
		Name: "action.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewMarketActionRepository(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "api.server",
		Build: func(ctn di.Container) (interface{}, error) {
			return api.NewServer(
				ctn.Get("ledger").(marketplace.Ledger),
				ctn.Get("funds").(funds.Service),
				ctn.Get("listing.repo").(repository.ListingRepository),
				ctn.Get("action.repo").(repository.MarketActionRepository),
			), nil
		},
	},
}
