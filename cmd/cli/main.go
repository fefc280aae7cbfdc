package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dappmarket/marketplace-ledger/internal/config"
	"github.com/dappmarket/marketplace-ledger/internal/config/di"
	"github.com/dappmarket/marketplace-ledger/internal/dev"
	"github.com/dappmarket/marketplace-ledger/internal/messenger"
	"github.com/dappmarket/marketplace-ledger/internal/registry"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var container *di.Container

func main() {
	config.Init("cli")

	var err error
	container, err = di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "items",
				Usage:  "List items in the ledger catalog",
				Action: listItems,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "size", Value: 10, Usage: "page size"},
					&cli.IntFlag{Name: "page", Value: 1, Usage: "page number"},
				},
			},
			{
				Name:   "item",
				Usage:  "Show a single item by id",
				Action: showItem,
			},
			{
				Name:   "reindex",
				Usage:  "Replay the ledger catalog into the listing index",
				Action: reindexListings,
			},
			{
				Name:   "queue",
				Usage:  "Show the message queue sizes",
				Action: queueSizes,
			},
			{
				Name:   "demo",
				Usage:  "Run a mint-list-purchase round trip against the in-memory collaborators",
				Action: runDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start CLI")
	}
}

func listItems(c *cli.Context) error {
	items, total := container.GetLedger().Items(c.Int("size"), c.Int("page"))

	zap.S().Infof("Found %d items", total)
	for _, item := range items {
		dev.Dump(item)
	}

	return nil
}

func showItem(c *cli.Context) error {
	itemId, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		zap.L().Error("No item id provided")
		return nil
	}

	item, err := container.GetLedger().Item(itemId)
	if err != nil {
		zap.S().Errorf("Failed to find item: %d", itemId)
		return err
	}

	dev.Dump(item)

	total, err := container.GetLedger().GetTotalPrice(itemId)
	if err != nil {
		return err
	}
	zap.S().Infof("Total price: %d", total)

	return nil
}

func reindexListings(c *cli.Context) error {
	size := 100
	page := 1

	for {
		listings, total := container.GetLedger().Items(size, page)
		if page == 1 {
			zap.S().Infof("Found %d listings", total)
		}
		if len(listings) == 0 {
			break
		}

		if err := container.GetMarketIndexer().IndexListings(listings); err != nil {
			zap.L().With(zap.Error(err)).Error("Failed to reindex listings")
			return err
		}
		page++
	}

	zap.L().Info("Reindex complete")

	return nil
}

func queueSizes(c *cli.Context) error {
	for _, item := range []messenger.Item{messenger.ItemListed, messenger.ItemSold} {
		size, err := container.GetMessenger().GetQueueSize(item)
		if err != nil {
			zap.L().With(zap.Error(err)).Error("Could not get the queue size")
			return err
		}
		zap.S().Infof("%s: %d", item, *size)
	}

	return nil
}

func runDemo(c *cli.Context) error {
	reg, ok := container.GetRegistry().(*registry.MemoryRegistry)
	if !ok {
		zap.L().Error("Demo requires the in-memory registry")
		return nil
	}

	ledger := container.GetLedger()
	funds := container.GetFunds()

	const (
		contract = "0xd00d000000000000000000000000000000000001"
		seller   = "0x5e11e400000000000000000000000000000000aa"
		buyer    = "0xb0bb000000000000000000000000000000000bbb"
	)

	reg.CreateCollection(contract, "Dapp Collection", "DAPP")
	tokenId, err := reg.Mint(contract, seller)
	if err != nil {
		return err
	}
	reg.SetApprovalForAll(seller, ledger.Address(), true)

	itemId, err := ledger.List(seller, contract, tokenId, 2_000_000)
	if err != nil {
		return err
	}

	total, err := ledger.GetTotalPrice(itemId)
	if err != nil {
		return err
	}

	if err := funds.Deposit(buyer, total); err != nil {
		return err
	}
	if err := ledger.PurchaseItem(buyer, itemId, total); err != nil {
		return err
	}

	item, err := ledger.Item(itemId)
	if err != nil {
		return err
	}
	dev.Dump(item)

	zap.S().Infof("Seller balance: %d", funds.Balance(seller))
	zap.S().Infof("Fee account balance: %d", funds.Balance(ledger.FeeAccount()))

	holder, _ := reg.HolderOf(contract, tokenId)
	zap.S().Infof("Token holder: %s", holder)

	fmt.Println("Demo complete")

	return nil
}
