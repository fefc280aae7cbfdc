package storefront

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"github.com/dappmarket/marketplace-ledger/internal/event"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Service purges the storefront CDN cache for an item page whenever its
// listing state changes, so buyers never see a stale sold/unsold state.
type Service interface {
	PurgeFromOffered(el interface{})
	PurgeFromBought(el interface{})
	PurgeCache(itemId uint64) error
}

type service struct {
	cdnUrl    string
	accessKey string
	client    *retryablehttp.Client
}

func NewService(cdnUrl, accessKey string, client *retryablehttp.Client) Service {
	s := service{cdnUrl, accessKey, client}

	event.AddEventListener(event.ItemOfferedEvent, s.PurgeFromOffered)
	event.AddEventListener(event.ItemBoughtEvent, s.PurgeFromBought)

	return s
}

func (s service) PurgeFromOffered(el interface{}) {
	offered := el.(entity.ItemOffered)

	_ = s.PurgeCache(offered.ItemId)
}

func (s service) PurgeFromBought(el interface{}) {
	bought := el.(entity.ItemBought)

	_ = s.PurgeCache(bought.ItemId)
}

func (s service) PurgeCache(itemId uint64) error {
	zap.L().With(zap.Uint64("itemId", itemId)).Info("Storefront cache purge request")

	itemPath := fmt.Sprintf("%s/items/%d", s.cdnUrl, itemId)

	uri := fmt.Sprintf("https://api.bunny.net/purge?url=%s", url.QueryEscape(itemPath))
	req, err := retryablehttp.NewRequest("GET", uri, nil)
	if err != nil {
		return err
	}
	req.Header.Set("AccessKey", s.accessKey)

	resp, err := s.client.Do(req)
	if err != nil {
		zap.L().With(
			zap.Error(err),
			zap.String("uri", uri),
			zap.Uint64("itemId", itemId),
		).Error("Failed to handle purge request")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		zap.L().With(
			zap.Int("status", resp.StatusCode),
			zap.String("uri", uri),
			zap.Uint64("itemId", itemId),
		).Error("Failed to handle purge request")
		return errors.New("bad status code")
	}

	zap.L().With(zap.Uint64("itemId", itemId)).Info("Storefront cache purge success")

	return nil
}
