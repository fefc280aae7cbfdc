package messenger

import (
	"encoding/json"

	"github.com/dappmarket/marketplace-ledger/internal/entity"
	"github.com/dappmarket/marketplace-ledger/internal/event"
	"go.uber.org/zap"
)

// Notifier forwards ledger notifications onto the message bus for downstream
// consumers (storefront cache purge, buyer/seller notifications).
type Notifier interface {
	TriggerItemListed(el interface{})
	TriggerItemSold(el interface{})
}

type notifier struct {
	messageService MessageService
}

func NewNotifier(messageService MessageService) Notifier {
	n := notifier{messageService}

	event.AddEventListener(event.ItemOfferedEvent, n.TriggerItemListed)
	event.AddEventListener(event.ItemBoughtEvent, n.TriggerItemSold)

	return n
}

func (n notifier) TriggerItemListed(el interface{}) {
	offered := el.(entity.ItemOffered)

	msgJson, _ := json.Marshal(offered)
	if err := n.messageService.SendMessage(ItemListed, msgJson); err != nil {
		zap.L().With(zap.Error(err), zap.Uint64("itemId", offered.ItemId)).Error("Failed to queue item listed message")
		return
	}

	zap.L().With(zap.Uint64("itemId", offered.ItemId)).Info("Trigger Item Listed")
}

func (n notifier) TriggerItemSold(el interface{}) {
	bought := el.(entity.ItemBought)

	msgJson, _ := json.Marshal(bought)
	if err := n.messageService.SendMessage(ItemSold, msgJson); err != nil {
		zap.L().With(zap.Error(err), zap.Uint64("itemId", bought.ItemId)).Error("Failed to queue item sold message")
		return
	}

	zap.L().With(zap.Uint64("itemId", bought.ItemId)).Info("Trigger Item Sold")
}
