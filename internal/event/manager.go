package event

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu        sync.RWMutex
	listeners = make([]*Listener, 0)
)

type Listener struct {
	eventType Type
	channel   chan interface{}
}

func AddEventListener(eventType Type, callback func(msg interface{})) {
	zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: AddListener")

	listener := Listener{
		eventType: eventType,
		channel:   make(chan interface{}, 64),
	}

	mu.Lock()
	listeners = append(listeners, &listener)
	mu.Unlock()

	go func() {
		for {
			msg := <-listener.channel
			callback(msg)
		}
	}()
}

// EmitEvent hands the message to every subscribed listener in the order the
// emitter commits operations. Each listener channel is FIFO, so a subscriber
// observes events in per-ledger commit order.
func EmitEvent(eventType Type, msg interface{}) {
	mu.RLock()
	defer mu.RUnlock()

	if len(listeners) == 0 {
		zap.L().Debug("No event listeners available")
	}
	for _, listener := range listeners {
		if listener.eventType == eventType {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			listener.channel <- msg
		}
	}
}
