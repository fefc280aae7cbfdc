package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmitEvent_DeliversInEmissionOrder(t *testing.T) {
	var mu sync.Mutex
	received := make([]interface{}, 0)
	done := make(chan struct{})

	AddEventListener(ItemOfferedEvent, func(msg interface{}) {
		mu.Lock()
		received = append(received, msg)
		if len(received) == 3 {
			close(done)
		}
		mu.Unlock()
	})

	EmitEvent(ItemOfferedEvent, 1)
	EmitEvent(ItemOfferedEvent, 2)
	EmitEvent(ItemOfferedEvent, 3)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not receive all events")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []interface{}{1, 2, 3}, received)
}

func TestAddEventListener_ConcurrentWithEmit(t *testing.T) {
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			AddEventListener(ItemOfferedEvent, func(msg interface{}) {})
		}()
		go func() {
			defer wg.Done()
			EmitEvent(ItemOfferedEvent, "concurrent")
		}()
	}

	wg.Wait()
}

func TestEmitEvent_TypeFiltering(t *testing.T) {
	bought := make(chan interface{}, 1)

	AddEventListener(ItemBoughtEvent, func(msg interface{}) {
		bought <- msg
	})

	EmitEvent(ItemOfferedEvent, "offered")
	EmitEvent(ItemBoughtEvent, "bought")

	select {
	case msg := <-bought:
		assert.Equal(t, "bought", msg)
	case <-time.After(time.Second):
		t.Fatal("listener did not receive the event")
	}
}
