package state

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestEventBus(t *testing.T) {
	t.Run("published events reach every subscriber", func(t *testing.T) {
		bus := NewEventBus()

		one := make(chan any, 1)
		two := make(chan any, 1)
		bus.Subscribe(one)
		bus.Subscribe(two)

		bus.Publish("event")

		assert.Equal(t, "event", <-one)
		assert.Equal(t, "event", <-two)
	})

	t.Run("publish never blocks on a full subscriber", func(t *testing.T) {
		bus := NewEventBus()

		full := make(chan any)
		bus.Subscribe(full)

		bus.Publish("dropped")
	})

	t.Run("unsubscribed channels stop receiving", func(t *testing.T) {
		bus := NewEventBus()

		ch := make(chan any, 1)
		bus.Subscribe(ch)
		bus.Unsubscribe(ch)

		bus.Publish("event")

		assert.Len(t, ch, 0)
	})
}
