package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MonoDevPro/HexagonalGameServer-sub000/internal/domain/event"
)

func newTestProducer(t *testing.T) *mocks.SyncProducer {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	return mocks.NewSyncProducer(t, config)
}

func TestRelay_WrapsEventsInCloudEventEnvelope(t *testing.T) {
	producer := newTestProducer(t)
	relay := NewRelay(producer, zap.NewNop(), "game.events", "/game-server")
	bus := event.NewBus(zap.NewNop())
	relay.Start(bus)

	published := event.PlayerLoggedIn{Base: event.NewBase(), ConnectionID: 42, Username: "alice"}

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var envelope CloudEvent
		if err := json.Unmarshal(value, &envelope); err != nil {
			return err
		}
		if envelope.SpecVersion != "1.0" {
			return errors.New("wrong specversion")
		}
		if envelope.Type != string(event.TypePlayerLoggedIn) {
			return errors.New("wrong type")
		}
		if envelope.Source != "/game-server" {
			return errors.New("wrong source")
		}
		if envelope.ID != published.EventID().String() {
			return errors.New("envelope id must be the event id")
		}
		return nil
	})

	bus.Publish(context.Background(), published)
	require.NoError(t, relay.Stop(bus))
}

func TestRelay_ProduceFailureNeverReachesPublisher(t *testing.T) {
	producer := newTestProducer(t)
	relay := NewRelay(producer, zap.NewNop(), "game.events", "/game-server")
	bus := event.NewBus(zap.NewNop())
	relay.Start(bus)

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	// Publish must not panic or propagate the broker error.
	bus.Publish(context.Background(), event.PlayerLoggedOut{Base: event.NewBase(), ConnectionID: 7, Username: "bob"})
	require.NoError(t, relay.Stop(bus))
}

func TestRelay_StopRemovesSubscriptions(t *testing.T) {
	producer := newTestProducer(t)
	relay := NewRelay(producer, zap.NewNop(), "game.events", "/game-server")
	bus := event.NewBus(zap.NewNop())
	relay.Start(bus)
	require.NoError(t, relay.Stop(bus))

	// No expectations are registered: a produce after Stop would fail the
	// mock, so publishing here proves the relay is detached.
	bus.Publish(context.Background(), event.PlayerLoggedIn{Base: event.NewBase(), ConnectionID: 1, Username: "carol"})
	assert.Nil(t, relay.subs)
}
