package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/matchforge/platform/pkg/infra/websocket"
)

// WebSocketBridge consumes the realtime relay topic and re-applies each
// envelope to this replica's local Hub, so a client connected to replica B
// still sees an event published on replica A (spec §5 horizontal-scaling
// note). Each replica runs its own bridge under its own consumer group so
// every replica receives every event, not just one of them.
type WebSocketBridge struct {
	client    *Client
	consumer  *Consumer
	hub       *websocket.Hub
	publisher *EventPublisher
}

// NewWebSocketBridge wires a bridge for one replica, identified by
// instanceID so its consumer group doesn't share offsets with the others.
func NewWebSocketBridge(client *Client, hub *websocket.Hub, instanceID string) *WebSocketBridge {
	groupID := "socket-fanout-" + instanceID
	config := DefaultConsumerConfig(groupID, []string{TopicRealtimeRelay})
	consumer := NewConsumer(client, config)

	bridge := &WebSocketBridge{client: client, consumer: consumer, hub: hub, publisher: NewEventPublisher(client)}
	consumer.RegisterHandler(TopicRealtimeRelay, bridge.handleRelayEvent)
	return bridge
}

func (b *WebSocketBridge) handleRelayEvent(ctx context.Context, msg *kafka.Message) error {
	var event RelayEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		slog.Error("failed to unmarshal relay event", "error", err)
		if dlqErr := b.publisher.PublishToDLQ(ctx, string(msg.Key), string(msg.Value), err); dlqErr != nil {
			slog.Error("failed to publish relay event to dead letter queue", "error", dlqErr)
		}
		return err
	}

	b.hub.BroadcastLocal(&websocket.Envelope{
		Type:      event.Type,
		Room:      event.Room,
		Payload:   event.Payload,
		Timestamp: event.Timestamp,
	})
	return nil
}

// Start begins consuming relay events until ctx is cancelled.
func (b *WebSocketBridge) Start(ctx context.Context) error {
	slog.Info("starting socket fan-out relay bridge")
	return b.consumer.Start(ctx)
}

func (b *WebSocketBridge) Close() error {
	return b.consumer.Close()
}
