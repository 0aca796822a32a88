package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	metrics "github.com/matchforge/platform/pkg/infra/metrics"
	"github.com/matchforge/platform/pkg/infra/websocket"
)

// Topic constants. A single relay topic carries every realtime push event
// so additional Socket Fan-out replicas can replay it locally (spec §5
// horizontal-scaling note); the dead-letter topic catches what a replica
// couldn't process.
const (
	TopicRealtimeRelay = "matchmaking.realtime.relay"
	TopicDLQ           = "matchmaking.dlq"
)

// RelayEvent mirrors websocket.Envelope field-for-field: it is the wire
// shape an Envelope takes in flight between replicas.
type RelayEvent struct {
	Type      string          `json:"type"`
	Room      string          `json:"room"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

// EventPublisher publishes realtime relay events to Kafka.
type EventPublisher struct {
	client *Client
}

func NewEventPublisher(client *Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// PublishRelay ships env to every other replica's bridge, keyed by room so
// all events for one lobby/user/match-request land on the same partition
// and are delivered in order.
func (p *EventPublisher) PublishRelay(ctx context.Context, env RelayEvent) error {
	if p.client == nil {
		return nil
	}
	msg := &Message{
		Key:       env.Room,
		Value:     env,
		Timestamp: time.Now(),
		Headers:   map[string]string{"event_type": env.Type},
	}
	return p.client.Publish(ctx, TopicRealtimeRelay, msg)
}

// PublishToDLQ records a relay event a bridge failed to apply, rather than
// silently dropping it.
func (p *EventPublisher) PublishToDLQ(ctx context.Context, originalKey string, value interface{}, cause error) error {
	dlqEvent := map[string]interface{}{
		"original_topic": TopicRealtimeRelay,
		"original_key":   originalKey,
		"value":          value,
		"error":          cause.Error(),
		"timestamp":      time.Now().UnixMilli(),
	}
	msg := &Message{
		Key:       uuid.New().String(),
		Value:     dlqEvent,
		Timestamp: time.Now(),
		Headers:   map[string]string{"error_type": "relay_apply_failed"},
	}
	metrics.RecordKafkaDLQ(TopicRealtimeRelay, "relay_apply_failed")
	return p.client.Publish(ctx, TopicDLQ, msg)
}

// HubRelayer implements websocket.Relayer over Kafka, letting a Hub ship
// every envelope it emits to the other replicas in the fleet.
type HubRelayer struct {
	publisher *EventPublisher
}

func NewHubRelayer(publisher *EventPublisher) *HubRelayer {
	return &HubRelayer{publisher: publisher}
}

func (r *HubRelayer) Relay(ctx context.Context, env *websocket.Envelope) error {
	return r.publisher.PublishRelay(ctx, RelayEvent{
		Type:      env.Type,
		Room:      env.Room,
		Payload:   env.Payload,
		Timestamp: env.Timestamp,
	})
}

var _ websocket.Relayer = (*HubRelayer)(nil)
