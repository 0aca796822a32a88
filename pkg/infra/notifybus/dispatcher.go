package notifybus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

const (
	PushQueue  = "notifications.push"
	EmailQueue = "notifications.email"
)

// DeliveryJob is what Dispatcher puts on the wire; a worker (see
// pkg/app/jobs) consumes it, attempts delivery, and requeues with a
// bumped Attempt on any failed delivery until the attempt limit.
type DeliveryJob struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Attempt        int       `json:"attempt"`
}

// Dispatcher implements matchmaking_out.NotificationDispatcher by
// publishing onto durable AMQP queues declared without a length limit.
// Retry count (≤3) and email backoff (2^n seconds) are enforced by the
// consuming worker, not here; the worker handles jobs one at a time and
// does no batching (spec §4.H).
type Dispatcher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewDispatcher(amqpURL string) (*Dispatcher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("notifybus: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("notifybus: open channel: %w", err)
	}

	for _, q := range []string{PushQueue, EmailQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			return nil, fmt.Errorf("notifybus: declare queue %s: %w", q, err)
		}
	}

	return &Dispatcher{conn: conn, channel: ch}, nil
}

func (d *Dispatcher) EnqueuePush(ctx context.Context, notificationID, userID uuid.UUID, title, body string) error {
	return d.publish(ctx, PushQueue, DeliveryJob{NotificationID: notificationID, UserID: userID, Title: title, Body: body})
}

func (d *Dispatcher) EnqueueEmail(ctx context.Context, notificationID, userID uuid.UUID, title, body string) error {
	return d.publish(ctx, EmailQueue, DeliveryJob{NotificationID: notificationID, UserID: userID, Title: title, Body: body})
}

func (d *Dispatcher) publish(ctx context.Context, queue string, job DeliveryJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	err = d.channel.Publish("", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to enqueue delivery job", "error", err, "queue", queue, "notification_id", job.NotificationID)
	}
	return err
}

func (d *Dispatcher) Close() error {
	if err := d.channel.Close(); err != nil {
		return err
	}
	return d.conn.Close()
}
