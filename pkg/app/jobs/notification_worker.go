package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	matchmaking_entities "github.com/matchforge/platform/pkg/domain/matchmaking/entities"
	matchmaking_out "github.com/matchforge/platform/pkg/domain/matchmaking/ports/out"
	metrics "github.com/matchforge/platform/pkg/infra/metrics"
	"github.com/matchforge/platform/pkg/infra/notifybus"
)

const maxDeliveryAttempts = 3

// Sender performs the actual push/email send; its implementation is an
// out-of-scope external collaborator (spec §1) — the worker only owns
// batching, retry count, and backoff.
type Sender interface {
	Send(ctx context.Context, job notifybus.DeliveryJob) error
}

// LoggingSender is the default Sender: it logs instead of calling a real
// push/email provider, since that provider is explicitly out-of-scope.
type LoggingSender struct {
	Channel matchmaking_entities.NotificationChannel
}

func (s *LoggingSender) Send(ctx context.Context, job notifybus.DeliveryJob) error {
	slog.InfoContext(ctx, "delivering notification", "channel", s.Channel, "user_id", job.UserID, "notification_id", job.NotificationID, "attempt", job.Attempt)
	return nil
}

// NotificationWorker consumes one of the notifybus queues and marks
// delivery outcome on the underlying Notification. The push worker uses a
// channel prefetch of 10 and the email worker a prefetch of 5; deliveries
// are handled one at a time as they arrive, with no batch time window
// (batchWindow is not read). A job gets at most 3 attempts, email retries
// back off 2^n seconds, and a final failure is logged only — never
// surfaced to the user.
type NotificationWorker struct {
	channelName   string
	queue         string
	batchSize     int
	batchWindow   int // seconds
	backoff       bool
	conn          *amqp.Connection
	notifications matchmaking_out.NotificationRepository
	sender        Sender
	notifChannel  matchmaking_entities.NotificationChannel
}

func NewPushWorker(amqpConn *amqp.Connection, notifications matchmaking_out.NotificationRepository, sender Sender) *NotificationWorker {
	return &NotificationWorker{
		channelName:   "push",
		queue:         notifybus.PushQueue,
		batchSize:     10,
		backoff:       false,
		conn:          amqpConn,
		notifications: notifications,
		sender:        sender,
		notifChannel:  matchmaking_entities.ChannelPush,
	}
}

func NewEmailWorker(amqpConn *amqp.Connection, notifications matchmaking_out.NotificationRepository, sender Sender) *NotificationWorker {
	return &NotificationWorker{
		channelName:   "email",
		queue:         notifybus.EmailQueue,
		batchSize:     5,
		backoff:       true,
		conn:          amqpConn,
		notifications: notifications,
		sender:        sender,
		notifChannel:  matchmaking_entities.ChannelEmail,
	}
}

// Run consumes until ctx is cancelled, acking successful deliveries. A
// failed delivery is acked and a copy with its attempt count incremented
// is re-published to the same queue (with a backoff sleep for email), up
// to maxDeliveryAttempts, after which the failure is logged and the
// message is dropped.
func (w *NotificationWorker) Run(ctx context.Context) error {
	ch, err := w.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Qos(w.batchSize, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(w.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "notification worker started", "channel", w.channelName, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "notification worker stopped", "channel", w.channelName)
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *NotificationWorker) handle(ctx context.Context, msg amqp.Delivery) {
	var job notifybus.DeliveryJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		slog.ErrorContext(ctx, "failed to decode delivery job, dropping", "error", err, "channel", w.channelName)
		msg.Ack(false)
		return
	}

	job.Attempt++

	err := w.sender.Send(ctx, job)
	now := time.Now().UTC()

	if err == nil {
		w.markOutcome(ctx, job.NotificationID, func(n *matchmaking_entities.Notification) { n.MarkDelivered(w.notifChannel, now) })
		metrics.RecordNotificationDelivery(w.channelName, "delivered")
		msg.Ack(false)
		return
	}

	if job.Attempt >= maxDeliveryAttempts {
		slog.ErrorContext(ctx, "notification delivery exhausted retries, giving up", "error", err, "channel", w.channelName, "notification_id", job.NotificationID)
		w.markOutcome(ctx, job.NotificationID, func(n *matchmaking_entities.Notification) { n.MarkFailed(w.notifChannel, now) })
		metrics.RecordNotificationDelivery(w.channelName, "failed")
		msg.Ack(false)
		return
	}

	metrics.RecordNotificationRetry(w.channelName, job.Attempt)
	slog.WarnContext(ctx, "notification delivery failed, retrying", "error", err, "channel", w.channelName, "attempt", job.Attempt, "notification_id", job.NotificationID)

	if w.backoff {
		time.Sleep(time.Duration(1<<uint(job.Attempt)) * time.Second)
	}

	w.requeue(ctx, msg, job)
}

func (w *NotificationWorker) requeue(ctx context.Context, msg amqp.Delivery, job notifybus.DeliveryJob) {
	body, err := json.Marshal(job)
	if err != nil {
		slog.ErrorContext(ctx, "failed to re-encode delivery job", "error", err)
		msg.Ack(false)
		return
	}

	pub := amqp.Publishing{ContentType: "application/json", Body: body, DeliveryMode: amqp.Persistent, Timestamp: time.Now().UTC()}
	if err := msg.Acknowledger.(*amqp.Channel).Publish("", w.queue, false, false, pub); err != nil {
		slog.ErrorContext(ctx, "failed to requeue delivery job", "error", err)
	}
	msg.Ack(false)
}

func (w *NotificationWorker) markOutcome(ctx context.Context, notificationID uuid.UUID, mutate func(*matchmaking_entities.Notification)) {
	n, err := w.notifications.FindByID(ctx, notificationID)
	if err != nil || n == nil {
		slog.ErrorContext(ctx, "failed to load notification for delivery outcome", "error", err, "notification_id", notificationID)
		return
	}

	mutate(n)

	if _, err := w.notifications.Update(ctx, n); err != nil {
		slog.ErrorContext(ctx, "failed to persist delivery outcome", "error", err, "notification_id", notificationID)
	}
}
