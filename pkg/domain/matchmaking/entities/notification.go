package matchmaking_entities

import (
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
)

// NotificationPriority controls delivery-channel escalation (spec §3/§4.H:
// priority=urgent forces every channel regardless of preference).
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// NotificationChannel is one delivery surface for a Notification.
type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "inApp"
	ChannelPush  NotificationChannel = "push"
	ChannelEmail NotificationChannel = "email"
)

// DeliveryStatus is a channel's per-notification delivery state.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliverySkipped   DeliveryStatus = "skipped"
)

// Intent is the input to Notification Intent Bus's create operation
// (spec §4.H).
type Intent struct {
	Type     string
	Priority NotificationPriority
	Title    string
	Body     string
	Data     map[string]interface{}
	ExpiresAt *time.Time
}

// NotificationPreferences is the per-user, per-type channel opt-in table
// consulted by create() to resolve the effective channel set.
type NotificationPreferences struct {
	UserID  uuid.UUID                                 `json:"user_id" bson:"user_id"`
	ByType  map[string]map[NotificationChannel]bool    `json:"by_type" bson:"by_type"`
}

// DefaultPreferences enables in-app and push for every type, email opt-in
// only, matching the teacher's conservative default for new accounts.
func DefaultPreferences(userID uuid.UUID) NotificationPreferences {
	return NotificationPreferences{UserID: userID, ByType: map[string]map[NotificationChannel]bool{}}
}

// ChannelsFor resolves the effective channel set for intentType, honoring
// priority=urgent's all-channel override (spec §4.H).
func (p NotificationPreferences) ChannelsFor(intentType string, priority NotificationPriority) map[NotificationChannel]bool {
	if priority == PriorityUrgent {
		return map[NotificationChannel]bool{ChannelInApp: true, ChannelPush: true, ChannelEmail: true}
	}

	prefs, ok := p.ByType[intentType]
	if !ok {
		return map[NotificationChannel]bool{ChannelInApp: true, ChannelPush: true}
	}

	result := map[NotificationChannel]bool{ChannelInApp: true}
	if prefs[ChannelPush] {
		result[ChannelPush] = true
	}
	if prefs[ChannelEmail] {
		result[ChannelEmail] = true
	}
	return result
}

// Notification is a per-recipient record (spec §3 "Notification").
type Notification struct {
	common.BaseEntity `bson:",inline"`

	RecipientID uuid.UUID            `json:"recipient_id" bson:"recipient_id"`
	Type        string               `json:"type" bson:"type"`
	Priority    NotificationPriority `json:"priority" bson:"priority"`
	Title       string               `json:"title" bson:"title"`
	Body        string               `json:"body" bson:"body"`
	Data        map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`

	Channels       map[NotificationChannel]bool           `json:"channels" bson:"channels"`
	DeliveryStatus map[NotificationChannel]DeliveryStatus `json:"delivery_status" bson:"delivery_status"`

	ExpiresAt *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	Read      bool       `json:"read" bson:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty" bson:"read_at,omitempty"`
}

// NewNotification constructs a Notification with the resolved channel set,
// each starting pending (or skipped for channels not in the set).
func NewNotification(owner common.ResourceOwner, recipientID uuid.UUID, intent Intent, channels map[NotificationChannel]bool, now time.Time) *Notification {
	status := make(map[NotificationChannel]DeliveryStatus, 3)
	for _, ch := range []NotificationChannel{ChannelInApp, ChannelPush, ChannelEmail} {
		if channels[ch] {
			status[ch] = DeliveryPending
		} else {
			status[ch] = DeliverySkipped
		}
	}

	return &Notification{
		BaseEntity:     common.NewEntity(owner),
		RecipientID:    recipientID,
		Type:           intent.Type,
		Priority:       intent.Priority,
		Title:          intent.Title,
		Body:           intent.Body,
		Data:           intent.Data,
		Channels:       channels,
		DeliveryStatus: status,
		ExpiresAt:      intent.ExpiresAt,
	}
}

func (n *Notification) MarkDelivered(ch NotificationChannel, now time.Time) {
	n.DeliveryStatus[ch] = DeliveryDelivered
	n.UpdatedAt = now
}

func (n *Notification) MarkFailed(ch NotificationChannel, now time.Time) {
	n.DeliveryStatus[ch] = DeliveryFailed
	n.UpdatedAt = now
}

func (n *Notification) MarkRead(now time.Time) {
	if n.Read {
		return
	}
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
}

// IsExpired reports whether this notification's optional expiry has passed.
func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}
