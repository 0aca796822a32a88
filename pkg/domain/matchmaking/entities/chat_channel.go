package matchmaking_entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	common "github.com/matchforge/platform/pkg/domain"
)

// ChatContentType tags a ChatMessage's rendering kind (spec §3).
type ChatContentType string

const (
	ChatContentText   ChatContentType = "text"
	ChatContentSystem ChatContentType = "system"
	ChatContentImage  ChatContentType = "image"
)

const maxChatContentBytes = 2000

// ChatMessage is one append-only entry in a ChatChannel's log. ID is a
// monotonically increasing sequence number scoped to the channel, not a
// uuid, so ordering is embedded in the identity itself (spec §5: "the
// server publishes in id order").
type ChatMessage struct {
	ID          int64           `json:"id" bson:"id"`
	SenderID    *uuid.UUID      `json:"sender_id,omitempty" bson:"sender_id,omitempty"`
	ContentType ChatContentType `json:"content_type" bson:"content_type"`
	Content     string          `json:"content" bson:"content"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
}

// IsSystem reports whether the message has no human sender.
func (m ChatMessage) IsSystem() bool {
	return m.SenderID == nil
}

// ChatChannel is 1:1 with a Lobby (spec §3 "ChatChannel").
type ChatChannel struct {
	common.BaseEntity `bson:",inline"`

	LobbyID      uuid.UUID   `json:"lobby_id" bson:"lobby_id"`
	Participants []uuid.UUID `json:"participants" bson:"participants"`
	Messages     []ChatMessage `json:"messages" bson:"messages"`
	nextID       int64
}

// NewChatChannel constructs an empty channel bound to lobbyID.
func NewChatChannel(owner common.ResourceOwner, lobbyID uuid.UUID, participants []uuid.UUID) *ChatChannel {
	return &ChatChannel{
		BaseEntity:   common.NewEntity(owner),
		LobbyID:      lobbyID,
		Participants: append([]uuid.UUID(nil), participants...),
	}
}

// AddParticipant records membership carry-over so a departed member can
// still read history (spec §4.G "current or past").
func (c *ChatChannel) AddParticipant(userID uuid.UUID) {
	for _, p := range c.Participants {
		if p == userID {
			return
		}
	}
	c.Participants = append(c.Participants, userID)
}

func (c *ChatChannel) IsParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// nextSequence derives the next message id from the highest id seen so
// far, tolerating a zero-value nextID after a round trip through storage.
func (c *ChatChannel) nextSequence() int64 {
	if c.nextID == 0 {
		for _, m := range c.Messages {
			if m.ID >= c.nextID {
				c.nextID = m.ID
			}
		}
	}
	c.nextID++
	return c.nextID
}

// Post appends a message from senderID, trimmed and length-checked per
// spec §4.G (content <= 2000 bytes after trim).
func (c *ChatChannel) Post(senderID uuid.UUID, content string, contentType ChatContentType, now time.Time) (ChatMessage, error) {
	if !c.IsParticipant(senderID) {
		return ChatMessage{}, common.NewErrForbidden("sender is not a member of this lobby")
	}
	trimmed := strings.TrimSpace(content)
	if len(trimmed) == 0 {
		return ChatMessage{}, common.NewErrValidation(map[string]string{"content": "content must not be empty"})
	}
	if len([]byte(trimmed)) > maxChatContentBytes {
		return ChatMessage{}, common.NewErrValidation(map[string]string{"content": "content exceeds 2000 bytes"})
	}
	if contentType == "" {
		contentType = ChatContentText
	}

	msg := ChatMessage{
		ID:          c.nextSequence(),
		SenderID:    &senderID,
		ContentType: contentType,
		Content:     trimmed,
		CreatedAt:   now,
	}
	c.Messages = append(c.Messages, msg)
	return msg, nil
}

// SystemPost appends an un-authored system message (spec §4.G).
func (c *ChatChannel) SystemPost(text string, now time.Time) ChatMessage {
	msg := ChatMessage{
		ID:          c.nextSequence(),
		ContentType: ChatContentSystem,
		Content:     text,
		CreatedAt:   now,
	}
	c.Messages = append(c.Messages, msg)
	return msg
}

// History returns up to limit messages, newest first, optionally filtered
// to createdAt < before, plus whether more remain (spec §4.G).
func (c *ChatChannel) History(limit int, before *time.Time) (messages []ChatMessage, hasMore bool) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	filtered := make([]ChatMessage, 0, len(c.Messages))
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		if before != nil && !m.CreatedAt.Before(*before) {
			continue
		}
		filtered = append(filtered, m)
	}

	if len(filtered) > limit {
		return filtered[:limit], true
	}
	return filtered, false
}
