package common

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity is embedded by every aggregate root in the core. Unlike the
// teacher's version this drops the audience/visibility apparatus: nothing in
// this repo's domain needs ABAC-style visibility, only resource ownership.
type BaseEntity struct {
	ID            uuid.UUID     `json:"id" bson:"_id"`
	ResourceOwner ResourceOwner `json:"resource_owner" bson:"resource_owner"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// Entity is implemented by every aggregate root.
type Entity interface {
	GetID() uuid.UUID
}

func (b BaseEntity) GetID() uuid.UUID {
	return b.ID
}

// NewEntity stamps a new BaseEntity owned by resourceOwner.
func NewEntity(resourceOwner ResourceOwner) BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:            uuid.New(),
		ResourceOwner: resourceOwner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
