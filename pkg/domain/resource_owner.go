package common

import (
	"context"

	"github.com/google/uuid"
)

// ResourceOwner identifies who a resource belongs to. The core only cares
// about the user dimension; tenant/client/group are carried through for
// multi-tenant deployments but the matchmaking/lobby/chat/notification
// components never branch on them directly.
type ResourceOwner struct {
	TenantID uuid.UUID `json:"tenant_id" bson:"tenant_id"`
	ClientID uuid.UUID `json:"client_id" bson:"client_id"`
	GroupID  uuid.UUID `json:"group_id" bson:"group_id"`
	UserID   uuid.UUID `json:"user_id" bson:"user_id"`
}

func NewResourceOwner(tenantID, userID uuid.UUID) ResourceOwner {
	return ResourceOwner{TenantID: tenantID, UserID: userID}
}

func (ro ResourceOwner) IsUser() bool {
	return ro.UserID != uuid.Nil
}

// IsAuthenticated reports whether the context carries a successful
// authentication result from the external auth collaborator (spec §6).
func IsAuthenticated(ctx context.Context) bool {
	isAuth, ok := ctx.Value(AuthenticatedKey).(bool)
	return ok && isAuth
}

// IsAdmin reports whether the authenticated caller holds the admin role,
// required by the admin-only matchmaking stats endpoint (spec §6).
func IsAdmin(ctx context.Context) bool {
	role, ok := ctx.Value(RoleKey).(string)
	return ok && role == AdminRole
}

// GetResourceOwner reconstructs the caller's ResourceOwner from context
// values placed there by the resource-context middleware.
func GetResourceOwner(ctx context.Context) ResourceOwner {
	var ro ResourceOwner
	if tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID); ok {
		ro.TenantID = tenantID
	}
	if clientID, ok := ctx.Value(ClientIDKey).(uuid.UUID); ok {
		ro.ClientID = clientID
	}
	if groupID, ok := ctx.Value(GroupIDKey).(uuid.UUID); ok {
		ro.GroupID = groupID
	}
	if userID, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		ro.UserID = userID
	}
	return ro
}

// WithResourceOwner returns a context carrying ro's identifiers, used by
// tests and internal callers that bypass HTTP middleware.
func WithResourceOwner(ctx context.Context, ro ResourceOwner) context.Context {
	ctx = context.WithValue(ctx, TenantIDKey, ro.TenantID)
	ctx = context.WithValue(ctx, ClientIDKey, ro.ClientID)
	ctx = context.WithValue(ctx, GroupIDKey, ro.GroupID)
	ctx = context.WithValue(ctx, UserIDKey, ro.UserID)
	return context.WithValue(ctx, AuthenticatedKey, true)
}
