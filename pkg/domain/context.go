package common

// ContextKey namespaces values stored on a request/operation context.
type ContextKey string

const (
	// Resource ownership (internal)
	TenantIDKey ContextKey = "tenant_id"
	ClientIDKey ContextKey = "client_id"
	GroupIDKey  ContextKey = "group_id"
	UserIDKey   ContextKey = "user_id"

	// Authentication, populated by the bearer-token collaborator ahead of
	// the core (see spec §6 "Auth").
	AuthenticatedKey ContextKey = "authenticated"
	RoleKey          ContextKey = "role"

	// Request metadata
	RequestIDKey ContextKey = "x-request-id"

	// ResourceIDKey carries the path-parameter resource ID validated by the
	// ownership middleware, for handlers that need it without re-parsing.
	ResourceIDKey ContextKey = "resource_id"
)

const AdminRole = "admin"
