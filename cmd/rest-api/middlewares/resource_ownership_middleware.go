package middlewares

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	common "github.com/matchforge/platform/pkg/domain"
)

// ResourceOwnershipConfig configures the generic path-resource guard. Actual
// ownership of a lobby/match request/notification is a domain invariant
// enforced by the service layer (e.g. only a lobby member may leave it);
// this middleware only guarantees the caller is authenticated and the path
// parameter is a well-formed UUID before the handler ever sees it.
type ResourceOwnershipConfig struct {
	RequireAuthentication bool
	ResourceIDParam       string
	ResourceType          common.ResourceType
}

func DefaultOwnershipConfig(resourceType common.ResourceType) ResourceOwnershipConfig {
	return ResourceOwnershipConfig{
		RequireAuthentication: true,
		ResourceIDParam:       "id",
		ResourceType:          resourceType,
	}
}

func ResourceOwnershipMiddleware(config ResourceOwnershipConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if config.RequireAuthentication && !common.IsAuthenticated(ctx) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			resourceIDStr := mux.Vars(r)[config.ResourceIDParam]
			if resourceIDStr != "" {
				resourceID, err := uuid.Parse(resourceIDStr)
				if err != nil {
					http.Error(w, "Invalid resource ID", http.StatusBadRequest)
					return
				}
				ctx = context.WithValue(ctx, common.ResourceIDKey, resourceID)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthentication rejects unauthenticated requests outright.
func RequireAuthentication() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !common.IsAuthenticated(r.Context()) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose caller doesn't hold the admin role
// (spec §6 admin-only matchmaking stats endpoint).
func RequireAdmin() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !common.IsAuthenticated(ctx) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !common.IsAdmin(ctx) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
