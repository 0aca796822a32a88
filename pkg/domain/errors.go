package common

import (
	"context"
	"fmt"
)

type errorContextKey struct{}

// SetError stashes err on ctx for the error middleware to translate into a
// response envelope once the handler chain returns.
func SetError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorContextKey{}, err)
}

// GetError retrieves an error previously stashed with SetError, if any.
func GetError(ctx context.Context) error {
	err, _ := ctx.Value(errorContextKey{}).(error)
	return err
}

// ResourceType names the aggregate a not-found/already-exists error refers
// to, matching the entities of spec §3.
type ResourceType string

const (
	ResourceTypeMatchRequest  ResourceType = "MatchRequest"
	ResourceTypeLobby         ResourceType = "Lobby"
	ResourceTypeChatChannel   ResourceType = "ChatChannel"
	ResourceTypeChatMessage   ResourceType = "ChatMessage"
	ResourceTypeNotification  ResourceType = "Notification"
)

// CodedError is the wire-level error shape required by spec §6/§7: every
// operational error carries an upper-snake code, an HTTP status, a message
// and optional field-level details.
type CodedError struct {
	Code    string
	Message string
	Status  int
	Details interface{}
}

func (e *CodedError) Error() string {
	return e.Message
}

func NewCodedError(status int, code, message string, details interface{}) *CodedError {
	return &CodedError{Status: status, Code: code, Message: message, Details: details}
}

// Error constructors named after the wire codes in spec §7.
func NewErrValidation(details interface{}) error {
	return NewCodedError(422, "VALIDATION_ERROR", "request failed validation", details)
}

func NewErrActiveRequestExists(requestID fmt.Stringer) error {
	return NewCodedError(409, "ACTIVE_REQUEST_EXISTS", fmt.Sprintf("an active matchmaking request already exists: %s", requestID), nil)
}

func NewErrUserIneligible(reason string) error {
	return NewCodedError(400, "USER_INELIGIBLE", reason, nil)
}

func NewErrInvalidGame(gameID string) error {
	return NewCodedError(400, "INVALID_GAME", fmt.Sprintf("unknown game id: %s", gameID), nil)
}

func NewErrCatalogueUnavailable(err error) error {
	return NewCodedError(503, "CATALOGUE_UNAVAILABLE", "game catalogue lookup failed", err.Error())
}

func NewErrDuplicateField(field string, value interface{}) error {
	return NewCodedError(409, "DUPLICATE_FIELD", fmt.Sprintf("%s %v already in use", field, value), nil)
}

func NewErrLobbyFull(capacity int) error {
	return NewCodedError(409, "LOBBY_FULL", fmt.Sprintf("lobby has reached its capacity of %d", capacity), nil)
}

func NewErrIllegalState(message string) error {
	return NewCodedError(400, "ILLEGAL_STATE", message, nil)
}

func NewErrAuth(code, message string) error {
	return NewCodedError(401, code, message, nil)
}

func NewErrForbidden(message string) error {
	if message == "" {
		message = "forbidden"
	}
	return NewCodedError(403, "FORBIDDEN", message, nil)
}

func NewErrNotFound(resourceType ResourceType, fieldName string, value interface{}) error {
	return NewCodedError(404, "NOT_FOUND", fmt.Sprintf("%s with %s %v not found", resourceType, fieldName, value), nil)
}

func NewErrInternal(err error) error {
	return NewCodedError(500, "INTERNAL_SERVER_ERROR", "an unexpected error occurred", err.Error())
}

// IsCode reports whether err is a CodedError with the given wire code.
func IsCode(err error, code string) bool {
	ce, ok := err.(*CodedError)
	return ok && ce.Code == code
}
