package common

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const userIDKey ctxKey = "auth/user-id"

// WithUserID stores the authenticated user identifier on the provided context.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID extracts the authenticated user identifier from the context if present.
func UserID(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// ActorID returns the authenticated user as a UUID, the owner recorded on created records.
func ActorID(ctx context.Context) (uuid.UUID, error) {
	raw, ok := UserID(ctx)
	if !ok || raw == "" {
		return uuid.Nil, NewAppError(CodeUnauthorized, "authentication required", http.StatusUnauthorized, nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewAppError(CodeUnauthorized, "invalid token subject", http.StatusUnauthorized, err)
	}
	return id, nil
}

// ParseID parses a path or body identifier, reporting malformed values as a validation error.
func ParseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ValidationError("invalid " + field)
	}
	return id, nil
}
