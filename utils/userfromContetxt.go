package utils

import (
	"context"
	"harvesthub/globals"
)

// GetUserIDFromContext returns the user id set by the optional-auth
// middleware, or "" for anonymous requests.
func GetUserIDFromContext(ctx context.Context) string {
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(globals.RequestIDKey).(string)
	return id
}
