package globals

type contextKey string

const (
	UserIDKey    contextKey = "userId"
	RoleKey      contextKey = "role"
	RequestIDKey contextKey = "requestId"
)
