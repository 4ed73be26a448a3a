package middleware

import (
	"context"
	"net/http"
	"strings"

	"harvesthub/globals"
	"harvesthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Identity is what a verified token asserts about its bearer.
type Identity struct {
	UserID string
	Role   string
}

type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// Caller is the authenticated principal of a request. Its fields are only
// set by Gate after token verification, so handlers receiving a Caller never
// see a client-supplied owner id.
type Caller struct {
	ownerID string
	role    string
}

func (c Caller) OwnerID() string { return c.ownerID }
func (c Caller) Role() string    { return c.role }

// AuthedHandle is an httprouter handle that runs only for verified callers.
type AuthedHandle func(http.ResponseWriter, *http.Request, httprouter.Params, Caller)

type Gate struct {
	verifier TokenVerifier
	log      *zap.Logger
}

func NewGate(verifier TokenVerifier, log *zap.Logger) *Gate {
	return &Gate{verifier: verifier, log: log}
}

// Verify turns a raw bearer token into a Caller.
func (g *Gate) Verify(token string) (Caller, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Caller{}, &utils.AuthError{Message: "Not authorized, no token"}
	}
	id, err := g.verifier.Verify(token)
	if err != nil || id.UserID == "" {
		return Caller{}, &utils.AuthError{Message: "Not authorized, token failed"}
	}
	return Caller{ownerID: id.UserID, role: id.Role}, nil
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return h[7:]
	}
	return ""
}

func (g *Gate) Authenticate(h AuthedHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		caller, err := g.Verify(BearerToken(r))
		if err != nil {
			utils.RespondWithAppError(w, g.log, err)
			return
		}
		ctx := context.WithValue(r.Context(), globals.UserIDKey, caller.ownerID)
		ctx = context.WithValue(ctx, globals.RoleKey, caller.role)
		h(w, r.WithContext(ctx), ps, caller)
	}
}

// OptionalAuth records the user id when a valid token is present and lets
// anonymous requests through otherwise.
func (g *Gate) OptionalAuth(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if token := BearerToken(r); token != "" {
			if caller, err := g.Verify(token); err == nil {
				ctx := context.WithValue(r.Context(), globals.UserIDKey, caller.ownerID)
				r = r.WithContext(ctx)
			}
		}
		h(w, r, ps)
	}
}
