package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/suyash01/expensehub/internal/apperr"
	"github.com/suyash01/expensehub/internal/database"
	"github.com/suyash01/expensehub/internal/models"
)

type contextKey string

const callerContextKey contextKey = "caller"

// Caller is the authenticated user making a request, with the role read
// once from the user store.
type Caller struct {
	ID    string
	Name  string
	Email string
	Role  models.Role
}

func (c Caller) IsAdmin() bool {
	return c.Role.IsAdmin()
}

// WithCaller returns a context carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, c)
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerContextKey).(Caller)
	return c, ok
}

// UserReader is the part of the user store the resolver needs.
type UserReader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Resolver turns request headers into a Caller.
type Resolver struct {
	gateway Gateway
	users   UserReader
	log     *zap.Logger
}

func NewResolver(gateway Gateway, users UserReader, log *zap.Logger) *Resolver {
	return &Resolver{gateway: gateway, users: users, log: log}
}

// Resolve returns the caller for header, or ok=false when there is no
// session. A session whose user has no row in the store yields a Caller
// with an empty role.
func (r *Resolver) Resolve(ctx context.Context, header http.Header) (Caller, bool, error) {
	sess, err := r.gateway.GetSession(ctx, header)
	if err != nil {
		// An unreachable auth service is treated as "no session".
		r.log.Warn("session_lookup_failed", zap.Error(err))
		return Caller{}, false, nil
	}
	if sess == nil || sess.User.ID == "" {
		return Caller{}, false, nil
	}

	c := Caller{ID: sess.User.ID, Name: sess.User.Name, Email: sess.User.Email}
	u, err := r.users.GetByID(ctx, sess.User.ID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		r.log.Warn("session_user_missing", zap.String("user_id", sess.User.ID))
	case err != nil:
		return Caller{}, false, apperr.Internal("Failed to resolve user role", fmt.Errorf("resolve role: %w", err))
	default:
		c.Role = u.Role
		if u.Name != "" {
			c.Name = u.Name
		}
	}
	return c, true, nil
}
