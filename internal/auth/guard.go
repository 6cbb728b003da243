package auth

import (
	"context"

	"github.com/suyash01/expensehub/internal/apperr"
)

// Guard checks the caller in ctx and returns it, or a typed failure.
type Guard func(ctx context.Context) (Caller, error)

// Public never fails; the returned Caller may be empty.
func Public(ctx context.Context) (Caller, error) {
	c, _ := CallerFrom(ctx)
	return c, nil
}

func Authenticated(ctx context.Context) (Caller, error) {
	c, ok := CallerFrom(ctx)
	if !ok {
		return Caller{}, apperr.Unauthorized("Not authenticated")
	}
	return c, nil
}

// Employee admits the "user" and "admin" roles.
func Employee(ctx context.Context) (Caller, error) {
	c, err := Authenticated(ctx)
	if err != nil {
		return Caller{}, err
	}
	if !c.Role.IsEmployee() {
		return Caller{}, apperr.Forbidden("Requires user or admin role")
	}
	return c, nil
}

func Admin(ctx context.Context) (Caller, error) {
	c, err := Authenticated(ctx)
	if err != nil {
		return Caller{}, err
	}
	if !c.Role.IsAdmin() {
		return Caller{}, apperr.Forbidden("Requires admin role")
	}
	return c, nil
}
