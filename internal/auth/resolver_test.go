package auth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/suyash01/expensehub/internal/apperr"
	"github.com/suyash01/expensehub/internal/auth"
	"github.com/suyash01/expensehub/internal/auth/mocks"
	"github.com/suyash01/expensehub/internal/database"
	"github.com/suyash01/expensehub/internal/models"
)

type userReaderFunc func(ctx context.Context, id string) (models.User, error)

func (f userReaderFunc) GetByID(ctx context.Context, id string) (models.User, error) {
	return f(ctx, id)
}

func TestResolver_Resolve(t *testing.T) {
	session := &auth.Session{User: auth.SessionUser{ID: "u1", Name: "Alice", Email: "a@example.com"}}

	cases := []struct {
		name     string
		sess     *auth.Session
		gwErr    error
		user     models.User
		storeErr error
		wantOK   bool
		wantRole models.Role
		wantKind *apperr.Kind
	}{
		{name: "no session"},
		{name: "gateway down", gwErr: errors.New("connection refused")},
		{name: "user", sess: session, user: models.User{ID: "u1", Role: models.RoleUser}, wantOK: true, wantRole: models.RoleUser},
		{name: "admin", sess: session, user: models.User{ID: "u1", Role: models.RoleAdmin}, wantOK: true, wantRole: models.RoleAdmin},
		{name: "missing row", sess: session, storeErr: fmt.Errorf("user u1: %w", database.ErrNotFound), wantOK: true},
		{name: "store failure", sess: session, storeErr: errors.New("db gone"), wantKind: kindPtr(apperr.KindInternal)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gw := mocks.NewMockGateway(ctrl)
			gw.EXPECT().GetSession(gomock.Any(), gomock.Any()).Return(c.sess, c.gwErr)

			lookups := 0
			users := userReaderFunc(func(_ context.Context, id string) (models.User, error) {
				lookups++
				return c.user, c.storeErr
			})

			r := auth.NewResolver(gw, users, zap.NewNop())
			caller, ok, err := r.Resolve(context.Background(), http.Header{})
			if c.wantKind != nil {
				if !apperr.Is(err, *c.wantKind) {
					t.Fatalf("err=%v want kind %s", err, c.wantKind.Code())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != c.wantOK {
				t.Fatalf("ok=%v want %v", ok, c.wantOK)
			}
			if caller.Role != c.wantRole {
				t.Fatalf("role=%q want %q", caller.Role, c.wantRole)
			}
			if c.sess == nil && lookups != 0 {
				t.Fatal("store consulted without a session")
			}
			if c.sess != nil && lookups != 1 {
				t.Fatalf("store consulted %d times, want exactly once", lookups)
			}
		})
	}
}

func kindPtr(k apperr.Kind) *apperr.Kind { return &k }
